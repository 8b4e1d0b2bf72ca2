package diag

import (
	"testing"

	"movec/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)

	if !bag.Add(Diagnostic{Severity: SevError, Code: OwnUseAfterMove}) {
		t.Error("expected first Add to succeed")
	}
	if !bag.Add(Diagnostic{Severity: SevError, Code: OwnUnknownIdent}) {
		t.Error("expected second Add to succeed")
	}
	if bag.Add(Diagnostic{Severity: SevError, Code: OwnDoubleBinding}) {
		t.Error("expected third Add to hit the limit")
	}
	if bag.Len() != 2 {
		t.Errorf("Len() = %d, want 2", bag.Len())
	}
}

func TestBagLimitClamped(t *testing.T) {
	// Отрицательный лимит не должен паниковать в make.
	bag := NewBag(-1)
	if bag.Add(Diagnostic{Severity: SevError, Code: OwnUseAfterMove}) {
		t.Error("expected Add to fail with a zero limit")
	}
	if bag.Cap() != 0 {
		t.Errorf("Cap() = %d, want 0", bag.Cap())
	}

	// Лимит больше uint16 зажимается, а не обрезается по младшим битам.
	big := NewBag(1 << 20)
	if big.Cap() != 1<<16-1 {
		t.Errorf("Cap() = %d, want %d", big.Cap(), 1<<16-1)
	}
	if !big.Add(Diagnostic{Severity: SevError, Code: OwnUseAfterMove}) {
		t.Error("expected Add to succeed under a clamped limit")
	}
}

func TestBagHasErrors(t *testing.T) {
	bag := NewBag(10)
	if bag.HasErrors() {
		t.Error("empty bag must not have errors")
	}

	bag.Add(Diagnostic{Severity: SevInfo, Code: ObsTimings})
	if bag.HasErrors() {
		t.Error("info-only bag must not have errors")
	}
	if bag.HasWarnings() {
		t.Error("info-only bag must not have warnings")
	}

	bag.Add(Diagnostic{Severity: SevError, Code: OwnUseAfterMove})
	if !bag.HasErrors() {
		t.Error("expected HasErrors after error diagnostic")
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevError, Code: OwnUnknownIdent, Primary: source.Span{File: 0, Start: 30, End: 31}})
	bag.Add(Diagnostic{Severity: SevError, Code: OwnUseAfterMove, Primary: source.Span{File: 0, Start: 10, End: 12}})
	bag.Sort()

	items := bag.Items()
	if items[0].Code != OwnUseAfterMove || items[1].Code != OwnUnknownIdent {
		t.Errorf("unexpected order after Sort: %v, %v", items[0].Code, items[1].Code)
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		id   string
	}{
		{OwnUseAfterMove, "OWN1001"},
		{OwnDoubleBinding, "OWN1002"},
		{OwnUnknownIdent, "OWN1003"},
		{IRMalformed, "IR2001"},
		{IOLoadFileError, "IO4001"},
		{ObsTimings, "OBS6001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("ID(%d) = %q, want %q", tt.code, got, tt.id)
		}
	}
}
