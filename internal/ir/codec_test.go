package ir

import (
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	b := NewBuilder("demo")
	b.Declare("s1", Text(), At(0, 6)).
		DeclareFrom("s2", Text(), "s1", At(7, 18)).
		Read("s1", At(19, 27)).
		Call("consume", At(28, 40), Arg{Name: "s2", Loc: At(36, 38)}).
		Return("", At(41, 47))
	unit := b.Unit()

	data, err := Encode(unit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "demo" {
		t.Errorf("Name = %q", got.Name)
	}
	if len(got.Instrs) != 5 {
		t.Fatalf("len(Instrs) = %d, want 5", len(got.Instrs))
	}
	if got.Instrs[1].Op != OpDeclare || got.Instrs[1].From != "s1" || got.Instrs[1].Init != InitBinding {
		t.Errorf("unexpected second instruction: %+v", got.Instrs[1])
	}
	if got.Instrs[3].Args[0].Name != "s2" {
		t.Errorf("call argument lost: %+v", got.Instrs[3])
	}
	if got.Instrs[1].Type == nil || got.Instrs[1].Type.Kind != "text" {
		t.Errorf("declare type lost: %+v", got.Instrs[1].Type)
	}
}

func TestDecodeRejectsBadSchema(t *testing.T) {
	unit := NewBuilder("demo").Read("x", At(0, 1)).Unit()
	data, err := Encode(unit)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Re-encode with a bumped schema by hand.
	unit.Schema = SchemaVersion + 1
	bad, err := encodeRaw(unit)
	if err != nil {
		t.Fatalf("encodeRaw: %v", err)
	}
	if _, err := Decode(bad); err == nil {
		t.Error("expected schema mismatch error")
	}

	if _, err := Decode(data[:len(data)/2]); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestDecodeNormalizesIdentifiers(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) must fold into U+00E9.
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"

	b := NewBuilder("norm")
	b.Declare(decomposed, Text(), At(0, 4)).Read(decomposed, At(5, 9))
	data, err := Encode(b.Unit())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Instrs[0].Name != composed {
		t.Errorf("declare name = %q, want %q", got.Instrs[0].Name, composed)
	}
	if got.Instrs[1].Name != composed {
		t.Errorf("read name = %q, want %q", got.Instrs[1].Name, composed)
	}
}
