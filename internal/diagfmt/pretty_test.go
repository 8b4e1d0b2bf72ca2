package diagfmt

import (
	"strings"
	"testing"

	"movec/internal/diag"
	"movec/internal/source"
)

const sampleProgram = "let s: text = make()\nsink(s)\nprint(s)\n"

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("sample.mv", []byte(sampleProgram))

	bag := diag.NewBag(16)
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.OwnUseAfterMove,
		Message:  "use of moved value 's'",
		// "s" в print(s) на третьей строке
		Primary: source.Span{File: id, Start: 35, End: 36},
	}
	d = d.WithNote(source.Span{File: id, Start: 26, End: 27}, "value 's' was moved here")
	bag.Add(d)
	return bag, fs, id
}

func TestPrettyHeader(t *testing.T) {
	bag, fs, _ := sampleBag(t)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowNotes: true})
	out := sb.String()

	if !strings.Contains(out, "sample.mv:3:7: ERROR [OWN1001]: use of moved value 's'") {
		t.Fatalf("header missing or wrong:\n%s", out)
	}
	if !strings.Contains(out, "note: sample.mv:2:6: value 's' was moved here") {
		t.Fatalf("note missing:\n%s", out)
	}
}

func TestPrettySnippetUnderline(t *testing.T) {
	bag, fs, _ := sampleBag(t)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowSnippets: true})
	out := sb.String()

	lines := strings.Split(out, "\n")
	var snippetIdx = -1
	for i, line := range lines {
		if strings.Contains(line, "print(s)") {
			snippetIdx = i
			break
		}
	}
	if snippetIdx == -1 || snippetIdx+1 >= len(lines) {
		t.Fatalf("snippet line missing:\n%s", out)
	}
	underline := lines[snippetIdx+1]
	// Колонка 7 -> два пробела отступа + шесть пробелов + каретка.
	if underline != "  "+strings.Repeat(" ", 6)+"^" {
		t.Fatalf("underline = %q", underline)
	}
}

func TestPrettyTruncation(t *testing.T) {
	bag, fs, _ := sampleBag(t)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{Width: 20})
	out := sb.String()

	line := strings.Split(out, "\n")[0]
	if !strings.HasSuffix(line, "…") {
		t.Fatalf("expected truncated line, got %q", line)
	}
}

func TestShort(t *testing.T) {
	bag, fs, _ := sampleBag(t)

	var sb strings.Builder
	Short(&sb, bag, fs, PathModeBasename)
	out := sb.String()

	want := "sample.mv:3:7: ERROR OWN1001 use of moved value 's'\n"
	if out != want {
		t.Fatalf("short output = %q, want %q", out, want)
	}
}
