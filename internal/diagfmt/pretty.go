package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"movec/internal/diag"
	"movec/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> [<CODE>]: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writePretty(w, d, fs, opts)
	}
}

func writePretty(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(d.Primary.File)
	startPos, _ := fs.Resolve(d.Primary)
	path := formatPath(f, opts.PathMode, fs.BaseDir())

	header := fmt.Sprintf("%s:%d:%d: %s [%s]: %s",
		path, startPos.Line, startPos.Col,
		severityLabel(d.Severity, opts.Color),
		codeLabel(d.Code, opts.Color),
		d.Message)
	fmt.Fprintln(w, truncateLine(header, opts.Width))

	if opts.ShowSnippets {
		writeSnippet(w, f, fs, d.Primary, opts)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			noteFile := fs.Get(note.Span.File)
			notePos, _ := fs.Resolve(note.Span)
			line := fmt.Sprintf("  note: %s:%d:%d: %s",
				formatPath(noteFile, opts.PathMode, fs.BaseDir()),
				notePos.Line, notePos.Col, note.Msg)
			fmt.Fprintln(w, truncateLine(line, opts.Width))
			if opts.ShowSnippets {
				writeSnippet(w, noteFile, fs, note.Span, opts)
			}
		}
	}
}

// writeSnippet печатает строку исходника и подчёркивание ^~~~ под спаном.
func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	startPos, endPos := fs.Resolve(span)
	line := f.GetLine(startPos.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", truncateLine(line, opts.Width))

	// Ширина подчёркивания учитывает реальную ширину рун до и внутри спана.
	prefixCols := runewidth.StringWidth(sliceCols(line, 1, startPos.Col))
	spanEndCol := endPos.Col
	if endPos.Line != startPos.Line {
		// Многострочный спан подчёркиваем до конца первой строки.
		spanEndCol = uint32(len([]rune(line))) + 1
	}
	underCols := runewidth.StringWidth(sliceCols(line, startPos.Col, spanEndCol))
	if underCols < 1 {
		underCols = 1
	}

	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(strings.Repeat(" ", prefixCols))
	sb.WriteString("^")
	if underCols > 1 {
		sb.WriteString(strings.Repeat("~", underCols-1))
	}
	underline := sb.String()
	if opts.Color {
		underline = color.New(color.FgRed, color.Bold).Sprint(underline)
	}
	fmt.Fprintln(w, underline)
}

// sliceCols возвращает руны строки в диапазоне колонок [from, to), 1-based.
func sliceCols(line string, from, to uint32) string {
	if to <= from {
		return ""
	}
	runes := []rune(line)
	start := int(from) - 1
	end := int(to) - 1
	if start > len(runes) {
		start = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start < 0 || end < start {
		return ""
	}
	return string(runes[start:end])
}

func truncateLine(s string, width uint16) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}

func severityLabel(sev diag.Severity, colored bool) string {
	label := sev.String()
	if !colored {
		return label
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(label)
	default:
		return color.New(color.FgCyan).Sprint(label)
	}
}

func codeLabel(code diag.Code, colored bool) string {
	id := code.ID()
	if !colored {
		return id
	}
	return color.New(color.Bold).Sprint(id)
}

// Short prints one diagnostic per line without snippets or notes:
// <path>:<line>:<col>: <SEV> <CODE> <Message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, pathMode PathMode) {
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		startPos, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s %s\n",
			formatPath(f, pathMode, fs.BaseDir()),
			startPos.Line, startPos.Col,
			d.Severity.String(), d.Code.ID(), d.Message)
	}
}
