package diagfmt

import (
	"encoding/json"
	"io"

	"movec/internal/check"
	"movec/internal/diag"
	"movec/internal/observ"
	"movec/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// ViolationJSON is the machine-readable form of one ownership violation.
type ViolationJSON struct {
	Kind        string        `json:"kind"`
	BindingName string        `json:"binding_name"`
	Location    LocationJSON  `json:"location"`
	CausedBy    *LocationJSON `json:"caused_by_location,omitempty"`
}

// ReleaseJSON is one entry of the drop plan.
type ReleaseJSON struct {
	BindingName string       `json:"binding_name"`
	DeclaredAt  LocationJSON `json:"declared_at"`
	ReleasedAt  LocationJSON `json:"released_at"`
}

// UnitReportJSON aggregates one unit file's pass outcome.
type UnitReportJSON struct {
	Unit       string          `json:"unit,omitempty"`
	Path       string          `json:"path"`
	OK         bool            `json:"ok"`
	Cached     bool            `json:"cached,omitempty"`
	Violations []ViolationJSON `json:"violations"`
	Plan       []ReleaseJSON   `json:"release_plan"`
	Timings    *observ.Report  `json:"timings,omitempty"`
}

// RunOutput is the root structure for a whole invocation.
type RunOutput struct {
	Units  []UnitReportJSON `json:"units"`
	Count  int              `json:"count"`
	Errors int              `json:"errors"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	f := fs.Get(span.File)

	loc := LocationJSON{
		File:      formatPath(f, pathMode, fs.BaseDir()),
		StartByte: span.Start,
		EndByte:   span.End,
	}

	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}

	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	diagnostics := make([]DiagnosticJSON, 0, bag.Len())

	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	for i := 0; i < maxItems; i++ {
		d := items[i]

		diagJSON := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}

		if opts.IncludeNotes && len(d.Notes) > 0 {
			diagJSON.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				diagJSON.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}

		diagnostics = append(diagnostics, diagJSON)
	}

	return DiagnosticsOutput{Diagnostics: diagnostics, Count: len(diagnostics)}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(bag, fs, opts)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// BuildUnitReport converts one pass outcome into its JSON form. A nil
// result (fatal error) yields OK=false with empty violation and plan lists.
func BuildUnitReport(path string, cached bool, res *check.Result, timings *observ.Report, fs *source.FileSet, opts JSONOpts) UnitReportJSON {
	report := UnitReportJSON{
		Path:       path,
		Cached:     cached,
		Violations: []ViolationJSON{},
		Plan:       []ReleaseJSON{},
		Timings:    timings,
	}
	if res == nil {
		return report
	}

	report.Unit = res.Unit
	report.OK = res.OK()
	for _, v := range res.Violations {
		vj := ViolationJSON{
			Kind:        v.Kind.String(),
			BindingName: v.Binding,
			Location:    makeLocation(v.Loc, fs, opts.PathMode, opts.IncludePositions),
		}
		if !v.CausedBy.Empty() {
			cause := makeLocation(v.CausedBy, fs, opts.PathMode, opts.IncludePositions)
			vj.CausedBy = &cause
		}
		report.Violations = append(report.Violations, vj)
	}
	for _, rel := range res.Plan {
		report.Plan = append(report.Plan, ReleaseJSON{
			BindingName: rel.Binding,
			DeclaredAt:  makeLocation(rel.Decl, fs, opts.PathMode, opts.IncludePositions),
			ReleasedAt:  makeLocation(rel.At, fs, opts.PathMode, opts.IncludePositions),
		})
	}
	return report
}

// RunJSON serializes the whole invocation's unit reports.
func RunJSON(w io.Writer, units []UnitReportJSON) error {
	out := RunOutput{Units: units, Count: len(units)}
	for i := range units {
		if !units[i].OK {
			out.Errors++
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
