package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"movec/internal/check"
	"movec/internal/source"
)

func TestJSONDiagnostics(t *testing.T) {
	bag, fs, _ := sampleBag(t)

	var sb strings.Builder
	err := JSON(&sb, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "OWN1001" || d.Severity != "ERROR" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if d.Location.StartLine != 3 || d.Location.StartCol != 7 {
		t.Fatalf("unexpected location: %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 2 {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	bag.Add(bag.Items()[0]) // второй экземпляр

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("expected truncation to 1, got %d", out.Count)
	}
}

func TestBuildUnitReport(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("sample.mv", []byte(sampleProgram))

	res := &check.Result{
		Unit: "sample",
		Violations: []check.Violation{{
			Kind:     check.ViolationUseAfterMove,
			Binding:  "s",
			Loc:      source.Span{File: id, Start: 35, End: 36},
			CausedBy: source.Span{File: id, Start: 26, End: 27},
		}},
		Plan: []check.Release{{
			Binding: "s",
			Decl:    source.Span{File: id, Start: 4, End: 5},
			At:      source.Span{File: id, Start: 38, End: 38},
		}},
	}

	report := BuildUnitReport("sample.mv", false, res, nil, fs, JSONOpts{IncludePositions: true})
	if report.OK {
		t.Fatal("report with violations must not be OK")
	}
	if len(report.Violations) != 1 {
		t.Fatalf("violations = %+v", report.Violations)
	}
	v := report.Violations[0]
	if v.Kind != "UseAfterMove" || v.BindingName != "s" {
		t.Fatalf("unexpected violation: %+v", v)
	}
	if v.CausedBy == nil || v.CausedBy.StartByte != 26 {
		t.Fatalf("caused_by lost: %+v", v.CausedBy)
	}
	if len(report.Plan) != 1 || report.Plan[0].BindingName != "s" {
		t.Fatalf("plan = %+v", report.Plan)
	}
}

func TestBuildUnitReportFatal(t *testing.T) {
	fs := source.NewFileSet()
	report := BuildUnitReport("broken.mvu", false, nil, nil, fs, JSONOpts{})
	if report.OK {
		t.Fatal("fatal result must not be OK")
	}
	if report.Violations == nil || report.Plan == nil {
		t.Fatal("lists must be present (empty, not null) for stable consumers")
	}
}

func TestRunJSONCountsErrors(t *testing.T) {
	var sb strings.Builder
	units := []UnitReportJSON{
		{Path: "a.mvu", OK: true, Violations: []ViolationJSON{}, Plan: []ReleaseJSON{}},
		{Path: "b.mvu", OK: false, Violations: []ViolationJSON{}, Plan: []ReleaseJSON{}},
	}
	if err := RunJSON(&sb, units); err != nil {
		t.Fatalf("RunJSON: %v", err)
	}
	var out RunOutput
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || out.Errors != 1 {
		t.Fatalf("count = %d, errors = %d", out.Count, out.Errors)
	}
}
