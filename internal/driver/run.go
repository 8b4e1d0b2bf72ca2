package driver

import (
	"errors"
	"fmt"

	"movec/internal/check"
	"movec/internal/diag"
	"movec/internal/ir"
	"movec/internal/observ"
	"movec/internal/source"
	"movec/internal/types"
)

// UnitResult содержит результат проверки одного unit-файла.
type UnitResult struct {
	Path   string        // относительный путь к файлу
	FileID source.FileID // ID файла в FileSet
	Bag    *diag.Bag     // диагностики
	Result *check.Result // nil при фатальной ошибке (IO, decode, malformed)
	Err    error         // фатальная per-unit ошибка
	Cached bool          // результат взят из disk cache
	Timing *observ.Report
}

// CheckFile loads one unit file and runs the ownership pass over it.
// Load, decode, and malformed-input failures land in the Bag and Err;
// violations land in Bag and Result.
func CheckFile(fileSet *source.FileSet, path string, maxDiagnostics int) *UnitResult {
	bag := diag.NewBag(maxDiagnostics)
	timer := observ.NewTimer()

	loadPhase := timer.Begin("load")
	fileID, err := fileSet.Load(path)
	if err != nil {
		timer.End(loadPhase, "failed")
		// Пустой виртуальный файл, чтобы спаны диагностики резолвились.
		fileID = fileSet.AddVirtual(path, nil)
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  "failed to load file: " + err.Error(),
			Primary:  source.Span{File: fileID},
		})
		report := timer.Report()
		return &UnitResult{Path: path, FileID: fileID, Bag: bag, Err: err, Timing: &report}
	}
	timer.End(loadPhase, "")

	res := checkLoaded(fileSet, fileID, bag, timer)
	res.Path = path
	return res
}

// CheckVirtual runs the pass over an in-memory payload, for stdin and tests.
func CheckVirtual(fileSet *source.FileSet, name string, payload []byte, maxDiagnostics int) *UnitResult {
	bag := diag.NewBag(maxDiagnostics)
	timer := observ.NewTimer()
	fileID := fileSet.AddVirtual(name, payload)
	res := checkLoaded(fileSet, fileID, bag, timer)
	res.Path = name
	return res
}

func checkLoaded(fileSet *source.FileSet, fileID source.FileID, bag *diag.Bag, timer *observ.Timer) *UnitResult {
	out := &UnitResult{FileID: fileID, Bag: bag}

	decodePhase := timer.Begin("decode")
	unit, err := ir.Decode(fileSet.Get(fileID).Content)
	if err != nil {
		timer.End(decodePhase, "failed")
		code := diag.IRMalformed
		var decodeErr *ir.DecodeError
		if errors.As(err, &decodeErr) && decodeErr.Unit != "" {
			// Схема известна только после успешного чтения заголовка.
			code = diag.IRBadSchema
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     code,
			Message:  err.Error(),
			Primary:  source.Span{File: fileID},
		})
		out.Err = err
		report := timer.Report()
		out.Timing = &report
		return out
	}
	timer.End(decodePhase, fmt.Sprintf("%d instrs", len(unit.Instrs)))

	checkPhase := timer.Begin("check")
	checker := check.New(types.NewInterner(), diag.BagReporter{Bag: bag})
	result, err := checker.Check(unit, fileID)
	if err != nil {
		timer.End(checkPhase, "aborted")
		var malformed *check.MalformedInputError
		primary := source.Span{File: fileID}
		if errors.As(err, &malformed) {
			primary = malformed.Span
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IRMalformed,
			Message:  err.Error(),
			Primary:  primary,
		})
		out.Err = err
		report := timer.Report()
		out.Timing = &report
		return out
	}
	timer.End(checkPhase, fmt.Sprintf("%d violations", len(result.Violations)))

	out.Result = result
	report := timer.Report()
	out.Timing = &report
	return out
}

// replayResult регенерирует диагностики из закэшированного результата.
func replayResult(res *check.Result, bag *diag.Bag) {
	for _, v := range res.Violations {
		d := diag.Diagnostic{
			Severity: diag.SevError,
			Code:     v.Kind.Code(),
			Message:  v.Message(),
			Primary:  v.Loc,
		}
		if !v.CausedBy.Empty() {
			d = d.WithNote(v.CausedBy, fmt.Sprintf("value '%s' was moved here", v.Binding))
		}
		bag.Add(d)
	}
}
