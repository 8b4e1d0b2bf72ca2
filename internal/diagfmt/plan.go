package diagfmt

import (
	"fmt"
	"io"

	"movec/internal/check"
	"movec/internal/source"
)

// Plan prints the release plan in execution order, one line per release:
// release <name> at <path>:<line>:<col> (declared at <line>:<col>)
func Plan(w io.Writer, res *check.Result, fs *source.FileSet, pathMode PathMode) {
	if res == nil {
		return
	}
	for _, rel := range res.Plan {
		f := fs.Get(rel.At.File)
		atPos, _ := fs.Resolve(rel.At)
		declPos, _ := fs.Resolve(rel.Decl)
		fmt.Fprintf(w, "release %s at %s:%d:%d (declared at %d:%d)\n",
			rel.Binding,
			formatPath(f, pathMode, fs.BaseDir()),
			atPos.Line, atPos.Col,
			declPos.Line, declPos.Col)
	}
	if len(res.Plan) == 0 {
		fmt.Fprintln(w, "no releases planned")
	}
}
