package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Ownership pass (1000-1999)
	OwnInfo          Code = 1000
	OwnUseAfterMove  Code = 1001
	OwnDoubleBinding Code = 1002
	OwnUnknownIdent  Code = 1003

	// IR input (2000-2999)
	IRInfo      Code = 2000
	IRMalformed Code = 2001
	IRBadSchema Code = 2002

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:      "Unknown error",
	OwnInfo:          "Ownership information",
	OwnUseAfterMove:  "Use of moved value",
	OwnDoubleBinding: "Duplicate binding name in scope",
	OwnUnknownIdent:  "Unknown identifier",
	IRInfo:           "IR information",
	IRMalformed:      "Malformed IR unit",
	IRBadSchema:      "Unsupported IR schema version",
	IOLoadFileError:  "I/O load file error",
	ObsInfo:          "Observability information",
	ObsTimings:       "Pass timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("OWN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
