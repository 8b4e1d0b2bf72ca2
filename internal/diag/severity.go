package diag

// Severity ranks a diagnostic of the ownership pass.
type Severity uint8

const (
	// SevInfo is advisory output: timings, cache notes.
	SevInfo Severity = iota
	// SevWarning flags suspicious but rule-abiding input.
	SevWarning
	// SevError marks an ownership violation or unusable input.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
