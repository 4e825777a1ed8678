package diag

// Severity ranks how much a diagnostic matters. Only errors fail a unit;
// warnings and infos report without blocking. The numeric order is load
// bearing: Bag.Sort puts higher severities first within a span, so the
// values must stay info < warning < error.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the uppercase label stamped into exported artifacts.
// Renderers that want lowercase map it themselves.
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
