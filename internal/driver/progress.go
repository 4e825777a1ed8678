package driver

import "time"

// UnitStatus reports whether a unit check started or finished.
type UnitStatus int

const (
	UnitStart UnitStatus = iota
	UnitEnd
)

// UnitEvent describes one unit check boundary.
type UnitEvent struct {
	Name    string
	Index   int
	Total   int
	Status  UnitStatus
	Passed  bool
	Elapsed time.Duration
}

// ProgressObserver receives unit events as the project check runs. It may
// be called from multiple goroutines.
type ProgressObserver func(UnitEvent)

func (o Options) observe(ev UnitEvent) {
	if o.Observer != nil {
		o.Observer(ev)
	}
}
