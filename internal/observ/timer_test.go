package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerCollectsPhases(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("check")
	time.Sleep(time.Millisecond)
	timer.End(idx, "2 units")

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(report.Phases))
	}
	p := report.Phases[0]
	if p.Name != "check" || p.Note != "2 units" {
		t.Fatalf("phase = %+v", p)
	}
	if p.DurationMS <= 0 || report.TotalMS < p.DurationMS {
		t.Fatalf("durations: phase %.3f total %.3f", p.DurationMS, report.TotalMS)
	}
}

func TestTimerEndIgnoresBadIndex(t *testing.T) {
	timer := NewTimer()
	timer.End(0, "nothing started")
	timer.End(-1, "negative")
	if got := timer.Report(); len(got.Phases) != 0 {
		t.Fatalf("report = %+v, want empty", got)
	}
}

func TestSummaryListsEveryPhase(t *testing.T) {
	timer := NewTimer()
	timer.End(timer.Begin("load"), "")
	timer.End(timer.Begin("check"), "3 units")

	s := timer.Summary()
	for _, want := range []string{"load", "check", "3 units", "total"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}
