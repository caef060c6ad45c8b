package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimingMetric_Record(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("test")

	m.Record(10 * time.Millisecond)
	m.Record(30 * time.Millisecond)
	m.Record(20 * time.Millisecond)

	s := m.Stats()
	if s.Count != 3 {
		t.Errorf("Count = %d, want 3", s.Count)
	}
	if s.Total != 60*time.Millisecond || s.Avg != 20*time.Millisecond {
		t.Errorf("Total/Avg = %v/%v", s.Total, s.Avg)
	}
	if s.Max != 30*time.Millisecond || s.Min != 10*time.Millisecond {
		t.Errorf("Max/Min = %v/%v", s.Max, s.Min)
	}

	m.Reset()
	if m.Count() != 0 || m.Stats().Max != 0 {
		t.Error("Reset should clear the metric")
	}
}

func TestTimingMetric_Concurrent(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(time.Millisecond)
		}()
	}
	wg.Wait()

	if m.Count() != 50 {
		t.Errorf("Count = %d, want 50", m.Count())
	}
}

func TestDisabledRecordsNothing(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(true) })

	m := newTimingMetric("off")
	Timer(m)()
	m.Record(time.Second)
	if m.Count() != 0 {
		t.Errorf("disabled metric recorded %d samples", m.Count())
	}
}

func TestReportListsOnlyUsedMetrics(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	t.Cleanup(ResetAll)

	Plan.Record(2 * time.Millisecond)

	out := Report()
	if !strings.Contains(out, "plan") {
		t.Errorf("report missing plan:\n%s", out)
	}
	if strings.Contains(out, "render_gif") {
		t.Errorf("report should skip unused metrics:\n%s", out)
	}
	if len(AllTimingStats()) != 1 {
		t.Errorf("expected 1 stats entry, got %d", len(AllTimingStats()))
	}
}
