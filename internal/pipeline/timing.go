package pipeline

import "time"

const (
	stageRead    = "read"
	stageSegment = "segment"
	stageWrite   = "write"
	stageDisplay = "display"
)

// stageTimings accumulates wall time per pipeline stage for one run.
type stageTimings struct {
	totals map[string]time.Duration
	counts map[string]int
}

func newStageTimings() *stageTimings {
	return &stageTimings{
		totals: make(map[string]time.Duration),
		counts: make(map[string]int),
	}
}

// track starts timing stage and returns the function that stops it.
func (t *stageTimings) track(stage string) func() {
	start := time.Now()
	return func() {
		t.record(stage, time.Since(start))
	}
}

func (t *stageTimings) record(stage string, d time.Duration) {
	t.totals[stage] += d
	t.counts[stage]++
}

func (t *stageTimings) average(stage string) time.Duration {
	n := t.counts[stage]
	if n == 0 {
		return 0
	}
	return t.totals[stage] / time.Duration(n)
}

func (t *stageTimings) averages() map[string]time.Duration {
	result := make(map[string]time.Duration, len(t.counts))
	for stage := range t.counts {
		result[stage] = t.average(stage)
	}
	return result
}
