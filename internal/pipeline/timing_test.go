package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStageTimingsAverage(t *testing.T) {
	timings := newStageTimings()
	timings.record(stageSegment, 10*time.Millisecond)
	timings.record(stageSegment, 30*time.Millisecond)
	timings.record(stageWrite, 4*time.Millisecond)

	assert.Equal(t, 20*time.Millisecond, timings.average(stageSegment))
	assert.Zero(t, timings.average(stageDisplay))
	assert.Equal(t, map[string]time.Duration{
		stageSegment: 20 * time.Millisecond,
		stageWrite:   4 * time.Millisecond,
	}, timings.averages())
}

func TestStageTimingsTrack(t *testing.T) {
	timings := newStageTimings()
	stop := timings.track(stageRead)
	stop()

	assert.Equal(t, 1, timings.counts[stageRead])
	assert.GreaterOrEqual(t, timings.average(stageRead), time.Duration(0))
}
