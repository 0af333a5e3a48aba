package pipeline

import "time"

type StopReason int

const (
	StopEndOfStream StopReason = iota
	StopQuit
	StopCancelled
	StopFailed
)

func (r StopReason) String() string {
	switch r {
	case StopEndOfStream:
		return "end_of_stream"
	case StopQuit:
		return "quit"
	case StopCancelled:
		return "cancelled"
	case StopFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Stats struct {
	FramesRead      int
	FramesSegmented int
	FramesWritten   int
	StillsExported  int
	SinkErrors      int
	StopReason      StopReason
	Duration        time.Duration
	// StageAverages is the mean wall time of each stage that ran at least once.
	StageAverages map[string]time.Duration
}

// FPS is the segmentation throughput over the whole run.
func (s Stats) FPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.FramesSegmented) / s.Duration.Seconds()
}

// Fields renders the stats for structured logging.
func (s Stats) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"frames_read":      s.FramesRead,
		"frames_segmented": s.FramesSegmented,
		"frames_written":   s.FramesWritten,
		"stills_exported":  s.StillsExported,
		"sink_errors":      s.SinkErrors,
		"stop_reason":      s.StopReason.String(),
		"duration_ms":      s.Duration.Milliseconds(),
		"fps":              s.FPS(),
	}
	for stage, avg := range s.StageAverages {
		fields["avg_"+stage+"_ms"] = float64(avg.Microseconds()) / 1000
	}
	return fields
}
