package classify

// #region imports
import "time"

// #endregion

// #region timeframe

// Timeframe is the coarse age bucket of the referenced moment.
type Timeframe string

const (
	FrameNow       Timeframe = "now"
	FrameToday     Timeframe = "today"
	FrameYesterday Timeframe = "yesterday"
	FrameLastWeek  Timeframe = "last_week"
	FrameLastMonth Timeframe = "last_month"
	FrameVaguePast Timeframe = "vague_past"
)

// frameOffsets maps each past bucket to a fixed offset from now.
// Present buckets carry no reference date.
var frameOffsets = map[Timeframe]time.Duration{
	FrameYesterday: -24 * time.Hour,
	FrameLastWeek:  -7 * 24 * time.Hour,
	FrameLastMonth: -30 * 24 * time.Hour,
	FrameVaguePast: -60 * time.Hour, // roughly 2.5 days back
}

func validFrame(f Timeframe) bool {
	switch f {
	case FrameNow, FrameToday, FrameYesterday, FrameLastWeek, FrameLastMonth, FrameVaguePast:
		return true
	}
	return false
}

// #endregion

// #region classification

// TemporalClassification is the per-request temporal verdict.
type TemporalClassification struct {
	IsOldPhoto    bool
	Timeframe     Timeframe
	Confidence    float64
	Signals       []string   // phrases that justified the call
	ReferenceDate *time.Time // concrete moment for past buckets, nil otherwise
	Fallback      bool       // true when the deterministic path produced this
}

// #endregion
