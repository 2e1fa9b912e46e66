package engine

// #region imports
import (
	"time"

	"github.com/lumabot/selfie-engine/internal/catalog"
)

// #endregion

// #region season

// seasonOf buckets a timestamp into a northern-hemisphere season.
func seasonOf(t time.Time) catalog.Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return catalog.SeasonSpring
	case time.June, time.July, time.August:
		return catalog.SeasonSummer
	case time.September, time.October, time.November:
		return catalog.SeasonFall
	}
	return catalog.SeasonWinter
}

// #endregion

// #region time-of-day

// periodOf buckets a timestamp into a scoring period.
func periodOf(t time.Time) catalog.TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return catalog.TimeMorning
	case h >= 12 && h < 17:
		return catalog.TimeAfternoon
	case h >= 17 && h < 22:
		return catalog.TimeEvening
	}
	return catalog.TimeNight
}

// #endregion

// #region formal-event

// nearbyFormalEventWindow is how far ahead a formal event counts.
const nearbyFormalEventWindow = 2 * time.Hour

// #endregion
