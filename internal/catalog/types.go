package catalog

// #region hairstyle

// Hairstyle identifies one of the pre-authorized reference hairstyles.
type Hairstyle string

const (
	HairCurly    Hairstyle = "curly"
	HairStraight Hairstyle = "straight"
	HairMessyBun Hairstyle = "messy_bun"
	HairPonytail Hairstyle = "ponytail"
	HairWaves    Hairstyle = "waves"
	HairAny      Hairstyle = "any" // wildcard, valid only in enhancer hints
)

// #endregion

// #region formality

// Formality classifies an outfit's dress level.
type Formality string

const (
	FormalityCasual    Formality = "casual"
	FormalityDressedUp Formality = "dressed_up"
	FormalityAthletic  Formality = "athletic"
	FormalityCozy      Formality = "cozy"
	FormalityUnknown   Formality = "unknown" // enhancer hints only
)

// #endregion

// #region season

// Season is a calendar season used for seasonal fit scoring.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// #endregion

// #region time-of-day

// TimeOfDay buckets the clock into scoring periods.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// #endregion

// #region appearance

// ReferenceAppearance is one immutable candidate appearance. Loaded at
// startup and validated; never mutated afterwards.
type ReferenceAppearance struct {
	ID               string                `yaml:"id"`
	Hairstyle        Hairstyle             `yaml:"hairstyle"`
	Formality        Formality             `yaml:"formality"`
	BaseFrequency    float64               `yaml:"base_frequency"` // prior popularity in [0,1]
	SuitableScenes   []string              `yaml:"suitable_scenes"`
	UnsuitableScenes []string              `yaml:"unsuitable_scenes"`
	SuitableSeasons  []Season              `yaml:"suitable_seasons"`
	MoodAffinity     map[string]float64    `yaml:"mood_affinity"` // mood label → [0,1]
	TimeAffinity     map[TimeOfDay]float64 `yaml:"time_affinity"` // period → [0,1]
}

// SuitableFor reports whether scene matches any suitable-scene keyword.
func (a ReferenceAppearance) SuitableFor(scene string) bool {
	return keywordMatch(a.SuitableScenes, scene)
}

// UnsuitableFor reports whether scene matches any unsuitable-scene keyword.
func (a ReferenceAppearance) UnsuitableFor(scene string) bool {
	return keywordMatch(a.UnsuitableScenes, scene)
}

// InSeason reports whether s is in the suitable-season set.
func (a ReferenceAppearance) InSeason(s Season) bool {
	for _, ss := range a.SuitableSeasons {
		if ss == s {
			return true
		}
	}
	return false
}

// #endregion
