package scoring

// Default scoring weights. These are policy constants, not invariants;
// the engine config may override any of them.
const (
	DefaultBaseScale           = 100.0
	DefaultSceneSuitable       = 30.0
	DefaultSceneUnsuitable     = -50.0
	DefaultMoodScale           = 20.0
	DefaultTimeOfDayScale      = 15.0
	DefaultSeasonMatch         = 10.0
	DefaultSeasonMismatch      = -15.0
	DefaultOutfitHintFormal    = 25.0
	DefaultOutfitHintCasual    = 15.0
	DefaultNearbyFormalEvent   = 20.0
	DefaultEnhancerOutfitScale = 35.0
	DefaultEnhancerHairScale   = 30.0

	DefaultRepeatUnder6h  = -40.0
	DefaultRepeatUnder24h = -25.0
	DefaultRepeatUnder72h = -10.0
)

// Weights configures every numeric adjustment the scorer and repetition
// filter apply. Scales multiply an affinity or confidence in [0,1]; the
// rest are flat adjustments.
type Weights struct {
	BaseScale           float64 `yaml:"base_scale"`
	SceneSuitable       float64 `yaml:"scene_suitable"`
	SceneUnsuitable     float64 `yaml:"scene_unsuitable"`
	MoodScale           float64 `yaml:"mood_scale"`
	TimeOfDayScale      float64 `yaml:"time_of_day_scale"`
	SeasonMatch         float64 `yaml:"season_match"`
	SeasonMismatch      float64 `yaml:"season_mismatch"`
	OutfitHintFormal    float64 `yaml:"outfit_hint_formal"`
	OutfitHintCasual    float64 `yaml:"outfit_hint_casual"`
	NearbyFormalEvent   float64 `yaml:"nearby_formal_event"`
	EnhancerOutfitScale float64 `yaml:"enhancer_outfit_scale"`
	EnhancerHairScale   float64 `yaml:"enhancer_hair_scale"`

	RepeatUnder6h  float64 `yaml:"repeat_under_6h"`
	RepeatUnder24h float64 `yaml:"repeat_under_24h"`
	RepeatUnder72h float64 `yaml:"repeat_under_72h"`
}

// DefaultWeights returns the standard scoring policy.
func DefaultWeights() Weights {
	return Weights{
		BaseScale:           DefaultBaseScale,
		SceneSuitable:       DefaultSceneSuitable,
		SceneUnsuitable:     DefaultSceneUnsuitable,
		MoodScale:           DefaultMoodScale,
		TimeOfDayScale:      DefaultTimeOfDayScale,
		SeasonMatch:         DefaultSeasonMatch,
		SeasonMismatch:      DefaultSeasonMismatch,
		OutfitHintFormal:    DefaultOutfitHintFormal,
		OutfitHintCasual:    DefaultOutfitHintCasual,
		NearbyFormalEvent:   DefaultNearbyFormalEvent,
		EnhancerOutfitScale: DefaultEnhancerOutfitScale,
		EnhancerHairScale:   DefaultEnhancerHairScale,
		RepeatUnder6h:       DefaultRepeatUnder6h,
		RepeatUnder24h:      DefaultRepeatUnder24h,
		RepeatUnder72h:      DefaultRepeatUnder72h,
	}
}
