package catalog

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region file-format

// file is the on-disk catalog document.
type file struct {
	Appearances []ReferenceAppearance `yaml:"appearances"`
}

// #endregion

// #region load

// Load reads and validates a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(f.Appearances)
}

// #endregion

// #region defaults

// Default returns the built-in appearance set. Used by the REPL when no
// catalog file is given, and as the base fixture for replay scenarios.
func Default() *Catalog {
	c, err := New(defaultAppearances())
	if err != nil {
		// the built-in set is validated by tests; reaching this is a bug
		panic(fmt.Sprintf("catalog: built-in set invalid: %v", err))
	}
	return c
}

func defaultAppearances() []ReferenceAppearance {
	return []ReferenceAppearance{
		{
			ID:               "curly_casual",
			Hairstyle:        HairCurly,
			Formality:        FormalityCasual,
			BaseFrequency:    0.4,
			SuitableScenes:   []string{"coffee", "park", "home", "bookstore"},
			UnsuitableScenes: []string{"gala", "gym"},
			SuitableSeasons:  []Season{SeasonSpring, SeasonSummer, SeasonFall},
			MoodAffinity:     map[string]float64{
				"playful": 0.7, "relaxed": 0.8, "thoughtful": 0.6,
			},
			TimeAffinity:     map[TimeOfDay]float64{
				TimeMorning: 0.7, TimeAfternoon: 0.8, TimeEvening: 0.5, TimeNight: 0.3,
			},
		},
		{
			ID:               "messy_bun_casual",
			Hairstyle:        HairMessyBun,
			Formality:        FormalityCasual,
			BaseFrequency:    0.2,
			SuitableScenes:   []string{"gym", "home", "hike", "grocery"},
			UnsuitableScenes: []string{"gala", "restaurant"},
			SuitableSeasons:  []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter},
			MoodAffinity:     map[string]float64{
				"playful": 0.6, "energetic": 0.9, "relaxed": 0.7,
			},
			TimeAffinity:     map[TimeOfDay]float64{
				TimeMorning: 0.9, TimeAfternoon: 0.6, TimeEvening: 0.4, TimeNight: 0.5,
			},
		},
		{
			ID:               "straight_dressed",
			Hairstyle:        HairStraight,
			Formality:        FormalityDressedUp,
			BaseFrequency:    0.25,
			SuitableScenes:   []string{"restaurant", "gala", "bar", "theater", "date"},
			UnsuitableScenes: []string{"gym", "hike", "beach"},
			SuitableSeasons:  []Season{SeasonFall, SeasonWinter},
			MoodAffinity:     map[string]float64{
				"confident": 0.9, "flirty": 0.8, "playful": 0.4,
			},
			TimeAffinity:     map[TimeOfDay]float64{
				TimeMorning: 0.2, TimeAfternoon: 0.4, TimeEvening: 0.9, TimeNight: 0.8,
			},
		},
		{
			ID:               "ponytail_athletic",
			Hairstyle:        HairPonytail,
			Formality:        FormalityAthletic,
			BaseFrequency:    0.15,
			SuitableScenes:   []string{"gym", "run", "hike", "yoga", "beach"},
			UnsuitableScenes: []string{"gala", "restaurant", "theater"},
			SuitableSeasons:  []Season{SeasonSpring, SeasonSummer},
			MoodAffinity:     map[string]float64{
				"energetic": 1.0, "determined": 0.8, "playful": 0.5,
			},
			TimeAffinity:     map[TimeOfDay]float64{
				TimeMorning: 1.0, TimeAfternoon: 0.7, TimeEvening: 0.4, TimeNight: 0.2,
			},
		},
		{
			ID:               "waves_cozy",
			Hairstyle:        HairWaves,
			Formality:        FormalityCozy,
			BaseFrequency:    0.3,
			SuitableScenes:   []string{"home", "couch", "rain", "cafe", "bookstore"},
			UnsuitableScenes: []string{"gym", "gala"},
			SuitableSeasons:  []Season{SeasonFall, SeasonWinter},
			MoodAffinity:     map[string]float64{
				"relaxed": 1.0, "thoughtful": 0.8, "sleepy": 0.9,
			},
			TimeAffinity:     map[TimeOfDay]float64{
				TimeMorning: 0.5, TimeAfternoon: 0.4, TimeEvening: 0.8, TimeNight: 0.9,
			},
		},
	}
}

// #endregion
