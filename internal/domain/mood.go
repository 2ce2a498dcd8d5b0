package domain

import "fmt"

// MoodIntensity is an ordered tier: Low < Medium < High < Extreme.
type MoodIntensity int

const (
	IntensityLow MoodIntensity = iota
	IntensityMedium
	IntensityHigh
	IntensityExtreme
)

var intensityNames = [...]string{"Low", "Medium", "High", "Extreme"}

func (i MoodIntensity) String() string {
	if i < IntensityLow || i > IntensityExtreme {
		return fmt.Sprintf("MoodIntensity(%d)", int(i))
	}
	return intensityNames[i]
}

func (i MoodIntensity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// MoodState is the closed set of mood labels a session can be in.
type MoodState int

const (
	MoodCalm MoodState = iota

	MoodEcstatic
	MoodExhilarated
	MoodEuphoric
	MoodElated
	MoodEnthusiastic
	MoodExcited
	MoodHappy
	MoodCheerful
	MoodPleased
	MoodContent
	MoodSatisfied
	MoodComfortable

	MoodIntrigued
	MoodPensive

	MoodUnsettled
	MoodUneasy
	MoodConcerned
	MoodFrustrated
	MoodAnxious
	MoodDistressed
	MoodAngry
	MoodEnraged
	MoodFurious
	MoodDespairing
	MoodDevastated
	MoodAnguished

	moodStateCount
)

var moodNames = [moodStateCount]string{
	MoodCalm:         "Calm",
	MoodEcstatic:     "Ecstatic",
	MoodExhilarated:  "Exhilarated",
	MoodEuphoric:     "Euphoric",
	MoodElated:       "Elated",
	MoodEnthusiastic: "Enthusiastic",
	MoodExcited:      "Excited",
	MoodHappy:        "Happy",
	MoodCheerful:     "Cheerful",
	MoodPleased:      "Pleased",
	MoodContent:      "Content",
	MoodSatisfied:    "Satisfied",
	MoodComfortable:  "Comfortable",
	MoodIntrigued:    "Intrigued",
	MoodPensive:      "Pensive",
	MoodUnsettled:    "Unsettled",
	MoodUneasy:       "Uneasy",
	MoodConcerned:    "Concerned",
	MoodFrustrated:   "Frustrated",
	MoodAnxious:      "Anxious",
	MoodDistressed:   "Distressed",
	MoodAngry:        "Angry",
	MoodEnraged:      "Enraged",
	MoodFurious:      "Furious",
	MoodDespairing:   "Despairing",
	MoodDevastated:   "Devastated",
	MoodAnguished:    "Anguished",
}

// AllMoodStates lists every label in declaration order.
func AllMoodStates() []MoodState {
	out := make([]MoodState, 0, moodStateCount)
	for m := MoodCalm; m < moodStateCount; m++ {
		out = append(out, m)
	}
	return out
}

func (m MoodState) String() string {
	if m < 0 || m >= moodStateCount {
		return fmt.Sprintf("MoodState(%d)", int(m))
	}
	return moodNames[m]
}

func (m MoodState) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Valence reports the sign of the label: 1 for positive moods, -1 for
// negative moods and 0 for Calm.
func (m MoodState) Valence() int {
	switch {
	case m == MoodCalm:
		return 0
	case m >= MoodEcstatic && m <= MoodIntrigued:
		return 1
	default:
		return -1
	}
}

// Mood is the classified state of a session at one point in time.
type Mood struct {
	State     MoodState     `json:"state"`
	Intensity MoodIntensity `json:"intensity"`
}

func (m Mood) String() string {
	return fmt.Sprintf("%s (%s)", m.State, m.Intensity)
}
