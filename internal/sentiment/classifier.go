package sentiment

import "github.com/KagemniKarimu/nyota/internal/domain"

type moodRule struct {
	intensity domain.MoodIntensity
	matches   func(compound float64) bool
	state     domain.MoodState
}

func atLeast(t float64) func(float64) bool { return func(c float64) bool { return c >= t } }
func atMost(t float64) func(float64) bool  { return func(c float64) bool { return c <= t } }

// moodRules is evaluated top to bottom; the first match wins. Positive bands
// come before negative bands, and each band runs from strongest to weakest.
var moodRules = []moodRule{
	{domain.IntensityExtreme, atLeast(0.7), domain.MoodEcstatic},
	{domain.IntensityExtreme, atLeast(0.5), domain.MoodExhilarated},
	{domain.IntensityExtreme, atLeast(0.3), domain.MoodEuphoric},
	{domain.IntensityHigh, atLeast(0.7), domain.MoodElated},
	{domain.IntensityHigh, atLeast(0.5), domain.MoodEnthusiastic},
	{domain.IntensityHigh, atLeast(0.3), domain.MoodExcited},
	{domain.IntensityMedium, atLeast(0.6), domain.MoodHappy},
	{domain.IntensityMedium, atLeast(0.4), domain.MoodCheerful},
	{domain.IntensityMedium, atLeast(0.2), domain.MoodPleased},
	{domain.IntensityLow, atLeast(0.6), domain.MoodContent},
	{domain.IntensityLow, atLeast(0.4), domain.MoodSatisfied},
	{domain.IntensityLow, atLeast(0.2), domain.MoodComfortable},

	{domain.IntensityExtreme, atMost(-0.7), domain.MoodAnguished},
	{domain.IntensityExtreme, atMost(-0.5), domain.MoodDevastated},
	{domain.IntensityExtreme, atMost(-0.3), domain.MoodDespairing},
	{domain.IntensityHigh, atMost(-0.7), domain.MoodFurious},
	{domain.IntensityHigh, atMost(-0.5), domain.MoodEnraged},
	{domain.IntensityHigh, atMost(-0.3), domain.MoodAngry},
	{domain.IntensityMedium, atMost(-0.6), domain.MoodDistressed},
	{domain.IntensityMedium, atMost(-0.4), domain.MoodAnxious},
	{domain.IntensityMedium, atMost(-0.2), domain.MoodFrustrated},
	{domain.IntensityLow, atMost(-0.6), domain.MoodConcerned},
	{domain.IntensityLow, atMost(-0.4), domain.MoodUneasy},
	{domain.IntensityLow, atMost(-0.2), domain.MoodUnsettled},
}

// Neutral fallbacks apply at any intensity once no band matched.
const (
	intriguedAbove = 0.1
	pensiveBelow   = -0.1
)

// Classify maps a compound value and intensity tier onto exactly one mood.
func Classify(compound float64, intensity domain.MoodIntensity) domain.MoodState {
	for _, r := range moodRules {
		if r.intensity == intensity && r.matches(compound) {
			return r.state
		}
	}
	switch {
	case compound > intriguedAbove:
		return domain.MoodIntrigued
	case compound < pensiveBelow:
		return domain.MoodPensive
	default:
		return domain.MoodCalm
	}
}
