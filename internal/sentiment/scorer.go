package sentiment

import (
	"math"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

// Factor weights. They sum to 1 so the score stays in [0, 1].
const (
	RangeWeight       = 0.1
	PurityWeight      = 0.3
	FamiliarityWeight = 0.6
)

const (
	MaxRangeFactor       = 1.0
	MaxPurityFactor      = 1.0
	MaxFamiliarityFactor = 1.0

	MinimumSentimentRange    = 0.2
	EmotionalAmplification   = 1.5
	PuritySmoothing          = 0.1
	PurityPositiveThreshold  = 0.0
	InteractionInfluence     = 0.75
	InteractionMaturityPoint = 25.0

	firstInteractionCounted = 1
)

// Intensity tier floors, checked from the top.
const (
	ExtremeThreshold = 0.8
	HighThreshold    = 0.6
	MediumThreshold  = 0.3
)

type rangeBranch int

const (
	branchFirstInteraction rangeBranch = iota
	branchBelowFloor
	branchObservedRange
)

// Factors are the three components of the intensity score.
type Factors struct {
	Range       float64 `json:"range"`
	Purity      float64 `json:"purity"`
	Familiarity float64 `json:"familiarity"`
}

// Weighted combines the factors into the intensity score.
func (f Factors) Weighted() float64 {
	return RangeWeight*f.Range + PurityWeight*f.Purity + FamiliarityWeight*f.Familiarity
}

func ComputeFactors(s domain.SentimentState) Factors {
	r, _ := rangeFactor(s)
	return Factors{
		Range:       r,
		Purity:      purityFactor(s),
		Familiarity: familiarityFactor(s.InteractionCount),
	}
}

// Score returns the intensity score of a state snapshot, in [0, 1].
func Score(s domain.SentimentState) float64 {
	return ComputeFactors(s).Weighted()
}

func IntensityFor(score float64) domain.MoodIntensity {
	switch {
	case score >= ExtremeThreshold:
		return domain.IntensityExtreme
	case score >= HighThreshold:
		return domain.IntensityHigh
	case score >= MediumThreshold:
		return domain.IntensityMedium
	default:
		return domain.IntensityLow
	}
}

// Intensity scores s and maps the result onto a tier.
func Intensity(s domain.SentimentState) domain.MoodIntensity {
	return IntensityFor(Score(s))
}

// rangeFactor measures how far the current compound sits within the spread
// of readings seen so far, amplified so strong feelings stand out.
func rangeFactor(s domain.SentimentState) (float64, rangeBranch) {
	c := s.CompoundAffect
	if s.InteractionCount == firstInteractionCounted {
		return clamp(math.Abs(c), MaxRangeFactor), branchFirstInteraction
	}

	spread := s.CompoundRange()
	if spread < MinimumSentimentRange {
		v := math.Pow(math.Abs(c)/MinimumSentimentRange, EmotionalAmplification)
		return clamp(v, MaxRangeFactor), branchBelowFloor
	}

	v := math.Pow(math.Abs(c-s.LowestCompoundSeen)/spread, EmotionalAmplification)
	return clamp(v, MaxRangeFactor), branchObservedRange
}

// purityFactor is the share of polar affect held by the dominant channel,
// discounted by the share of neutral affect.
func purityFactor(s domain.SentimentState) float64 {
	dominant := s.NegativeAffect
	if s.CompoundAffect >= PurityPositiveThreshold {
		dominant = s.PositiveAffect
	}

	total := s.PositiveAffect + s.NegativeAffect + s.NeutralAffect
	neutralShare := 0.0
	if total > 0 {
		neutralShare = s.NeutralAffect / total
	}

	v := dominant / (s.PositiveAffect + s.NegativeAffect + PuritySmoothing) * (1 - neutralShare)
	return clamp(v, MaxPurityFactor)
}

// familiarityFactor grows logarithmically with the number of interactions,
// normalized against the maturity point.
func familiarityFactor(count uint64) float64 {
	if count == 0 {
		return 0
	}
	v := (1 + math.Log(float64(count))*InteractionInfluence) / (1 + math.Log(InteractionMaturityPoint))
	return clamp(v, MaxFamiliarityFactor)
}

func clamp(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, limit))
}
