package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

func TestWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, RangeWeight+PurityWeight+FamiliarityWeight, 1e-12)
}

func TestFamiliarityFactor(t *testing.T) {
	maturity := 1 + math.Log(InteractionMaturityPoint)
	tests := []struct {
		count uint64
		want  float64
	}{
		{0, 0},
		{1, 1 / maturity},
		{3, (1 + math.Log(3)*0.75) / maturity},
		{25, (1 + math.Log(25)*0.75) / maturity},
		{10_000, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, familiarityFactor(tt.count), 1e-12, "count=%d", tt.count)
	}
}

func TestPurityFactor(t *testing.T) {
	tests := []struct {
		name  string
		state domain.SentimentState
		want  float64
	}{
		{
			name:  "empty state",
			state: domain.NewSentimentState(),
			want:  0,
		},
		{
			name:  "positive dominant",
			state: domain.SentimentState{CompoundAffect: 0.5, PositiveAffect: 0.6, NeutralAffect: 0.4},
			want:  0.6 / 0.7 * 0.6,
		},
		{
			name:  "negative dominant",
			state: domain.SentimentState{CompoundAffect: -0.5, NegativeAffect: 0.5, NeutralAffect: 0.5},
			want:  0.5 / 0.6 * 0.5,
		},
		{
			name:  "zero compound counts as positive",
			state: domain.SentimentState{CompoundAffect: 0, PositiveAffect: 0.2, NegativeAffect: 0.2, NeutralAffect: 0.6},
			want:  0.2 / 0.5 * 0.4,
		},
		{
			name:  "unnormalized channels use neutral share",
			state: domain.SentimentState{CompoundAffect: 0.9, PositiveAffect: 2, NeutralAffect: 2},
			want:  2 / 2.1 * 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, purityFactor(tt.state), 1e-12)
		})
	}
}

func TestRangeFactor(t *testing.T) {
	tests := []struct {
		name   string
		state  domain.SentimentState
		want   float64
		branch rangeBranch
	}{
		{
			name:   "first interaction uses magnitude",
			state:  domain.SentimentState{CompoundAffect: -0.68, InteractionCount: 1, LowestCompoundSeen: -0.68, HighestCompoundSeen: -0.68},
			want:   0.68,
			branch: branchFirstInteraction,
		},
		{
			name:   "narrow range against floor",
			state:  domain.SentimentState{CompoundAffect: 0.1, InteractionCount: 2, LowestCompoundSeen: 0.05, HighestCompoundSeen: 0.15},
			want:   math.Pow(0.5, 1.5),
			branch: branchBelowFloor,
		},
		{
			name:   "narrow range clamps",
			state:  domain.SentimentState{CompoundAffect: -0.68, InteractionCount: 3, LowestCompoundSeen: -0.68, HighestCompoundSeen: -0.68},
			want:   1,
			branch: branchBelowFloor,
		},
		{
			name:   "observed range",
			state:  domain.SentimentState{CompoundAffect: 0.25, InteractionCount: 4, LowestCompoundSeen: -0.5, HighestCompoundSeen: 0.5},
			want:   math.Pow(0.75, 1.5),
			branch: branchObservedRange,
		},
		{
			name:   "empty state",
			state:  domain.NewSentimentState(),
			want:   0,
			branch: branchBelowFloor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, branch := rangeFactor(tt.state)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.Equal(t, tt.branch, branch)
		})
	}
}

func TestIntensityFor(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.MoodIntensity
	}{
		{0, domain.IntensityLow},
		{0.2999, domain.IntensityLow},
		{0.3, domain.IntensityMedium},
		{0.5999, domain.IntensityMedium},
		{0.6, domain.IntensityHigh},
		{0.7999, domain.IntensityHigh},
		{0.8, domain.IntensityExtreme},
		{1, domain.IntensityExtreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IntensityFor(tt.score), "score=%v", tt.score)
	}
}

func TestScore_StaysInUnitInterval(t *testing.T) {
	for c := -1.0; c <= 1.0; c += 0.1 {
		for _, count := range []uint64{0, 1, 2, 10, 100} {
			for _, neu := range []float64{0, 0.5, 1} {
				s := domain.SentimentState{
					CompoundAffect:      c,
					PositiveAffect:      math.Max(c, 0),
					NegativeAffect:      math.Max(-c, 0),
					NeutralAffect:       neu,
					InteractionCount:    count,
					LowestCompoundSeen:  -1,
					HighestCompoundSeen: 1,
				}
				score := Score(s)
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 1.0)
			}
		}
	}
}

func TestIntensity_MonotonicInRangePosition(t *testing.T) {
	base := domain.SentimentState{
		PositiveAffect:      0.4,
		NegativeAffect:      0.2,
		NeutralAffect:       0.4,
		InteractionCount:    10,
		LowestCompoundSeen:  -0.5,
		HighestCompoundSeen: 0.9,
	}

	prev := domain.IntensityLow
	for c := -0.5; c <= 0.9; c += 0.01 {
		s := base
		s.CompoundAffect = c
		got := Intensity(s)
		assert.GreaterOrEqual(t, got, prev, "compound=%v", c)
		prev = got
	}
}

func TestScore_RepeatedNegativeScenario(t *testing.T) {
	s := domain.SentimentState{
		CompoundAffect:      -0.68,
		NegativeAffect:      0.5,
		NeutralAffect:       0.5,
		InteractionCount:    3,
		LowestCompoundSeen:  -0.68,
		HighestCompoundSeen: -0.68,
	}

	f := ComputeFactors(s)
	assert.InDelta(t, 1.0, f.Range, 1e-12)
	assert.InDelta(t, 0.5/0.6*0.5, f.Purity, 1e-12)

	assert.Equal(t, domain.IntensityMedium, Intensity(s))
	assert.Equal(t, domain.Mood{State: domain.MoodDistressed, Intensity: domain.IntensityMedium}, MoodOf(s))
}
