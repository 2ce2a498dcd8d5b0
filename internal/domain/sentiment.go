package domain

import "context"

// DefaultAffect is the value every affect field and both compound bounds hold
// before the first message is merged.
const DefaultAffect = 0.0

// Polarity is a single analyzer reading for one piece of text.
type Polarity struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Analyzer scores text. Compound is expected in [-1, 1] and the channels in
// [0, 1]; the accumulator defends against readings outside those ranges.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Polarity, error)
}

// SentimentState is the running emotional state of one chat session.
type SentimentState struct {
	CompoundAffect      float64 `json:"compound_affect"`
	PositiveAffect      float64 `json:"positive_affect"`
	NegativeAffect      float64 `json:"negative_affect"`
	NeutralAffect       float64 `json:"neutral_affect"`
	InteractionCount    uint64  `json:"interaction_count"`
	LowestCompoundSeen  float64 `json:"lowest_compound_seen"`
	HighestCompoundSeen float64 `json:"highest_compound_seen"`
}

func NewSentimentState() SentimentState {
	return SentimentState{
		CompoundAffect:      DefaultAffect,
		PositiveAffect:      DefaultAffect,
		NegativeAffect:      DefaultAffect,
		NeutralAffect:       DefaultAffect,
		LowestCompoundSeen:  DefaultAffect,
		HighestCompoundSeen: DefaultAffect,
	}
}

// CompoundRange is the spread between the most negative and most positive
// raw compound readings observed so far.
func (s SentimentState) CompoundRange() float64 {
	return s.HighestCompoundSeen - s.LowestCompoundSeen
}
