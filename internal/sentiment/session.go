package sentiment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

// Session is the mood context of one conversation. Construct one per chat
// session and pass it to whatever needs the mood; sessions share nothing.
type Session struct {
	ID        uuid.UUID
	StartedAt time.Time

	acc *Accumulator
}

func NewSession(analyzer domain.Analyzer, clock clockwork.Clock) *Session {
	return &Session{
		ID:        uuid.New(),
		StartedAt: clock.Now(),
		acc:       NewAccumulator(analyzer),
	}
}

func (s *Session) Process(ctx context.Context, text string) error {
	return s.acc.ProcessEmotion(ctx, text)
}

func (s *Session) Forget() {
	s.acc.ForgetFeelings()
}

func (s *Session) Feelings() domain.SentimentState {
	return s.acc.GetFeelings()
}

// Mood classifies a single snapshot of the running state.
func (s *Session) Mood() domain.Mood {
	return MoodOf(s.acc.GetFeelings())
}

// Report is a full breakdown of how the current mood was reached.
type Report struct {
	Feelings domain.SentimentState `json:"feelings"`
	Factors  Factors               `json:"factors"`
	Score    float64               `json:"score"`
	Mood     domain.Mood           `json:"mood"`
}

func (s *Session) Report() Report {
	feelings := s.acc.GetFeelings()
	f := ComputeFactors(feelings)
	score := f.Weighted()
	intensity := IntensityFor(score)
	return Report{
		Feelings: feelings,
		Factors:  f,
		Score:    score,
		Mood: domain.Mood{
			State:     Classify(feelings.CompoundAffect, intensity),
			Intensity: intensity,
		},
	}
}

// MoodOf scores and classifies a state snapshot.
func MoodOf(state domain.SentimentState) domain.Mood {
	intensity := Intensity(state)
	return domain.Mood{
		State:     Classify(state.CompoundAffect, intensity),
		Intensity: intensity,
	}
}
