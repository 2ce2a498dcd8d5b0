package sentiment

import (
	"context"
	"math"
	"sync"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

// boundsEpsilon is the smallest observed compound spread the normalizer will
// rescale against.
const boundsEpsilon = 1e-9

// Accumulator owns the running sentiment state of one session.
type Accumulator struct {
	analyzer domain.Analyzer

	mu    sync.Mutex
	state domain.SentimentState
}

func NewAccumulator(analyzer domain.Analyzer) *Accumulator {
	return &Accumulator{
		analyzer: analyzer,
		state:    domain.NewSentimentState(),
	}
}

// ProcessEmotion analyzes text and merges the reading into the running state.
// The analyzer runs outside the lock. On any error the state is unchanged.
func (a *Accumulator) ProcessEmotion(ctx context.Context, text string) error {
	p, err := a.analyzer.Analyze(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.AnalysisError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	merge(&a.state, p)
	a.mu.Unlock()
	return nil
}

// ForgetFeelings resets the state to defaults.
func (a *Accumulator) ForgetFeelings() {
	a.mu.Lock()
	a.state = domain.NewSentimentState()
	a.mu.Unlock()
}

// GetFeelings returns a normalized copy of the running state.
func (a *Accumulator) GetFeelings() domain.SentimentState {
	s := a.Raw()
	s.CompoundAffect = normalizeCompound(s.CompoundAffect, s.LowestCompoundSeen, s.HighestCompoundSeen)
	return s
}

// Raw returns an unnormalized copy of the running state.
func (a *Accumulator) Raw() domain.SentimentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// merge folds one reading into s. After k merges every channel holds the
// arithmetic mean of the k readings for that channel.
func merge(s *domain.SentimentState, p domain.Polarity) {
	if s.InteractionCount == 0 {
		s.LowestCompoundSeen = p.Compound
		s.HighestCompoundSeen = p.Compound
	} else {
		s.LowestCompoundSeen = math.Min(s.LowestCompoundSeen, p.Compound)
		s.HighestCompoundSeen = math.Max(s.HighestCompoundSeen, p.Compound)
	}

	w := 1 / float64(s.InteractionCount+1)
	s.CompoundAffect = blend(s.CompoundAffect, p.Compound, w)
	s.PositiveAffect = blend(s.PositiveAffect, p.Positive, w)
	s.NegativeAffect = blend(s.NegativeAffect, p.Negative, w)
	s.NeutralAffect = blend(s.NeutralAffect, p.Neutral, w)
	s.InteractionCount++
}

func blend(current, reading, w float64) float64 {
	return (1-w)*current + w*reading
}

// normalizeCompound rescales v into [-1, 1] against the observed bounds.
// Well-behaved analyzers never trigger the rescale.
func normalizeCompound(v, lowest, highest float64) float64 {
	if math.Abs(highest-lowest) < boundsEpsilon || (v >= -1 && v <= 1) {
		return v
	}
	if highest > 1 || lowest < -1 {
		return (v-lowest)/(highest-lowest)*2 - 1
	}
	return v
}
