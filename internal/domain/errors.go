package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAnalysis             = errors.New("sentiment analysis failed")
	ErrUnknownModel         = errors.New("unknown model")
	ErrMissingAPIKey        = errors.New("missing API key")
	ErrEmptyReply           = errors.New("provider returned no reply")
	ErrConversationNotFound = errors.New("conversation not found")
)

// AnalysisError wraps a failure reported by an Analyzer. The running
// sentiment state is never mutated when one is returned.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", ErrAnalysis, e.Err)
}

func (e *AnalysisError) Unwrap() []error {
	return []error{ErrAnalysis, e.Err}
}
