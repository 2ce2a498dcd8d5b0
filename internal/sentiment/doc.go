// Package sentiment implements the mood engine of a chat session.
//
// An Accumulator folds analyzer readings into a running SentimentState (a
// cumulative mean per channel plus the observed compound bounds). Score turns
// a snapshot of that state into a confidence score from three factors (range,
// purity, familiarity), IntensityFor maps the score onto a tier, and Classify
// picks the mood label from an ordered rule table. Session ties the three
// together for one conversation. Scoring and classification are pure; only
// the Accumulator holds mutable state.
package sentiment
