package models

// AnalysisResult is the outcome of intent classification.
// Entities are copied on the way in and on the way out; callers never share the map.
type AnalysisResult struct {
	Intent          string  `json:"intent"`
	Confidence      float64 `json:"confidence"`
	OriginalMessage string  `json:"originalMessage"`
	entities        map[string]string
}

// NewAnalysisResult clamps confidence to [0,1] and copies entities.
func NewAnalysisResult(intent string, entities map[string]string, confidence float64, originalMessage string) AnalysisResult {
	return AnalysisResult{
		Intent:          intent,
		Confidence:      clamp01(confidence),
		OriginalMessage: originalMessage,
		entities:        copyStrings(entities),
	}
}

// ErrorAnalysis is the result used when analysis could not run.
func ErrorAnalysis(text string) AnalysisResult {
	return NewAnalysisResult(IntentError, nil, 0, text)
}

// FallbackAnalysis is the result used when nothing matched.
func FallbackAnalysis(text string) AnalysisResult {
	return NewAnalysisResult(IntentFallback, nil, 0, text)
}

// Entities returns a copy of the extracted entities.
func (r AnalysisResult) Entities() map[string]string {
	return copyStrings(r.entities)
}

// Entity returns a single entity value.
func (r AnalysisResult) Entity(key string) (string, bool) {
	v, ok := r.entities[key]
	return v, ok
}

func (r AnalysisResult) IsError() bool {
	return r.Intent == IntentError
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
