package models

// SolutionResult carries the resolved data and the template that renders it.
type SolutionResult struct {
	Status           string `json:"status"`
	ResponseTemplate string `json:"responseTemplate"`
	OriginalIntent   string `json:"originalIntent"`
	data             map[string]interface{}
}

func NewSolutionResult(status string, data map[string]interface{}, responseTemplate, originalIntent string) *SolutionResult {
	return &SolutionResult{
		Status:           status,
		ResponseTemplate: responseTemplate,
		OriginalIntent:   originalIntent,
		data:             copyData(data),
	}
}

// IsSuccess reports whether the intent was resolved without error
func (s *SolutionResult) IsSuccess() bool {
	return s.Status == StatusSuccess
}

// Data returns a copy of the resolved values.
func (s *SolutionResult) Data() map[string]interface{} {
	return copyData(s.data)
}

func (s *SolutionResult) Value(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

func copyData(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
