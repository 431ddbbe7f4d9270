// internal/workers/conversation/resolve-intent/resolver_test.go
package resolveintent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"lasa-chatbot/internal/common/genai"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test collaborators
// ==========================

type fakeWeather struct {
	condition string
	temp      int
	panic     bool
	locations []string
}

func (f *fakeWeather) Condition(ctx context.Context, location string) string {
	if f.panic {
		panic("weather exploded")
	}
	f.locations = append(f.locations, location)
	return f.condition
}

func (f *fakeWeather) TemperatureC(ctx context.Context, location string) int {
	f.locations = append(f.locations, location)
	return f.temp
}

func (f *fakeWeather) Cities() []string { return []string{"서울", "부산"} }

type fakeGenerator struct {
	text    string
	err     error
	block   chan struct{}
	ctxErr  chan error
	prompts int32
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&g.prompts, 1)
	if g.ctxErr != nil {
		g.ctxErr <- ctx.Err()
	}
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

// 2025-03-10 15:04 KST
var fixedNow = time.Date(2025, 3, 10, 6, 4, 0, 0, time.UTC)

func createTestSolver(t *testing.T, w *fakeWeather, g *fakeGenerator) *Solver {
	t.Helper()
	cfg := LoadConfig()
	cfg.GenerationWait = time.Second

	var gen genai.Generator
	if g != nil {
		gen = g
	}
	return NewSolver(cfg, w, gen, logger.NewTestLogger(t),
		WithPicker(func(n int) int { return n - 1 }),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func analysis(intent string, entities map[string]string, message string) models.AnalysisResult {
	return models.NewAnalysisResult(intent, entities, 0.9, message)
}

// ==========================
// Canned intents
// ==========================

func TestSolver_CannedIntents(t *testing.T) {
	tests := []struct {
		intent       string
		wantTemplate string
		wantData     map[string]interface{}
	}{
		{"greeting", "{{greeting}}", map[string]interface{}{"greeting": "반가워요! 무엇이든 물어보세요."}},
		{"bye", "{{bye}}", map[string]interface{}{"bye": "안녕히 계세요! 또 뵙겠습니다."}},
		{"thanks", "천만에요! 더 필요한 것이 있으면 말씀해주세요.", map[string]interface{}{}},
		{"help", responseTemplates["help"], map[string]interface{}{}},
		{"time", "현재 시간은 {{time}}입니다.", map[string]interface{}{"time": "오후 3시 04분"}},
	}

	s := createTestSolver(t, &fakeWeather{}, nil)
	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			result := s.Solve(context.Background(), analysis(tt.intent, nil, "msg"))
			require.NotNil(t, result)
			assert.True(t, result.IsSuccess())
			assert.Equal(t, tt.intent, result.OriginalIntent)
			assert.Equal(t, tt.wantTemplate, result.ResponseTemplate)
			assert.Equal(t, tt.wantData, result.Data())
		})
	}
}

func TestFormatKoreanTime(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{0, 5, "오전 12시 05분"},
		{9, 0, "오전 9시 00분"},
		{11, 59, "오전 11시 59분"},
		{12, 30, "오후 12시 30분"},
		{23, 1, "오후 11시 01분"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatKoreanTime(time.Date(2025, 1, 1, tt.hour, tt.minute, 0, 0, time.UTC)))
		})
	}
}

// ==========================
// Weather and temperature
// ==========================

func TestSolver_WeatherLocation(t *testing.T) {
	tests := []struct {
		name     string
		entities map[string]string
		message  string
		want     string
	}{
		{"entity wins", map[string]string{"location": "부산"}, "서울 날씨", "부산"},
		{"blank entity falls back to message", map[string]string{"location": " "}, "강릉 날씨", "강릉"},
		{"message scan", nil, "오늘 통영 날씨 어때", "통영"},
		{"default city", nil, "날씨 어때", "서울"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWeather{condition: "맑음"}
			result := createTestSolver(t, w, nil).Solve(context.Background(), analysis("weather", tt.entities, tt.message))

			loc, _ := result.Value("location")
			assert.Equal(t, tt.want, loc)
			assert.Equal(t, []string{tt.want}, w.locations)
		})
	}
}

func TestSolver_WeatherData(t *testing.T) {
	result := createTestSolver(t, &fakeWeather{condition: "비"}, nil).
		Solve(context.Background(), analysis("weather", map[string]string{"location": "부산"}, "부산 날씨"))

	assert.Equal(t, map[string]interface{}{
		"location":      "부산",
		"weather":       "비",
		"weatherDetail": "비가 내리고 있어요. 외출 시 우산을 꼭 챙기세요!",
		"dateTime":      "2025년 03월 10일 15시 04분",
	}, result.Data())
	assert.Equal(t, "{{location}}의 현재 날씨는 {{weather}}입니다. {{weatherDetail}}", result.ResponseTemplate)

	result = createTestSolver(t, &fakeWeather{condition: "알 수 없음"}, nil).
		Solve(context.Background(), analysis("weather", nil, "날씨"))
	detail, _ := result.Value("weatherDetail")
	assert.Equal(t, "오늘은 알 수 없음 상태입니다.", detail)
}

func TestSolver_TemperatureBands(t *testing.T) {
	tests := []struct {
		temp int
		want string
	}{
		{-5, "매우 춥습니다. 따뜻하게 입으세요!"},
		{0, "매우 춥습니다. 따뜻하게 입으세요!"},
		{10, "쌀쌀합니다. 겉옷을 챙기세요."},
		{11, "선선한 날씨입니다."},
		{20, "선선한 날씨입니다."},
		{28, "따뜻한 날씨입니다."},
		{29, "더운 날씨입니다. 시원하게 지내세요!"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			result := createTestSolver(t, &fakeWeather{temp: tt.temp}, nil).
				Solve(context.Background(), analysis("temperature", map[string]string{"location": "대구"}, "대구 기온"))

			temp, _ := result.Value("temperature")
			assert.Equal(t, tt.temp, temp)
			desc, _ := result.Value("tempDescription")
			assert.Equal(t, tt.want, desc)
		})
	}
}

// ==========================
// Error and fallback enrichment
// ==========================

func TestSolver_ErrorAndFallback(t *testing.T) {
	tests := []struct {
		name         string
		intent       string
		gen          *fakeGenerator
		wantStatus   string
		wantIntent   string
		wantResponse string
	}{
		{"error without generator", "error", nil, models.StatusError, "error", systemErrorResponse},
		{"error with generated text", "error", &fakeGenerator{text: "생성된 답변"}, models.StatusError, "error", "생성된 답변"},
		{"fallback with generated text", "fallback", &fakeGenerator{text: "생성된 답변"}, models.StatusSuccess, "fallback", "생성된 답변"},
		{"fallback generator error", "fallback", &fakeGenerator{err: errors.New("boom")}, models.StatusSuccess, "fallback", notUnderstoodMessage},
		{"fallback empty text", "fallback", &fakeGenerator{text: "  "}, models.StatusSuccess, "fallback", notUnderstoodMessage},
		{"unknown intent is a fallback", "nlu_fallback", nil, models.StatusSuccess, "fallback", notUnderstoodMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := createTestSolver(t, &fakeWeather{}, tt.gen).Solve(context.Background(), analysis(tt.intent, nil, "양자역학이 뭐야"))

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantIntent, result.OriginalIntent)
			assert.Equal(t, "{{fallbackResponse}}", result.ResponseTemplate)
			got, _ := result.Value("fallbackResponse")
			assert.Equal(t, tt.wantResponse, got)
		})
	}
}

func TestSolver_GenerationWaitIsBounded(t *testing.T) {
	gen := &fakeGenerator{text: "늦은 답변", block: make(chan struct{})}
	defer close(gen.block)

	cfg := LoadConfig()
	cfg.GenerationWait = 50 * time.Millisecond
	s := NewSolver(cfg, &fakeWeather{}, gen, logger.NewNoOpLogger())

	start := time.Now()
	result := s.Solve(context.Background(), analysis("fallback", nil, "질문"))

	assert.Less(t, time.Since(start), time.Second)
	got, _ := result.Value("fallbackResponse")
	assert.Equal(t, notUnderstoodMessage, got)
}

func TestSolver_GenerationOutlivesCallerContext(t *testing.T) {
	gen := &fakeGenerator{text: "답변", ctxErr: make(chan error, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	createTestSolver(t, &fakeWeather{}, gen).Solve(ctx, analysis("fallback", nil, "질문"))

	select {
	case err := <-gen.ctxErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("generator was not called")
	}
}

func TestSolver_PanicYieldsErrorResult(t *testing.T) {
	result := createTestSolver(t, &fakeWeather{panic: true}, nil).Solve(context.Background(), analysis("weather", nil, "날씨"))

	assert.False(t, result.IsSuccess())
	assert.Equal(t, models.IntentError, result.OriginalIntent)
	got, _ := result.Value("fallbackResponse")
	assert.Equal(t, systemErrorResponse, got)
}
