// internal/workers/analysis/remote-analyzer/analyzer_test.go
package remoteanalyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/rasa"
	"lasa-chatbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	result      *rasa.ParseResult
	err         error
	panic       bool
	calls       int
	sender      string
	hadDeadline bool
}

func (f *fakeParser) Parse(ctx context.Context, text, senderID string) (*rasa.ParseResult, error) {
	f.calls++
	f.sender = senderID
	_, f.hadDeadline = ctx.Deadline()
	if f.panic {
		panic("parser exploded")
	}
	return f.result, f.err
}

func createTestAnalyzer(t *testing.T, p rasa.Parser) *Analyzer {
	return NewAnalyzer(LoadConfig(), p, logger.NewTestLogger(t))
}

// ==========================
// Success path
// ==========================

func TestAnalyzer_CopiesModelOutput(t *testing.T) {
	parser := &fakeParser{result: &rasa.ParseResult{
		Intent:     "weather",
		Confidence: 0.87,
		Entities: []rasa.Entity{
			{Entity: "location", Value: " 부산 "},
			{Entity: "datetime", Value: "   "},
			{Entity: "person", Value: "철수"},
		},
	}}

	result := createTestAnalyzer(t, parser).Analyze(context.Background(), "부산 날씨", "user-1")

	assert.Equal(t, "weather", result.Intent)
	assert.InDelta(t, 0.87, result.Confidence, 1e-9)
	assert.Equal(t, map[string]string{"location": "부산", "person": "철수"}, result.Entities())
	assert.Equal(t, "부산 날씨", result.OriginalMessage)
	assert.Equal(t, "user-1", parser.sender)
	assert.True(t, parser.hadDeadline)
}

func TestAnalyzer_LocationBackstop(t *testing.T) {
	tests := []struct {
		name         string
		intent       string
		entities     []rasa.Entity
		message      string
		wantLocation string
	}{
		{
			name:         "weather without location scans the message",
			intent:       "weather",
			message:      "오늘 대구 날씨 어때",
			wantLocation: "대구",
		},
		{
			name:         "first region in list order wins",
			intent:       "temperature",
			message:      "창원이랑 서울 기온",
			wantLocation: "서울",
		},
		{
			name:         "backstop runs when other entities exist",
			intent:       "weather",
			entities:     []rasa.Entity{{Entity: "datetime", Value: "내일"}},
			message:      "내일 제주 날씨",
			wantLocation: "제주",
		},
		{
			name:         "existing location is kept for temperature",
			intent:       "temperature",
			entities:     []rasa.Entity{{Entity: "location", Value: "강릉"}},
			message:      "서울 말고 강릉 기온",
			wantLocation: "강릉",
		},
		{
			name:    "no region in message leaves location absent",
			intent:  "weather",
			message: "날씨 어때",
		},
		{
			name:    "other intents are left alone",
			intent:  "greeting",
			message: "서울에서 안녕",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &fakeParser{result: &rasa.ParseResult{Intent: tt.intent, Confidence: 0.9, Entities: tt.entities}}
			result := createTestAnalyzer(t, parser).Analyze(context.Background(), tt.message, "")

			loc, ok := result.Entity("location")
			if tt.wantLocation == "" {
				assert.False(t, ok)
				return
			}
			assert.Equal(t, tt.wantLocation, loc)
		})
	}
}

// ==========================
// Failure path
// ==========================

func TestAnalyzer_FailuresDegradeToError(t *testing.T) {
	tests := []struct {
		name   string
		parser *fakeParser
	}{
		{"unavailable", &fakeParser{err: apperrors.NewNLUUnavailableError(assert.AnError)}},
		{"timeout", &fakeParser{err: apperrors.NewNLUTimeoutError(context.DeadlineExceeded)}},
		{"nil result", &fakeParser{}},
		{"panic", &fakeParser{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := createTestAnalyzer(t, tt.parser).Analyze(context.Background(), "서울 날씨", "")
			assert.Equal(t, models.IntentError, result.Intent)
			assert.Equal(t, 0.0, result.Confidence)
			assert.Equal(t, "서울 날씨", result.OriginalMessage)
			assert.Empty(t, result.Entities())
		})
	}
}

func TestAnalyzer_WithRasaClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"intent":{"name":"temperature","confidence":0.75},"entities":[]}`))
	}))
	defer server.Close()

	a := createTestAnalyzer(t, rasa.NewClient(server.URL, time.Second))
	result := a.Analyze(context.Background(), "부산 몇도야", "")

	require.Equal(t, "temperature", result.Intent)
	loc, _ := result.Entity("location")
	assert.Equal(t, "부산", loc)
}

func TestAnalyzer_RasaTimeoutIsBounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := LoadConfig()
	cfg.Timeout = 50 * time.Millisecond
	a := NewAnalyzer(cfg, rasa.NewClient(server.URL, 10*time.Second), logger.NewNoOpLogger())

	start := time.Now()
	result := a.Analyze(context.Background(), "날씨", "")
	assert.Equal(t, models.IntentError, result.Intent)
	assert.Less(t, time.Since(start), time.Second)
}
