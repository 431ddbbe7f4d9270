// internal/workers/conversation/chat-reply/processor_test.go
package chatreply

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"lasa-chatbot/internal/common/config"
	"lasa-chatbot/internal/common/database"
	"lasa-chatbot/internal/common/genai"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/models"
	"lasa-chatbot/internal/workers/analysis"
	ruleanalyzer "lasa-chatbot/internal/workers/analysis/rule-analyzer"
	normalizemessage "lasa-chatbot/internal/workers/conversation/normalize-message"
	renderresponse "lasa-chatbot/internal/workers/conversation/render-response"
	resolveintent "lasa-chatbot/internal/workers/conversation/resolve-intent"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test stages
// ==========================

type countingAnalyzer struct {
	calls int32
	panic bool
}

func (a *countingAnalyzer) Analyze(ctx context.Context, text, userID string) models.AnalysisResult {
	atomic.AddInt32(&a.calls, 1)
	if a.panic {
		panic("analyzer exploded")
	}
	return models.NewAnalysisResult(models.IntentThanks, nil, 0.9, text)
}

type countingSolver struct{ calls int32 }

func (s *countingSolver) Solve(ctx context.Context, a models.AnalysisResult) *models.SolutionResult {
	atomic.AddInt32(&s.calls, 1)
	return models.NewSolutionResult(models.StatusSuccess, nil, "천만에요!", a.Intent)
}

type countingRenderer struct{ calls int32 }

func (r *countingRenderer) Answer(result *models.SolutionResult) models.ChatResponse {
	atomic.AddInt32(&r.calls, 1)
	return models.ChatResponse{Message: result.ResponseTemplate, Intent: result.OriginalIntent, Confidence: 1}
}

type stubWeather struct{}

func (stubWeather) Condition(ctx context.Context, location string) string { return "맑음" }
func (stubWeather) TemperatureC(ctx context.Context, location string) int { return 18 }
func (stubWeather) Cities() []string                                      { return []string{"서울", "부산", "제주"} }

type blockingGenerator struct{ release chan struct{} }

func (g *blockingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-g.release:
		return "늦은 답변", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type failingSaver struct{ calls int32 }

func (f *failingSaver) Save(ctx context.Context, t database.Transcript) error {
	atomic.AddInt32(&f.calls, 1)
	return errors.New("connection refused")
}

func createRealProcessor(t *testing.T, gen genai.Generator, transcripts TranscriptSaver) *Processor {
	t.Helper()
	log := logger.NewTestLogger(t)
	w := stubWeather{}

	tok, err := analysis.NewTokenizer(config.TokenizerConfig{Mode: config.TokenizerDictionary}, config.DefaultIntentKeywords(), w.Cities())
	require.NoError(t, err)

	solverConfig := resolveintent.LoadConfig()
	solverConfig.GenerationWait = 50 * time.Millisecond

	return NewProcessor(LoadConfig(), Stages{
		Normalizer:  normalizemessage.NewNormalizer(),
		Analyzer:    ruleanalyzer.NewAnalyzer(ruleanalyzer.LoadConfig(), tok, w.Cities(), log),
		Solver:      resolveintent.NewSolver(solverConfig, w, gen, log, resolveintent.WithPicker(func(int) int { return 0 })),
		Renderer:    renderresponse.NewRenderer(renderresponse.LoadConfig(), log),
		Transcripts: transcripts,
	}, nil, log)
}

// ==========================
// Validation
// ==========================

func TestProcessor_BlankMessageShortCircuits(t *testing.T) {
	inputs := []string{"", "   ", "\t\n", "😀🔥"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			a, s, r := &countingAnalyzer{}, &countingSolver{}, &countingRenderer{}
			p := NewProcessor(LoadConfig(), Stages{
				Normalizer: normalizemessage.NewNormalizer(),
				Analyzer:   a,
				Solver:     s,
				Renderer:   r,
			}, nil, logger.NewTestLogger(t))

			resp := p.Process(context.Background(), models.ChatRequest{Message: in})

			assert.Equal(t, MessageBlank, resp.Message)
			assert.Equal(t, models.IntentError, resp.Intent)
			assert.Equal(t, 0.0, resp.Confidence)
			assert.NotZero(t, resp.Timestamp)
			assert.Zero(t, atomic.LoadInt32(&a.calls))
			assert.Zero(t, atomic.LoadInt32(&s.calls))
			assert.Zero(t, atomic.LoadInt32(&r.calls))
		})
	}
}

func TestProcessor_RunsEveryStageOnce(t *testing.T) {
	a, s, r := &countingAnalyzer{}, &countingSolver{}, &countingRenderer{}
	p := NewProcessor(LoadConfig(), Stages{
		Normalizer: normalizemessage.NewNormalizer(),
		Analyzer:   a,
		Solver:     s,
		Renderer:   r,
	}, nil, logger.NewTestLogger(t))

	resp := p.Process(context.Background(), models.ChatRequest{Message: "고마워"})

	assert.Equal(t, "천만에요!", resp.Message)
	assert.Equal(t, int32(1), a.calls)
	assert.Equal(t, int32(1), s.calls)
	assert.Equal(t, int32(1), r.calls)
}

func TestProcessor_PanicBecomesApology(t *testing.T) {
	p := NewProcessor(LoadConfig(), Stages{
		Normalizer: normalizemessage.NewNormalizer(),
		Analyzer:   &countingAnalyzer{panic: true},
		Solver:     &countingSolver{},
		Renderer:   &countingRenderer{},
	}, nil, logger.NewTestLogger(t))

	resp := p.Process(context.Background(), models.ChatRequest{Message: "서울 날씨"})

	assert.Equal(t, MessageInternal, resp.Message)
	assert.Equal(t, models.IntentError, resp.Intent)
}

// ==========================
// Full pipeline
// ==========================

func TestProcessor_EndToEnd(t *testing.T) {
	tests := []struct {
		name           string
		message        string
		wantIntent     string
		wantPrefix     string
		wantConfidence float64
	}{
		{
			name:           "weather with city",
			message:        "  부산   날씨 어때? ",
			wantIntent:     "weather",
			wantPrefix:     "부산의 현재 날씨는 맑음입니다. 화창한 날씨입니다! 야외 활동하기 좋은 날이에요. (",
			wantConfidence: 1.0,
		},
		{
			name:           "temperature without city",
			message:        "오늘 몇도야",
			wantIntent:     "temperature",
			wantPrefix:     "서울의 현재 기온은 18°C입니다. 선선한 날씨입니다.",
			wantConfidence: 1.0,
		},
		{
			name:           "greeting",
			message:        "안녕하세요 👋",
			wantIntent:     "greeting",
			wantPrefix:     "안녕하세요! 무엇을 도와드릴까요?",
			wantConfidence: 1.0,
		},
		{
			name:           "help",
			message:        "도움말",
			wantIntent:     "help",
			wantPrefix:     "저는 날씨, 시간 정보를 알려드리거나",
			wantConfidence: 1.0,
		},
		{
			name:           "fallback without generator",
			message:        "점심 뭐 먹지",
			wantIntent:     "fallback",
			wantPrefix:     "잘 이해하지 못했습니다.",
			wantConfidence: 1.0,
		},
	}

	p := createRealProcessor(t, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := p.Process(context.Background(), models.ChatRequest{Message: tt.message})

			assert.Equal(t, tt.wantIntent, resp.Intent)
			assert.True(t, strings.HasPrefix(resp.Message, tt.wantPrefix), resp.Message)
			assert.Equal(t, tt.wantConfidence, resp.Confidence)
		})
	}
}

func TestProcessor_IdempotentModuloTimestamp(t *testing.T) {
	p := createRealProcessor(t, nil, nil)

	for _, msg := range []string{"안녕하세요", "고마워", "점심 뭐 먹지", "오늘 몇도야"} {
		first := p.Process(context.Background(), models.ChatRequest{Message: msg})
		second := p.Process(context.Background(), models.ChatRequest{Message: msg})

		first.Timestamp, second.Timestamp = 0, 0
		assert.Equal(t, first, second, msg)
	}
}

func TestProcessor_GenerationWaitBoundsLatency(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{})}
	defer close(gen.release)

	p := createRealProcessor(t, gen, nil)

	start := time.Now()
	resp := p.Process(context.Background(), models.ChatRequest{Message: "양자역학이 뭐야"})

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "fallback", resp.Intent)
	assert.True(t, strings.HasPrefix(resp.Message, "잘 이해하지 못했습니다."))
}

// ==========================
// Transcripts
// ==========================

func TestProcessor_SavesTranscript(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO chat_transcripts").
		WithArgs(
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"고마워",
			"천만에요! 더 필요한 것이 있으면 말씀해주세요.",
			"thanks",
			1.0,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := createRealProcessor(t, nil, database.NewTranscriptStore(db))
	p.Process(context.Background(), models.ChatRequest{Message: "고마워", UserID: "user-1"})
	p.Wait()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessor_TranscriptFailureDoesNotChangeReply(t *testing.T) {
	saver := &failingSaver{}
	withStore := createRealProcessor(t, nil, saver)
	without := createRealProcessor(t, nil, nil)

	got := withStore.Process(context.Background(), models.ChatRequest{Message: "고마워"})
	withStore.Wait()
	want := without.Process(context.Background(), models.ChatRequest{Message: "고마워"})

	got.Timestamp, want.Timestamp = 0, 0
	assert.Equal(t, want, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&saver.calls))
}
