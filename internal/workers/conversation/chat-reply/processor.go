// internal/workers/conversation/chat-reply/processor.go
package chatreply

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"lasa-chatbot/internal/common/database"
	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/metrics"
	"lasa-chatbot/internal/common/observability"
	"lasa-chatbot/internal/models"

	"github.com/google/uuid"
)

type Normalizer interface {
	Normalize(req *models.ChatRequest) models.NormalizedMessage
}

type Analyzer interface {
	Analyze(ctx context.Context, text, userID string) models.AnalysisResult
}

type Solver interface {
	Solve(ctx context.Context, analysis models.AnalysisResult) *models.SolutionResult
}

type Renderer interface {
	Answer(result *models.SolutionResult) models.ChatResponse
}

type TranscriptSaver interface {
	Save(ctx context.Context, t database.Transcript) error
}

// Stages are the four pipeline steps. Transcripts is optional.
type Stages struct {
	Normalizer  Normalizer
	Analyzer    Analyzer
	Solver      Solver
	Renderer    Renderer
	Transcripts TranscriptSaver
}

// Processor runs Normalize -> Analyze -> Solve -> Answer for one request.
type Processor struct {
	config *Config
	stages Stages
	obs    *observability.Observability
	now    func() time.Time
	log    logger.Logger

	pending sync.WaitGroup
}

func NewProcessor(config *Config, stages Stages, obs *observability.Observability, log logger.Logger) *Processor {
	return &Processor{
		config: config,
		stages: stages,
		obs:    obs,
		now:    time.Now,
		log:    logger.Component(log, "chat-reply"),
	}
}

// Process always returns a well-formed response. Blank messages are rejected
// before any stage runs; a panic in any stage becomes a generic apology.
func (p *Processor) Process(ctx context.Context, req models.ChatRequest) (resp models.ChatResponse) {
	start := p.now()
	requestID := uuid.New().String()
	log := p.log.WithFields(map[string]interface{}{"requestId": requestID})

	defer func() {
		if r := recover(); r != nil {
			log.Error("Chat pipeline panicked", map[string]interface{}{
				"panic":     fmt.Sprint(r),
				"errorCode": apperrors.ErrCodeInternal,
			})
			resp = p.errorResponse(MessageInternal)
		}
		metrics.ChatRequests.WithLabelValues(resp.Intent).Inc()
		p.obs.RecordChat(ctx, resp.Intent, p.config.AnalyzerName)
		p.obs.RecordChatDuration(ctx, time.Since(start), resp.Intent)
	}()

	if strings.TrimSpace(req.Message) == "" {
		log.Info("Rejected blank message", map[string]interface{}{"errorCode": apperrors.ErrCodeValidationFailed})
		return p.errorResponse(MessageBlank)
	}

	stageStart := time.Now()
	normalized := p.stages.Normalizer.Normalize(&req)
	observeStage("normalize", stageStart)
	if normalized.IsEmpty() {
		log.Info("Message empty after normalization", map[string]interface{}{"errorCode": apperrors.ErrCodeValidationFailed})
		return p.errorResponse(MessageBlank)
	}

	stageStart = time.Now()
	analysis := p.stages.Analyzer.Analyze(ctx, normalized.Text(), req.UserID)
	observeStage("analyze", stageStart)
	log.Info("Message analyzed", map[string]interface{}{
		"intent":     analysis.Intent,
		"confidence": analysis.Confidence,
		"entities":   analysis.Entities(),
	})

	stageStart = time.Now()
	solution := p.stages.Solver.Solve(ctx, analysis)
	observeStage("solve", stageStart)

	stageStart = time.Now()
	resp = p.stages.Renderer.Answer(solution)
	observeStage("answer", stageStart)

	p.saveTranscript(ctx, requestID, req, resp)
	return resp
}

// Wait blocks until in-flight transcript writes finish.
func (p *Processor) Wait() {
	p.pending.Wait()
}

func (p *Processor) saveTranscript(ctx context.Context, requestID string, req models.ChatRequest, resp models.ChatResponse) {
	if p.stages.Transcripts == nil {
		return
	}

	transcript := database.Transcript{
		RequestID:  requestID,
		UserID:     req.UserID,
		SessionID:  req.SessionID,
		Message:    req.Message,
		Reply:      resp.Message,
		Intent:     resp.Intent,
		Confidence: resp.Confidence,
		Entities:   resp.Entities,
	}

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.TranscriptTimeout)
		defer cancel()

		if err := p.stages.Transcripts.Save(saveCtx, transcript); err != nil {
			stdErr := apperrors.NewTranscriptSaveError(err)
			metrics.CollaboratorErrors.WithLabelValues("transcripts", string(stdErr.Code)).Inc()
			p.log.Warn("Transcript not saved", map[string]interface{}{
				"requestId": requestID,
				"errorCode": stdErr.Code,
				"error":     err.Error(),
			})
		}
	}()
}

func (p *Processor) errorResponse(message string) models.ChatResponse {
	return models.ChatResponse{
		Message:    message,
		Intent:     models.IntentError,
		Entities:   map[string]interface{}{},
		Timestamp:  p.now().UnixMilli(),
		Confidence: 0,
	}
}

func observeStage(stage string, start time.Time) {
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
