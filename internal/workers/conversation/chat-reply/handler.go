// internal/workers/conversation/chat-reply/handler.go
package chatreply

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "chat-reply"

// Handler answers chat messages as a Zeebe job worker.
type Handler struct {
	processor    *Processor
	timeout      time.Duration
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(processor *Processor, timeout time.Duration, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		processor:    processor,
		timeout:      timeout,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	input, err := ParseInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err)
		return err
	}

	output := h.Execute(ctx, input)

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		stdErr := apperrors.NewInternalError(fmt.Errorf("encode job output: %w", err))
		h.fail(ctx, client, job, stdErr)
		return stdErr
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
		"intent": output.Response.Intent,
	})
	return nil
}

// Execute runs the pipeline for one job payload.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return &Output{Response: h.processor.Process(ctx, input.Request())}
}

// ParseInput decodes job variables. Unparseable payloads are validation errors.
func ParseInput(variables string) (*Input, error) {
	if err := checkSchema(jobSchema, []byte(variables)); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse job variables: %v", err))
	}
	return &input, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.CodeOf(err))).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
