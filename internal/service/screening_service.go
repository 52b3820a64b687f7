package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/config"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/metrics"
	"github.com/atanasster/pad-champions/internal/response"
)

// Screening request outcomes recorded in metrics
const (
	ScreeningCompleted = "completed"
	ScreeningFailed    = "failed"
	ScreeningRejected  = "rejected"
)

const screeningSystemPrompt = `You are an expert vascular specialist assistant for the CHAMPIONS Limb Preservation Network.
Your goal is to screen for Peripheral Artery Disease (PAD) risks.

Analyze the provided medical notes and/or file uploads (which may be blood work results, medical reports, or photos of legs/feet).

Provide a response in the following structure:
1. **Risk Assessment**: High, Medium, or Low. Explain why.
2. **Key Observations**: Bullet points of what you found in the text or file.
3. **Lifestyle Recommendations**: 3-4 actionable tips.
4. **Action Plan**: Specifically, should they see a doctor? (Yes/No/Urgent).

IMPORTANT: If the file is unclear or not medical, politely say so.
Disclaimer: Start your response with "AI Assessment (Not a Diagnosis):".`

const uploadedFileNote = "I have uploaded a file (image, PDF, DOCX, or TXT) containing my lab results or leg condition. Please analyze it."

// ScreeningService relays screening questions to the generative backend
type ScreeningService interface {
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error)
}

type screeningServiceImpl struct {
	genai        client.GenAIClient
	model        string
	temperature  float64
	maxFileBytes int64
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewScreeningService creates a new ScreeningService. A nil genai client
// makes every request fail as unavailable.
func NewScreeningService(genai client.GenAIClient, cfg config.GenAIConfig, m *metrics.Metrics, logger *zap.Logger) ScreeningService {
	return &screeningServiceImpl{
		genai:        genai,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxFileBytes: cfg.MaxFileBytes,
		metrics:      m,
		logger:       logger,
	}
}

// Analyze validates the request and starts a streamed assessment. The
// returned channel ends with a Done or Err event.
func (s *screeningServiceImpl) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
	completion, err := s.buildRequest(req)
	if err != nil {
		s.metrics.IncrementScreeningRequest(ScreeningRejected)
		return nil, err
	}

	if s.genai == nil {
		s.metrics.IncrementScreeningRequest(ScreeningFailed)
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Screening assistant is not configured", "")
	}

	s.logger.Info("Analyzing patient data",
		zap.String("model", completion.Model),
		zap.Bool("has_file", completion.Attachment != nil),
	)

	upstream, err := s.genai.StreamCompletion(ctx, completion)
	if err != nil {
		s.metrics.IncrementScreeningRequest(ScreeningFailed)
		return nil, response.NewInternalError("Failed to generate assessment", err.Error())
	}

	out := make(chan client.StreamEvent)
	go func() {
		defer close(out)
		outcome := ScreeningFailed
		defer func() { s.metrics.IncrementScreeningRequest(outcome) }()

		for ev := range upstream {
			if ev.Done {
				outcome = ScreeningCompleted
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *screeningServiceImpl) buildRequest(req *dto.AnalyzeRequest) (client.CompletionRequest, error) {
	history := strings.TrimSpace(req.MedicalHistory)
	if history == "" && req.File == "" {
		return client.CompletionRequest{}, response.NewValidationError("Provide a medical history or a file to analyze", "")
	}

	var parts []string
	if history != "" {
		parts = append(parts, "Patient History/Symptoms: "+history)
	}

	var attachment *client.Attachment
	if req.File != "" {
		if req.MimeType == "" {
			return client.CompletionRequest{}, response.NewValidationError("mimeType is required with a file", "")
		}
		data, err := decodeBase64File(req.File)
		if err != nil {
			return client.CompletionRequest{}, response.NewValidationError("File must be base64 encoded", err.Error())
		}
		if int64(len(data)) > s.maxFileBytes {
			return client.CompletionRequest{}, response.NewAppError(response.ErrCodePayloadTooLarge,
				"File exceeds the maximum size",
				fmt.Sprintf("%d bytes > %d bytes", len(data), s.maxFileBytes))
		}
		attachment = &client.Attachment{MimeType: req.MimeType, Data: data}
		parts = append(parts, uploadedFileNote)
	}

	model := req.Model
	if model == "" {
		model = s.model
	}

	return client.CompletionRequest{
		SystemPrompt: screeningSystemPrompt,
		Prompt:       strings.Join(parts, "\n\n"),
		Attachment:   attachment,
		Model:        model,
		Temperature:  s.temperature,
	}, nil
}

// decodeBase64File accepts raw base64 or a data URL
func decodeBase64File(encoded string) ([]byte, error) {
	if strings.HasPrefix(encoded, "data:") {
		if i := strings.Index(encoded, ","); i >= 0 {
			encoded = encoded[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
}
