package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/response"
)

func setupScreeningRouter(svc *MockScreeningService, maxFileBytes int64) *gin.Engine {
	r := gin.New()
	h := NewScreeningHandler(svc, maxFileBytes, zap.NewNop())
	r.POST("/screening/analyze", h.Analyze)
	return r
}

func postAnalyze(router *gin.Engine, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/screening/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScreeningHandler_StreamsText(t *testing.T) {
	var got *dto.AnalyzeRequest
	svc := &MockScreeningService{
		AnalyzeFunc: func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
			got = req
			return streamOf(
				client.StreamEvent{Content: "AI Assessment (Not a Diagnosis): "},
				client.StreamEvent{Content: "Moderate risk."},
				client.StreamEvent{Done: true},
			), nil
		},
	}

	w := postAnalyze(setupScreeningRouter(svc, 1<<20), []byte(`{"medicalHistory":"smoker, 62"}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, "AI Assessment (Not a Diagnosis): Moderate risk.", w.Body.String())
	assert.Equal(t, "smoker, 62", got.MedicalHistory)
}

func TestScreeningHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		analyze    func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error)
		wantStatus int
		wantCode   string
	}{
		{
			name: "validation",
			analyze: func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
				return nil, response.NewValidationError("Provide a medical history or a file to analyze", "")
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   response.ErrCodeValidation,
		},
		{
			name: "not configured",
			analyze: func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
				return nil, response.NewAppError(response.ErrCodeUnavailable, "Screening assistant is not configured", "")
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   response.ErrCodeUnavailable,
		},
		{
			name: "file too large",
			analyze: func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
				return nil, response.NewAppError(response.ErrCodePayloadTooLarge, "File exceeds the maximum size", "")
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   response.ErrCodePayloadTooLarge,
		},
		{
			name: "fails before first chunk",
			analyze: func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
				return streamOf(client.StreamEvent{Err: errors.New("quota exceeded")}), nil
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockScreeningService{AnalyzeFunc: tt.analyze}

			w := postAnalyze(setupScreeningRouter(svc, 1<<20), []byte(`{"medicalHistory":"x"}`))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestScreeningHandler_MidStreamErrorEndsBody(t *testing.T) {
	svc := &MockScreeningService{
		AnalyzeFunc: func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
			return streamOf(
				client.StreamEvent{Content: "partial"},
				client.StreamEvent{Err: errors.New("upstream reset")},
				client.StreamEvent{Content: "never sent"},
			), nil
		},
	}

	w := postAnalyze(setupScreeningRouter(svc, 1<<20), []byte(`{"medicalHistory":"x"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestScreeningHandler_BodyTooLarge(t *testing.T) {
	svc := &MockScreeningService{
		AnalyzeFunc: func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	// body limit is maxFileBytes*4/3 plus 1 MiB
	payload, _ := json.Marshal(dto.AnalyzeRequest{File: strings.Repeat("A", 3<<20), MimeType: "image/png"})

	w := postAnalyze(setupScreeningRouter(svc, 1<<20), payload)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestScreeningHandler_InvalidJSON(t *testing.T) {
	w := postAnalyze(setupScreeningRouter(&MockScreeningService{}, 1<<20), []byte(`{"medicalHistory":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
