package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/ouvrages/livre-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, TraceIDLength*2)
	assert.NotEqual(t, id, GetTraceID(SetTraceID(context.Background())))
	assert.Len(t, generateFallbackTraceID(), TraceIDLength*2)
}

func TestUserID(t *testing.T) {
	t.Parallel()

	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	id, ok := GetUserID(WithUserID(context.Background(), 12))
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	_, ok = GetUserID(WithUserID(context.Background(), 0))
	assert.False(t, ok)
}

type sampleRequest struct {
	Title string `json:"titre"   validate:"required,max=5"`
	Pages int    `json:"nbPages" validate:"required,gte=1"`
}

func TestDecodeAndValidate(t *testing.T) {
	t.Parallel()

	var req sampleRequest
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"titre":"Dune","nbPages":412}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &req))
	assert.NoError(t, ValidateRequest(&req))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"titre":`))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &req), ErrInvalidJSON)

	oversize := `{"titre":"` + strings.Repeat("a", maxJSONBodyBytes) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(oversize))
	err := DecodeJSON(httptest.NewRecorder(), r, &req)
	var tooLarge *http.MaxBytesError
	require.True(t, errors.As(err, &tooLarge))
	assert.EqualValues(t, maxJSONBodyBytes, tooLarge.Limit)
	assert.NotErrorIs(t, err, ErrInvalidJSON)

	err = ValidateRequest(&sampleRequest{Title: "Too long title"})
	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "titre", ve[0].Field())
	assert.Equal(t, "nbPages", ve[1].Field())
}

func TestRespondWithData(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	RespondWithData(w, r, http.StatusOK, "Livre trouvé", map[string]int{"idOuvrage": 4})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"message":"Livre trouvé","data":{"idOuvrage":4}}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := logger.WithLogger(SetTraceID(context.Background()), log)
	r := httptest.NewRequest(http.MethodGet, "/api/livres", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Erreur interne",
		errors.New("dial postgres://livres:s3cret@db:5432/livres failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Erreur interne", body.Message)
	assert.Equal(t, GetTraceID(ctx), body.TraceID)
	assert.NotContains(t, w.Body.String(), "s3cret")

	assert.Contains(t, logs.String(), `"level":"ERROR"`)
	assert.NotContains(t, logs.String(), "s3cret")
}

func TestRespondWithErrorLogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		opts   []ResponseOption
		level  string
	}{
		{"client error", http.StatusNotFound, nil, "DEBUG"},
		{"elevated client error", http.StatusUnauthorized, []ResponseOption{WithElevatedLogLevel()}, "WARN"},
		{"rate limited", http.StatusTooManyRequests, nil, "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var logs bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(logger.WithLogger(context.Background(), log))

			RespondWithErrorAndLog(httptest.NewRecorder(), r, tt.status, "msg", nil, tt.opts...)

			assert.Contains(t, logs.String(), `"level":"`+tt.level+`"`)
		})
	}
}
