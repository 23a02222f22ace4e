package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ouvrages/livre-api/internal/api/shared"
	"github.com/ouvrages/livre-api/internal/mocks"
	"github.com/ouvrages/livre-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

func newTestAuthMiddleware() *AuthMiddleware {
	return NewAuthMiddleware(&mocks.MockJWTService{
		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			switch token {
			case validToken:
				return &auth.Claims{UserID: 7, Username: "alice"}, nil
			case "expired":
				return nil, auth.ErrExpiredToken
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	})
}

// echoHandler reports the user ID from the context and the body it received.
func echoHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r)
		require.True(t, ok)
		claims, ok := GetClaims(r.Context())
		require.True(t, ok)
		assert.Equal(t, "alice", claims.Username)

		body, _ := io.ReadAll(r.Body)
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
			"userId": userID,
			"body":   string(body),
		})
	})
}

func TestAuthenticate(t *testing.T) {
	mw := newTestAuthMiddleware()

	testCases := []struct {
		name        string
		header      string
		method      string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{name: "valid token", header: "Bearer " + validToken, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + validToken, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "missing header", method: http.MethodGet, wantStatus: http.StatusUnauthorized, wantMessage: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", method: http.MethodGet, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid authorization format"},
		{name: "bare token", header: validToken, method: http.MethodGet, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid authorization format"},
		{name: "expired token", header: "Bearer expired", method: http.MethodGet, wantStatus: http.StatusUnauthorized, wantMessage: "Token expired"},
		{name: "invalid token", header: "Bearer nope", method: http.MethodGet, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "body names caller", header: "Bearer " + validToken, method: http.MethodPost, body: `{"userId":7,"appreciation":4}`, wantStatus: http.StatusOK},
		{name: "body names caller as string", header: "Bearer " + validToken, method: http.MethodPut, body: `{"idUtilisateur":"7"}`, wantStatus: http.StatusOK},
		{name: "body names other user", header: "Bearer " + validToken, method: http.MethodPost, body: `{"userId":8}`, wantStatus: http.StatusUnauthorized, wantMessage: "User ID does not match the authenticated user"},
		{name: "body with non-numeric user", header: "Bearer " + validToken, method: http.MethodPost, body: `{"idUtilisateur":"abc"}`, wantStatus: http.StatusUnauthorized},
		{name: "body without user", header: "Bearer " + validToken, method: http.MethodPost, body: `{"titre":"Dune"}`, wantStatus: http.StatusOK},
		{name: "malformed body left to handler", header: "Bearer " + validToken, method: http.MethodPost, body: `{oops`, wantStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/ouvrages", strings.NewReader(tc.body))
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(echoHandler(t)).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				var got map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.EqualValues(t, 7, got["userId"])
				assert.Equal(t, tc.body, got["body"], "body must reach the handler untouched")
				return
			}
			if tc.wantMessage != "" {
				var errResp shared.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tc.wantMessage, errResp.Message)
			}
		})
	}
}

func TestAuthenticate_IgnoresMultipartBody(t *testing.T) {
	mw := newTestAuthMiddleware()
	req := httptest.NewRequest(http.MethodPost, "/api/ouvrages", strings.NewReader("userId=8"))
	req.Header.Set("Authorization", "Bearer "+validToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	mw.Authenticate(echoHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_OversizeBody(t *testing.T) {
	mw := newTestAuthMiddleware()
	body := `{"commentaire":"` + strings.Repeat("a", maxInspectedBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/commentaires", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+validToken)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mw.Authenticate(echoHandler(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var errResp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Message, "exceeds")
}

func TestGetClaims_Missing(t *testing.T) {
	_, ok := GetClaims(context.Background())
	assert.False(t, ok)
}
