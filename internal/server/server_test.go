package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirechat/internal/config"
	"github.com/jonathan/hirechat/internal/replies"
	"github.com/jonathan/hirechat/internal/types"
)

// fakeAPI is an in-memory stand-in for the remote Hirechat API.
type fakeAPI struct {
	mu         sync.Mutex
	jobs       []types.Job
	apps       []types.Application
	created    int
	failStatus int
	tokens     []string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", f.guard(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.jobs)
	}))
	mux.HandleFunc("GET /applications", f.guard(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.apps)
	}))
	mux.HandleFunc("POST /jobs", f.guard(func(w http.ResponseWriter, r *http.Request) {
		var draft types.JobPostingDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}
		f.created++
		job := types.Job{
			ID:          int64(100 + f.created),
			Title:       draft.Title,
			Description: draft.Description,
			Location:    draft.Location,
			SalaryMin:   draft.SalaryMin,
			SalaryMax:   draft.SalaryMax,
			Status:      types.JobStatusOpen,
		}
		f.jobs = append(f.jobs, job)
		writeJSON(w, http.StatusCreated, job)
	}))
	mux.HandleFunc("PATCH /jobs/{id}/close", f.guard(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for i := range f.jobs {
			if f.jobs[i].ID == id {
				f.jobs[i].Status = types.JobStatusClosed
				writeJSON(w, http.StatusOK, f.jobs[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
	}))
	return mux
}

// guard serialises access, records the bearer token and injects configured failures.
func (f *fakeAPI) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.tokens = append(f.tokens, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		switch f.failStatus {
		case 0:
			next(w, r)
		case http.StatusUnauthorized:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		default:
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(f.failStatus)
			_, _ = io.WriteString(w, "<html><head><title>Service Unavailable</title></head></html>")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func seededAPI() *fakeAPI {
	return &fakeAPI{
		jobs: []types.Job{
			{ID: 1, Title: "Backend Engineer", Location: "London", SalaryMin: 50000, SalaryMax: 70000, Status: types.JobStatusOpen},
			{ID: 2, Title: "Frontend Developer", Location: "Remote", SalaryMin: 45000, SalaryMax: 65000, Status: types.JobStatusOpen},
		},
		apps: []types.Application{
			{ID: 10, JobID: 1, Status: "submitted"},
		},
	}
}

type testGateway struct {
	server *Server
	api    *fakeAPI
}

func newTestGateway(t *testing.T, fake *fakeAPI, configure func(*config.Config)) *testGateway {
	t.Helper()

	upstream := httptest.NewServer(fake.handler())
	t.Cleanup(upstream.Close)

	cfg := config.Defaults()
	cfg.APIBase = upstream.URL
	cfg.Timeout = "5s"
	if configure != nil {
		configure(&cfg)
	}

	s, err := New(&cfg, &config.JWTConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return &testGateway{server: s, api: fake}
}

func (g *testGateway) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.server.Handler().ServeHTTP(w, req)
	return w
}

func testToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return token
}

func decodeChat(t *testing.T, w *httptest.ResponseRecorder) ChatResponse {
	t.Helper()
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHandleHealth(t *testing.T) {
	g := newTestGateway(t, seededAPI(), nil)

	w := g.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestChat_RequiresAuth(t *testing.T) {
	g := newTestGateway(t, seededAPI(), nil)

	w := g.do(http.MethodPost, "/chat/applicant", "", `{"message": "list jobs"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = g.do(http.MethodPost, "/chat/applicant", testToken(t, "a@example.com", -time.Hour), `{"message": "list jobs"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = g.do(http.MethodPost, "/chat/applicant", "not-a-jwt", `{"message": "list jobs"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Empty(t, g.api.tokens, "no upstream call without a valid token")
}

func TestChat_Applicant(t *testing.T) {
	g := newTestGateway(t, seededAPI(), nil)
	token := testToken(t, "applicant@example.com", time.Hour)

	w := g.do(http.MethodPost, "/chat/applicant", token, `{"message": "Show me remote jobs"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeChat(t, w)
	assert.Contains(t, resp.Reply, "Frontend Developer")
	assert.NotContains(t, resp.Reply, "Backend Engineer")
	assert.Nil(t, resp.Action)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, types.ChatRoleUser, resp.Messages[0].Role)
	assert.Equal(t, "Show me remote jobs", resp.Messages[0].Content)
	assert.Equal(t, resp.Reply, resp.Messages[1].Content)

	// The caller's token is forwarded upstream.
	require.NotEmpty(t, g.api.tokens)
	for _, forwarded := range g.api.tokens {
		assert.Equal(t, token, forwarded)
	}

	w = g.do(http.MethodPost, "/chat/applicant", token, `{"message": "hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeChat(t, w)
	assert.Equal(t, replies.MustGet(replies.Applicant, "help"), resp.Reply)
	assert.Len(t, resp.Messages, 4)
}

func TestChat_ManagerCreatesAndClosesJob(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{}, nil)
	token := testToken(t, "manager@example.com", time.Hour)

	w := g.do(http.MethodPost, "/chat/manager", token, `{"message": "Create Backend Engineer in London 50k-70k"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeChat(t, w)
	assert.Equal(t, "✅ Created job #101: Backend Engineer (London, £50000–£70000).", resp.Reply)
	require.NotNil(t, resp.Action)
	assert.Equal(t, "create_job", string(resp.Action.Kind))
	require.NotNil(t, resp.Action.Draft)
	assert.Equal(t, "Backend Engineer", resp.Action.Draft.Title)
	require.Len(t, g.api.jobs, 1)

	w = g.do(http.MethodPost, "/chat/manager", token, `{"message": "close backend engineer"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decodeChat(t, w)
	assert.Equal(t, "✅ Closed job #101: Backend Engineer.", resp.Reply)
	assert.Equal(t, types.JobStatusClosed, g.api.jobs[0].Status)

	w = g.do(http.MethodGet, "/chat/manager/transcript", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var transcript TranscriptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	assert.Equal(t, PanelManager, transcript.Panel)
	assert.Len(t, transcript.Messages, 4)
}

func TestChat_ManagerExtractionFailed(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{}, nil)

	w := g.do(http.MethodPost, "/chat/manager", testToken(t, "m", time.Hour), `{"message": "Create !!!"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeChat(t, w)
	assert.Equal(t, replies.MustGet(replies.Manager, "extraction-failed"), resp.Reply)
	assert.Nil(t, resp.Action)
	assert.Zero(t, g.api.created)
}

func TestChat_BadRequests(t *testing.T) {
	g := newTestGateway(t, seededAPI(), nil)
	token := testToken(t, "a", time.Hour)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{"unknown panel", "/chat/admin", `{"message": "hi"}`, http.StatusNotFound},
		{"empty body", "/chat/applicant", "", http.StatusBadRequest},
		{"malformed json", "/chat/applicant", `{"message":`, http.StatusBadRequest},
		{"wrong field", "/chat/applicant", `{"text": "hi"}`, http.StatusBadRequest},
		{"empty message", "/chat/applicant", `{"message": ""}`, http.StatusBadRequest},
		{"blank message", "/chat/applicant", `{"message": "   "}`, http.StatusBadRequest},
		{"too long", "/chat/applicant", fmt.Sprintf(`{"message": %q}`, strings.Repeat("x", 2001)), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := g.do(http.MethodPost, tt.path, token, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestChat_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		failStatus int
		wantCode   int
		wantError  string
	}{
		{"expired upstream session", http.StatusUnauthorized, http.StatusUnauthorized, "Could not validate credentials"},
		{"upstream outage", http.StatusServiceUnavailable, http.StatusBadGateway, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := seededAPI()
			fake.failStatus = tt.failStatus
			g := newTestGateway(t, fake, nil)

			w := g.do(http.MethodPost, "/chat/applicant", testToken(t, "a", time.Hour), `{"message": "list jobs"}`)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}

func TestChat_ConversationsAreSeparate(t *testing.T) {
	g := newTestGateway(t, seededAPI(), nil)
	alice := testToken(t, "alice", time.Hour)
	bob := testToken(t, "bob", 2*time.Hour)

	require.Equal(t, http.StatusOK, g.do(http.MethodPost, "/chat/applicant", alice, `{"message": "list jobs"}`).Code)
	require.Equal(t, http.StatusOK, g.do(http.MethodPost, "/chat/manager", alice, `{"message": "jobs"}`).Code)

	transcriptLen := func(token, panel string) int {
		w := g.do(http.MethodGet, "/chat/"+panel+"/transcript", token, "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp TranscriptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return len(resp.Messages)
	}

	assert.Equal(t, 2, transcriptLen(alice, PanelApplicant))
	assert.Equal(t, 2, transcriptLen(alice, PanelManager))
	assert.Equal(t, 0, transcriptLen(bob, PanelApplicant))
	assert.Equal(t, 2, g.server.chats.count())

	w := g.do(http.MethodDelete, "/chat/applicant", alice, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, transcriptLen(alice, PanelApplicant))
	assert.Equal(t, 2, transcriptLen(alice, PanelManager))

	assert.Equal(t, http.StatusNotFound, g.do(http.MethodGet, "/chat/admin/transcript", alice, "").Code)
}

func TestHandleExtract(t *testing.T) {
	g := newTestGateway(t, seededAPI(), nil)

	w := g.do(http.MethodPost, "/extract", "", `{"message": "Create Senior React Developer in London £65-85k with description Build UI features"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.JobPostingDraft{
		Title:       "Senior React Developer",
		Description: "Build UI features",
		Location:    "London",
		SalaryMin:   65000,
		SalaryMax:   85000,
	}, resp.Draft)
	assert.False(t, resp.SalaryInverted)

	w = g.do(http.MethodPost, "/extract", "", `{"message": "Create QA Lead in London 90k-60k"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.SalaryInverted)

	for _, message := range []string{"What jobs are open?", "Create !!!"} {
		w = g.do(http.MethodPost, "/extract", "", fmt.Sprintf(`{"message": %q}`, message))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, message)
		assert.Contains(t, w.Body.String(), "couldn't understand", message)
	}

	assert.Empty(t, g.api.tokens, "extraction never calls the API")
}

func TestRateLimit(t *testing.T) {
	g := newTestGateway(t, seededAPI(), func(cfg *config.Config) {
		cfg.RateLimit = 0.001
		cfg.RateBurst = 2
	})
	token := testToken(t, "a", time.Hour)

	for i := 0; i < 2; i++ {
		w := g.do(http.MethodPost, "/chat/applicant", token, `{"message": "list jobs"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(1-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := g.do(http.MethodPost, "/chat/applicant", token, `{"message": "list jobs"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	// Health checks are never limited
	assert.Equal(t, http.StatusOK, g.do(http.MethodGet, "/health", "", "").Code)
}

func TestCORS(t *testing.T) {
	g := newTestGateway(t, seededAPI(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/chat/manager", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	g.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	restricted := newTestGateway(t, seededAPI(), func(cfg *config.Config) {
		cfg.AllowedOrigins = []string{"https://hirechat.example"}
	})

	for origin, want := range map[string]string{
		"https://hirechat.example": "https://hirechat.example",
		"https://evil.example":     "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		restricted.server.Handler().ServeHTTP(w, req)
		assert.Equal(t, want, w.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestNew_InvalidAPIBase(t *testing.T) {
	cfg := config.Defaults()
	cfg.APIBase = "not a url"

	_, err := New(&cfg, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create API client")
}
