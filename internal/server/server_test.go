package server

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/contact"
	"github.com/Muhammadkaif97/cpn-calculator/internal/monitoring"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ranking"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ratelimit"
	"github.com/Muhammadkaif97/cpn-calculator/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDelivery struct {
	mu    sync.Mutex
	err   error
	calls []contact.Form
	block chan struct{}
}

func (s *stubDelivery) Deliver(ctx context.Context, f contact.Form) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, f)
	return s.err
}

type testEnv struct {
	router   *gin.Engine
	delivery *stubDelivery
	gate     *contact.Gate
	metrics  *monitoring.Metrics
}

func newTestEnv(t *testing.T, withContact bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		delivery: &stubDelivery{},
		gate:     contact.NewGate(),
		metrics:  monitoring.NewMetrics(),
	}

	limiter := ratelimit.NewRateLimiter(nil, ratelimit.Config{
		IPLimitPerMin:      1000,
		ContactLimitPerMin: 1000,
		BurstMultiplier:    1,
	}, env.metrics)
	t.Cleanup(limiter.Close)

	deps := Deps{
		Catalog:        catalog.Default(),
		DeliveryKind:   "relay",
		Limiter:        limiter,
		Metrics:        env.metrics,
		Logger:         monitoring.NewLoggerWithWriter(&bytes.Buffer{}, 0),
		Security:       security.DefaultConfig(),
		AllowedOrigins: []string{"http://localhost:8080"},
		Version:        "test",
	}
	if withContact {
		deps.Contact = contact.NewService(env.delivery, env.gate, nil)
	}

	r, err := NewRouter(deps)
	require.NoError(t, err)
	env.router = r
	return env
}

func (e *testEnv) postJSON(path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error     string   `json:"error"`
	Category  string   `json:"category"`
	Errors    []string `json:"errors"`
	RequestID string   `json:"request_id"`
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.get("/health")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[HealthResponse](t, w)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, "disabled", body.Services["contact"])
	assert.Equal(t, "memory", body.Services["rate_limit"])
	assert.NotEmpty(t, w.Header().Get(monitoring.RequestIDHeader))
}

func TestDepartments(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		query string
		field catalog.Field
	}{
		{"?field=pre-medical", catalog.FieldPreMedical},
		{"?field=pre-engineering", catalog.FieldPreEngineering},
		{"?field=astronomy", catalog.FieldGeneral},
		{"", catalog.FieldGeneral},
	}
	for _, tt := range tests {
		t.Run(string(tt.field)+tt.query, func(t *testing.T) {
			w := env.get("/api/departments" + tt.query)
			require.Equal(t, http.StatusOK, w.Code)

			body := decode[DepartmentsResponse](t, w)
			want := catalog.Default().Subset(tt.field)
			assert.Equal(t, tt.field, body.Field)
			assert.Equal(t, len(want), body.Count)
			require.Len(t, body.Departments, len(want))
			for i := range want {
				assert.Equal(t, want[i].Name, body.Departments[i].Name)
			}
		})
	}
}

func TestCalculate(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantDisplay string
		wantError   string
	}{
		{
			name:        "percentages as strings",
			body:        `{"matric":{"percentage":"85"},"inter":{"percentage":"78"},"test_score":"64"}`,
			wantStatus:  http.StatusOK,
			wantDisplay: "70.30",
		},
		{
			name:        "bare numbers",
			body:        `{"matric":85,"inter":78,"test_score":64}`,
			wantStatus:  http.StatusOK,
			wantDisplay: "70.30",
		},
		{
			name:        "marks",
			body:        `{"matric":{"obtained":"935","total":"1100"},"inter":{"obtained":858,"total":1100},"test_score":"64"}`,
			wantStatus:  http.StatusOK,
			wantDisplay: "70.30",
		},
		{
			name:       "empty field",
			body:       `{"matric":"85","inter":"","test_score":"64"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Please fill in all fields with numbers.",
		},
		{
			name:       "hex float",
			body:       `{"matric":"0x1p6","inter":85,"test_score":70}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Please fill in all fields with numbers.",
		},
		{
			name:       "digit separators",
			body:       `{"matric":"85","inter":"7_8","test_score":"64"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Please fill in all fields with numbers.",
		},
		{
			name:       "percentage out of range",
			body:       `{"matric":"101","inter":"78","test_score":"64"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Percentages must be between 0 and 100.",
		},
		{
			name:       "test out of range",
			body:       `{"matric":"85","inter":"78","test_score":"120"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Test score must be between 0 and 100.",
		},
		{
			name:       "obtained above total",
			body:       `{"matric":{"obtained":"45","total":"40"},"inter":"78","test_score":"64"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Obtained marks cannot exceed total marks.",
		},
		{
			name:       "malformed json",
			body:       `{"matric":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body.",
		},
		{
			name:       "boolean value",
			body:       `{"matric":true,"inter":"78","test_score":"64"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.postJSON("/api/calculate", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusOK {
				var body struct {
					Aggregate float64 `json:"aggregate"`
					Display   string  `json:"display"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantDisplay, body.Display)
				assert.InDelta(t, 70.3, body.Aggregate, 1e-9)
				return
			}

			body := decode[errorBody](t, w)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, "validation", body.Category)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestSuggestions(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.postJSON("/api/suggestions", `{"aggregate":"70.30","field":"pre-engineering","view":"condensed"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	got := decode[[]SuggestionResponse](t, w)
	want := ranking.Suggest(catalog.Default(), catalog.FieldPreEngineering, 70.3, true)
	require.Len(t, got, len(want))
	assert.LessOrEqual(t, len(got), ranking.CondensedLimit)
	for i := range want {
		assert.Equal(t, want[i].Department.Name, got[i].Name)
		assert.Equal(t, want[i].Likelihood.String(), got[i].Label)
		assert.Equal(t, want[i].Likelihood.ClassTag(), got[i].Class)
	}
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Likelihood, got[i].Likelihood)
	}

	again := env.postJSON("/api/suggestions", `{"aggregate":"70.30","field":"pre-engineering","view":"condensed"}`)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
	assert.JSONEq(t, w.Body.String(), again.Body.String())
}

func TestSuggestionsFullView(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.postJSON("/api/suggestions", `{"aggregate":55,"field":"pre-medical","view":"full"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[[]SuggestionResponse](t, w)
	assert.Len(t, got, len(catalog.Default().Subset(catalog.FieldPreMedical)))
}

func TestSuggestionsErrors(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantCategory string
		wantError    string
	}{
		{"no score yet", `{"aggregate":"--","field":"general"}`, http.StatusPreconditionFailed, "missing_prerequisite", "Calculate your CPN before requesting suggestions."},
		{"empty score", `{"aggregate":"","field":"general"}`, http.StatusPreconditionFailed, "missing_prerequisite", "Calculate your CPN before requesting suggestions."},
		{"negative score", `{"aggregate":"-4","field":"general"}`, http.StatusBadRequest, "validation", "Aggregate must be a non-negative number."},
		{"unknown view", `{"aggregate":"60","field":"general","view":"wide"}`, http.StatusBadRequest, "validation", "Invalid value for View."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.postJSON("/api/suggestions", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			body := decode[errorBody](t, w)
			assert.Equal(t, tt.wantCategory, body.Category)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func postContact(env *testEnv, values url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	env.router.ServeHTTP(w, req)
	return w
}

func validContact() url.Values {
	return url.Values{
		"name":    {"Ayesha"},
		"email":   {"ayesha@example.com"},
		"subject": {"Admissions"},
		"message": {"When does the merit list come out?"},
	}
}

func TestContact(t *testing.T) {
	env := newTestEnv(t, true)

	w := postContact(env, validContact())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, contact.SuccessMessage, decode[ContactResponse](t, w).Message)
	require.Len(t, env.delivery.calls, 1)
	assert.Equal(t, "ayesha@example.com", env.delivery.calls[0].Email)

	j := env.postJSON("/api/contact", `{"name":"Bilal","email":"bilal@example.com","message":"Hi"}`)
	require.Equal(t, http.StatusOK, j.Code, j.Body.String())
	assert.Len(t, env.delivery.calls, 2)
}

func TestContactInvalid(t *testing.T) {
	env := newTestEnv(t, true)

	values := validContact()
	values.Set("email", "not-an-email")
	values.Del("message")

	w := postContact(env, values)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errorBody](t, w)
	assert.Equal(t, "validation", body.Category)
	assert.Equal(t, []string{"Please enter a valid email address.", "Please enter your message."}, body.Errors)
	assert.Empty(t, env.delivery.calls)
}

func TestContactDeliveryFailures(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantCategory string
		wantError    string
	}{
		{
			name:         "rejected upstream",
			err:          &contact.RejectedError{Status: 422, Messages: []string{"email should be an email", "message is required"}},
			wantStatus:   http.StatusUnprocessableEntity,
			wantCategory: "rejected",
			wantError:    "email should be an email, message is required",
		},
		{
			name:         "transport failure",
			err:          &contact.TransportError{Status: 500, Err: context.DeadlineExceeded},
			wantStatus:   http.StatusBadGateway,
			wantCategory: "network",
			wantError:    "Oops! There was a problem submitting your form.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, true)
			env.delivery.err = tt.err

			w := postContact(env, validContact())
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			body := decode[errorBody](t, w)
			assert.Equal(t, tt.wantCategory, body.Category)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, 0, env.gate.InFlight())
		})
	}
}

func TestContactInFlight(t *testing.T) {
	env := newTestEnv(t, true)
	env.delivery.block = make(chan struct{})

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- postContact(env, validContact())
	}()

	require.Eventually(t, func() bool { return env.gate.InFlight() == 1 }, 2*time.Second, 5*time.Millisecond)

	w := postContact(env, validContact())
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "conflict", decode[errorBody](t, w).Category)

	close(env.delivery.block)
	assert.Equal(t, http.StatusOK, (<-first).Code)
	assert.Equal(t, 0, env.gate.InFlight())
	assert.Len(t, env.delivery.calls, 1)
}

func TestContactNotConfigured(t *testing.T) {
	env := newTestEnv(t, false)

	w := postContact(env, validContact())
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "configuration", decode[errorBody](t, w).Category)
}

func TestContactEndpointRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := monitoring.NewMetrics()
	limiter := ratelimit.NewRateLimiter(nil, ratelimit.Config{
		IPLimitPerMin:      1000,
		ContactLimitPerMin: 1,
		BurstMultiplier:    1,
	}, metrics)
	t.Cleanup(limiter.Close)

	r, err := NewRouter(Deps{
		Contact: contact.NewService(&stubDelivery{}, nil, nil),
		Limiter: limiter,
		Metrics: metrics,
		Logger:  monitoring.NewLoggerWithWriter(&bytes.Buffer{}, 0),
	})
	require.NoError(t, err)
	env := &testEnv{router: r}

	assert.Equal(t, http.StatusOK, postContact(env, validContact()).Code)
	w := postContact(env, validContact())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestPageAndFallbacks(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="suggest-btn"`)
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	assert.Equal(t, http.StatusNotFound, env.get("/api/unknown").Code)
}

func TestStatsEndpoints(t *testing.T) {
	env := newTestEnv(t, false)
	env.postJSON("/api/calculate", `{"matric":"85","inter":"78","test_score":"64"}`)

	for _, path := range []string{"/metrics", "/cache/stats", "/ratelimit/status"} {
		t.Run(path, func(t *testing.T) {
			w := env.get(path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, json.Valid(w.Body.Bytes()))
		})
	}

	stats := env.metrics.GetStats()
	assert.EqualValues(t, 1, stats["calculations"])
}

func TestSwaggerDoc(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.get("/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/calculate")
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", "POST")
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAssetsCompressed(t *testing.T) {
	env := newTestEnv(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets/app.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Contains(t, string(plain), "Thanks for your submission!")
}
