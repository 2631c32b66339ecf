package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sartorproj/goholtwinters/internal/config"
	"github.com/sartorproj/goholtwinters/internal/metrics"
	"github.com/sartorproj/goholtwinters/internal/store"
	"go.uber.org/zap"
)

const quarterlyBody = `{
	"name": "quarterly",
	"values": [120, 135, 150, 170, 130, 145, 160, 180, 140, 155, 170, 190],
	"season_length": 4,
	"forecast_periods": 4,
	"coefficients": {"alpha1": 0.5, "alpha2": 0.3, "alpha3": 0.2}
}`

type forecastResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SeasonLength  int       `json:"season_length"`
	Levels        []float64 `json:"levels"`
	Seasonalities []float64 `json:"seasonalities"`
	Forecasts     []float64 `json:"forecasts"`
}

func testServer(t *testing.T, withStore bool) *Server {
	t.Helper()

	var repo store.Repository
	if withStore {
		r, err := store.NewSQLiteRepository(filepath.Join(t.TempDir(), "runs.db"))
		if err != nil {
			t.Fatalf("create repository: %v", err)
		}
		t.Cleanup(func() { r.Close() })
		repo = r
	}

	reg := prometheus.NewRegistry()
	return New(config.ServerConfig{Host: "127.0.0.1", Port: 0}, Deps{
		Repo:      repo,
		Recorder:  metrics.NewRecorder(reg),
		Gatherer:  reg,
		Logger:    zap.NewNop(),
		Precision: 2,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateForecast(t *testing.T) {
	s := testServer(t, true)
	h := s.Handler()

	w := do(t, h, http.MethodPost, "/api/v1/forecasts", quarterlyBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("status code = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp forecastResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("Expected run id")
	}
	if loc := w.Header().Get("Location"); loc != "/api/v1/forecasts/"+resp.ID {
		t.Errorf("Location = %q", loc)
	}
	if len(resp.Levels) != 13 || resp.Levels[0] != 143.75 {
		t.Errorf("Unexpected levels: %v", resp.Levels)
	}
	want := []float64{140.39, 157.32, 175.25, 199.82}
	for i := range want {
		if resp.Forecasts[i] != want[i] {
			t.Errorf("forecast[%d] = %v, want %v", i, resp.Forecasts[i], want[i])
		}
	}

	// Round trip through the store.
	w = do(t, h, http.MethodGet, "/api/v1/forecasts/"+resp.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", w.Code, http.StatusOK)
	}
	var got forecastResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != resp.ID || got.Name != "quarterly" || len(got.Seasonalities) != 4 {
		t.Errorf("Unexpected stored run: %+v", got)
	}
}

func TestCreateForecast_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"values": [1, 2`, http.StatusBadRequest},
		{"unknown field", `{"valuez": [1]}`, http.StatusBadRequest},
		{"too short", `{"values": [1, 2, 3], "season_length": 2, "coefficients": {"alpha1": 0.5}}`, http.StatusUnprocessableEntity},
		{"zero season", `{"values": [1, 2, 3, 4], "season_length": 0}`, http.StatusUnprocessableEntity},
		{"negative periods", `{"values": [1, 2, 3, 4], "season_length": 2, "forecast_periods": -1}`, http.StatusUnprocessableEntity},
		{"unknown policy", `{"values": [1, 2, 3, 4], "season_length": 2, "numeric_policy": "ignore"}`, http.StatusUnprocessableEntity},
		{"strict out of range", `{"values": [1, 2, 3, 4], "season_length": 2, "strict": true, "coefficients": {"alpha1": 2}}`, http.StatusUnprocessableEntity},
		{"zero level", `{"values": [0, 0, 0, 0], "season_length": 2}`, http.StatusUnprocessableEntity},
		{"huge periods", `{"values": [1, 2, 3, 4], "season_length": 2, "forecast_periods": 10000000000}`, http.StatusUnprocessableEntity},
	}

	h := testServer(t, false).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/forecasts", tt.body)
			if w.Code != tt.status {
				t.Errorf("status code = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestCreateForecast_Limits(t *testing.T) {
	s := New(config.ServerConfig{MaxObservations: 12, MaxForecastPeriods: 4}, Deps{
		Recorder: metrics.NewRecorder(prometheus.NewRegistry()),
	})
	h := s.Handler()

	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"at limits", quarterlyBody, http.StatusCreated, ""},
		{"too many periods", strings.Replace(quarterlyBody, `"forecast_periods": 4`, `"forecast_periods": 10000000000`, 1),
			http.StatusUnprocessableEntity, "forecast periods exceed the limit of 4"},
		{"too many values", strings.Replace(quarterlyBody, `[120, 135`, `[110, 120, 135`, 1),
			http.StatusUnprocessableEntity, "13 values exceed the limit of 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/forecasts", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status code = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.detail != "" && !strings.Contains(w.Body.String(), tt.detail) {
				t.Errorf("Expected detail %q, got %s", tt.detail, w.Body.String())
			}
		})
	}
}

func TestCreateForecast_PropagateNaN(t *testing.T) {
	h := testServer(t, false).Handler()

	body := `{"values": [1, 2, 3, 4, 1, 2, 3, 4, 0, 2, 3, 4], "season_length": 4, "forecast_periods": 2,
		"coefficients": {"alpha1": 1, "alpha2": 0, "alpha3": 0.5}, "numeric_policy": "propagate"}`
	w := do(t, h, http.MethodPost, "/api/v1/forecasts", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status code = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("null")) {
		t.Errorf("Expected non-finite values encoded as null: %s", w.Body.String())
	}
}

func TestGetForecast_NotFound(t *testing.T) {
	h := testServer(t, true).Handler()

	w := do(t, h, http.MethodGet, "/api/v1/forecasts/missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHistoryDisabled(t *testing.T) {
	h := testServer(t, false).Handler()

	for _, path := range []string{"/api/v1/forecasts", "/api/v1/forecasts/abc"} {
		w := do(t, h, http.MethodGet, path, "")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s: status code = %d, want %d", path, w.Code, http.StatusServiceUnavailable)
		}
	}
}

func TestListForecasts(t *testing.T) {
	h := testServer(t, true).Handler()

	for i := 0; i < 3; i++ {
		if w := do(t, h, http.MethodPost, "/api/v1/forecasts", quarterlyBody); w.Code != http.StatusCreated {
			t.Fatalf("create %d: status code = %d", i, w.Code)
		}
	}

	w := do(t, h, http.MethodGet, "/api/v1/forecasts?limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		Runs []forecastResponse `json:"runs"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Runs) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(resp.Runs))
	}

	if w := do(t, h, http.MethodGet, "/api/v1/forecasts?limit=zero", ""); w.Code != http.StatusBadRequest {
		t.Errorf("invalid limit: status code = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	h := testServer(t, false).Handler()

	w := do(t, h, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "alive") {
		t.Errorf("healthz: %d %s", w.Code, w.Body.String())
	}

	do(t, h, http.MethodPost, "/api/v1/forecasts", quarterlyBody)

	w = do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: status code = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`hw_runs_total{status="ok"} 1`,
		`http_requests_total{method="POST",path="POST /api/v1/forecasts",status="201"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	s := New(config.ServerConfig{RateLimit: 1, RateBurst: 1}, Deps{})
	h := s.Handler()

	if w := do(t, h, http.MethodGet, "/api/v1/forecasts", ""); w.Code == http.StatusTooManyRequests {
		t.Fatal("first request should not be limited")
	}
	if w := do(t, h, http.MethodGet, "/api/v1/forecasts", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	// Operational endpoints are exempt.
	if w := do(t, h, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz status code = %d, want %d", w.Code, http.StatusOK)
	}
}
