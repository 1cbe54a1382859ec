package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/domain/vuln"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/service/scoring"
)

// stubSource serves a single fixed vulnerability.
type stubSource struct {
	id      string
	summary string
	signals vuln.RawSignals
	err     error
}

func (s *stubSource) GetBasic(_ context.Context, id string) (*vuln.Vulnerability, error) {
	if s.err != nil {
		return nil, s.err
	}
	if id != s.id {
		return nil, vuln.ErrNotFound
	}
	return &vuln.Vulnerability{ID: s.id, Summary: s.summary}, nil
}

func (s *stubSource) GetSignals(_ context.Context, id, _ string) (*vuln.RawSignals, error) {
	if s.err != nil {
		return nil, s.err
	}
	if id != s.id {
		return nil, vuln.ErrNotFound
	}
	row := s.signals
	row.ID = s.id
	return &row, nil
}

func (s *stubSource) ListCandidates(_ context.Context, _ vuln.CandidateQuery) ([]vuln.RawSignals, error) {
	if s.err != nil {
		return nil, s.err
	}
	row := s.signals
	row.ID = s.id
	return []vuln.RawSignals{row}, nil
}

func (s *stubSource) GetTimestamps(_ context.Context, id string) (*vuln.Timestamps, error) {
	if s.err != nil {
		return nil, s.err
	}
	if id != s.id {
		return nil, vuln.ErrNotFound
	}
	return &vuln.Timestamps{Published: s.signals.Published, LastModified: s.signals.LastModified}, nil
}

func newTestRouter(t *testing.T, source vuln.SignalSource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scorer, err := scoring.NewService(source, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	h := NewCVEHandler(scorer)

	engine := gin.New()
	cve := engine.Group("/api/v1/cve/:id")
	cve.GET("/basic", h.Basic)
	cve.GET("/scores", h.Scores)
	cve.GET("/stats", h.Stats)
	cve.GET("/timeline", h.Timeline)
	cve.POST("/summary", h.Summary)
	cve.POST("/recommendations", h.Recommendations)
	return engine
}

func testSource() *stubSource {
	cvss := 9.8
	epss := 0.93
	published := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return &stubSource{
		id:      "CVE-2024-1234",
		summary: "Remote code execution in example.",
		signals: vuln.RawSignals{
			CVSSScore:    &cvss,
			EPSS:         &epss,
			Published:    &published,
			LastModified: &modified,
		},
	}
}

func doRequest(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestCVEHandler(t *testing.T) {
	t.Run("basic returns envelope with data", func(t *testing.T) {
		engine := newTestRouter(t, testSource())
		w := doRequest(engine, http.MethodGet, "/api/v1/cve/CVE-2024-1234/basic")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var body struct {
			Data vuln.Vulnerability `json:"data"`
			Meta struct {
				RequestID string `json:"request_id"`
			} `json:"meta"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Data.ID != "CVE-2024-1234" {
			t.Errorf("data.cve = %q", body.Data.ID)
		}
	})

	t.Run("lowercase id is normalized", func(t *testing.T) {
		engine := newTestRouter(t, testSource())
		w := doRequest(engine, http.MethodGet, "/api/v1/cve/cve-2024-1234/basic")

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("malformed id returns 400 INVALID_PARAMETER", func(t *testing.T) {
		engine := newTestRouter(t, testSource())
		w := doRequest(engine, http.MethodGet, "/api/v1/cve/not-a-cve/basic")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		assertErrorCode(t, w, "INVALID_PARAMETER")
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		engine := newTestRouter(t, testSource())
		w := doRequest(engine, http.MethodGet, "/api/v1/cve/CVE-1999-0001/basic")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
		assertErrorCode(t, w, "NOT_FOUND")
	})

	t.Run("backend failure returns 503", func(t *testing.T) {
		src := testSource()
		src.err = vuln.ErrBackendUnavailable
		engine := newTestRouter(t, src)
		w := doRequest(engine, http.MethodGet, "/api/v1/cve/CVE-2024-1234/basic")

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", w.Code)
		}
		assertErrorCode(t, w, "SIGNAL_SOURCE_UNAVAILABLE")
	})

	t.Run("scores carries window and labels", func(t *testing.T) {
		engine := newTestRouter(t, testSource())
		w := doRequest(engine, http.MethodGet, "/api/v1/cve/CVE-2024-1234/scores?window=30d")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var body struct {
			Data ScoresPayload `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Data.Window != "30d" {
			t.Errorf("window = %q, want 30d", body.Data.Window)
		}
		if body.Data.Labels.Severity != "critical" {
			t.Errorf("severity label = %q", body.Data.Labels.Severity)
		}
		if body.Data.Overall <= 0 {
			t.Errorf("overall = %v, want > 0", body.Data.Overall)
		}
	})

	t.Run("invalid window returns 400", func(t *testing.T) {
		engine := newTestRouter(t, testSource())
		w := doRequest(engine, http.MethodGet, "/api/v1/cve/CVE-2024-1234/scores?window=7x")

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("stats checks existence", func(t *testing.T) {
		engine := newTestRouter(t, testSource())

		if w := doRequest(engine, http.MethodGet, "/api/v1/cve/CVE-2024-1234/stats"); w.Code != http.StatusOK {
			t.Errorf("known id status = %d, want 200", w.Code)
		}
		if w := doRequest(engine, http.MethodGet, "/api/v1/cve/CVE-1999-0001/stats"); w.Code != http.StatusNotFound {
			t.Errorf("unknown id status = %d, want 404", w.Code)
		}
	})

	t.Run("timeline lists present dates", func(t *testing.T) {
		engine := newTestRouter(t, testSource())
		w := doRequest(engine, http.MethodGet, "/api/v1/cve/CVE-2024-1234/timeline")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var body struct {
			Data []vuln.TimelineEvent `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body.Data) != 2 {
			t.Errorf("events = %d, want 2", len(body.Data))
		}
	})

	t.Run("recommendations fire urgent_patch for critical severity", func(t *testing.T) {
		engine := newTestRouter(t, testSource())
		w := doRequest(engine, http.MethodPost, "/api/v1/cve/CVE-2024-1234/recommendations")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var body struct {
			Data []vuln.Recommendation `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body.Data) == 0 || body.Data[0].Type != "urgent_patch" {
			t.Errorf("recommendations = %+v, want urgent_patch first", body.Data)
		}
	})
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != want {
		t.Errorf("error code = %q, want %q", body.Error.Code, want)
	}
}
