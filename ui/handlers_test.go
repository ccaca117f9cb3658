package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"insightengine/domain/core"
	"insightengine/internal/analysis"
	"insightengine/internal/config"
	"insightengine/internal/dataset"
	"insightengine/internal/errors"
	"insightengine/ports"
)

type mockAnalysisRepository struct {
	mock.Mock
}

func (m *mockAnalysisRepository) Create(ctx context.Context, record *ports.AnalysisRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockAnalysisRepository) GetByID(ctx context.Context, id core.AnalysisID) (*ports.AnalysisRecord, error) {
	args := m.Called(ctx, id)
	if rec := args.Get(0); rec != nil {
		return rec.(*ports.AnalysisRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalysisRepository) List(ctx context.Context, limit, offset int) ([]*ports.AnalysisRecord, error) {
	args := m.Called(ctx, limit, offset)
	if recs := args.Get(0); recs != nil {
		return recs.([]*ports.AnalysisRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestServer(t *testing.T, repo ports.AnalysisRepository) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", GinMode: "test"},
		Upload: config.UploadConfig{MaxFileSizeMB: 10, StoragePath: t.TempDir(), SampleRows: 100},
	}
	engine := analysis.NewEngine()
	storage := dataset.NewLocalFileStorage(cfg.Upload.StoragePath)
	processor := dataset.NewProcessor(engine, storage, repo, nil, cfg.Upload)
	return NewServer(processor, repo, cfg)
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestHandleAnalyze(t *testing.T) {
	server := newTestServer(t, nil)
	body, contentType := multipartUpload(t, "file", "sales.csv",
		"product,amount\nCoffee,4.5\nPastry,3.0\n")

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var response dataset.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if response.TotalRows != 2 {
		t.Errorf("total rows = %d, want 2", response.TotalRows)
	}
	if response.Statistics == nil {
		t.Error("no statistics in response")
	}
}

func TestHandleAnalyzeMissingFile(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(""))
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without a file field", w.Code)
	}
}

func TestHandleAnalyzeEmptyDataset(t *testing.T) {
	server := newTestServer(t, nil)
	body, contentType := multipartUpload(t, "file", "empty.csv", "a,b\n")

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a header-only file", w.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	if payload["code"] != errors.CodeEmptyDataset {
		t.Errorf("code = %s, want %s", payload["code"], errors.CodeEmptyDataset)
	}
}

func TestHandleListAnalysesWithoutDatabase(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without DATABASE_URL", w.Code)
	}
}

func TestHandleListAnalyses(t *testing.T) {
	repo := &mockAnalysisRepository{}
	repo.On("List", mock.Anything, 20, 0).Return([]*ports.AnalysisRecord{
		{ID: "a1", Filename: "sales.csv", RowCount: 4, CreatedAt: time.Now()},
	}, nil)
	server := newTestServer(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	repo.AssertExpectations(t)
}

func TestHandleGetAnalysisNotFound(t *testing.T) {
	repo := &mockAnalysisRepository{}
	repo.On("GetByID", mock.Anything, core.AnalysisID("missing")).Return(nil, errors.NotFound("analysis"))
	server := newTestServer(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/missing", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleInsightsHTML(t *testing.T) {
	result := json.RawMessage(`{
		"numeric_columns": {"amount": {"mean": 10, "min": 5, "max": 15, "std": 2}},
		"categorical_columns": {},
		"correlations": {},
		"time_patterns": {"source": "fallback"},
		"product_associations": {},
		"anomalies": {},
		"data_quality": {"overall_score": 90, "rating": "Excellent", "column_issues": {}, "missing_values": {}},
		"total_rows": 3
	}`)
	repo := &mockAnalysisRepository{}
	repo.On("GetByID", mock.Anything, core.AnalysisID("a1")).Return(&ports.AnalysisRecord{
		ID: "a1", Filename: "sales.csv", Result: result, CreatedAt: time.Now(),
	}, nil)
	server := newTestServer(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/a1/insights.html", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %s, want text/html", ct)
	}
	if !strings.Contains(w.Body.String(), "<h2>") {
		t.Errorf("body lacks rendered markdown headings:\n%s", w.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid health JSON: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field = %v, want ok", payload["status"])
	}
	if payload["history"] != false {
		t.Errorf("history field = %v, want false without a repository", payload["history"])
	}
}

func TestHandleMetrics(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
