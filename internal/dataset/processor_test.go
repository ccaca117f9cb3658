package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"insightengine/domain/core"
	"insightengine/internal/analysis"
	"insightengine/internal/config"
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

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{MaxFileSizeMB: 1, StoragePath: "", SampleRows: 100}
}

func newTestProcessor(t *testing.T, repo ports.AnalysisRepository) *Processor {
	t.Helper()
	cfg := testUploadConfig()
	cfg.StoragePath = t.TempDir()
	return NewProcessor(analysis.NewEngine(), NewLocalFileStorage(cfg.StoragePath), repo, nil, cfg)
}

const sampleCSV = "transaction_id,product,amount\n" +
	"T1,Coffee,4.5\nT1,Pastry,3.0\nT2,Coffee,4.5\nT3,Juice,5.0\n"

func TestProcessUpload(t *testing.T) {
	processor := newTestProcessor(t, nil)

	response, err := processor.ProcessUpload(context.Background(), strings.NewReader(sampleCSV), "sales.csv", int64(len(sampleCSV)))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if response.TotalRows != 4 {
		t.Errorf("total rows = %d, want 4", response.TotalRows)
	}
	if len(response.Data) != 4 {
		t.Errorf("data sample = %d rows, want all 4", len(response.Data))
	}
	if len(response.Columns) != 3 || response.Columns[1] != "product" {
		t.Errorf("columns = %v, want schema order", response.Columns)
	}
	if response.Statistics == nil {
		t.Fatal("no statistics in response")
	}
	if response.Insights == "" {
		t.Error("no insight text in response")
	}
	if response.AnalysisID != "" {
		t.Errorf("analysis id = %q, want empty without a repository", response.AnalysisID)
	}
}

func TestProcessUploadCapsDataSample(t *testing.T) {
	var b strings.Builder
	b.WriteString("amount\n")
	for i := 0; i < 150; i++ {
		b.WriteString("10\n")
	}
	processor := newTestProcessor(t, nil)

	response, err := processor.ProcessUpload(context.Background(), strings.NewReader(b.String()), "big.csv", int64(b.Len()))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if len(response.Data) != 100 {
		t.Errorf("data sample = %d rows, want cap of 100", len(response.Data))
	}
	if response.TotalRows != 150 {
		t.Errorf("total rows = %d, want the uncapped 150", response.TotalRows)
	}
}

func TestProcessUploadEmptyDataset(t *testing.T) {
	processor := newTestProcessor(t, nil)

	_, err := processor.ProcessUpload(context.Background(), strings.NewReader("a,b\n"), "empty.csv", 4)
	if err == nil {
		t.Fatal("expected an error for a header-only file")
	}
	if errors.GetCode(err) != errors.CodeEmptyDataset {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.CodeEmptyDataset)
	}
}

func TestProcessUploadRejectsUnsupportedExtension(t *testing.T) {
	processor := newTestProcessor(t, nil)

	_, err := processor.ProcessUpload(context.Background(), strings.NewReader("{}"), "data.json", 2)
	if err == nil {
		t.Fatal("expected an error for unsupported extension")
	}
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.CodeInvalidInput)
	}
}

func TestProcessUploadRejectsOversizedFile(t *testing.T) {
	processor := newTestProcessor(t, nil)

	_, err := processor.ProcessUpload(context.Background(), strings.NewReader("a\n1\n"), "huge.csv", 2<<20)
	if err == nil {
		t.Fatal("expected an error for an oversized file")
	}
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.CodeInvalidInput)
	}
}

func TestProcessUploadPersists(t *testing.T) {
	repo := &mockAnalysisRepository{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(record *ports.AnalysisRecord) bool {
		return record.Filename == "sales.csv" && record.RowCount == 4 && record.ColumnCount == 3
	})).Return(nil)
	processor := newTestProcessor(t, repo)

	response, err := processor.ProcessUpload(context.Background(), strings.NewReader(sampleCSV), "sales.csv", int64(len(sampleCSV)))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if response.AnalysisID == "" {
		t.Error("no analysis id despite successful persistence")
	}
	repo.AssertExpectations(t)
}

func TestProcessUploadSurvivesRepositoryFailure(t *testing.T) {
	repo := &mockAnalysisRepository{}
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.DatabaseError("insert failed"))
	processor := newTestProcessor(t, repo)

	response, err := processor.ProcessUpload(context.Background(), strings.NewReader(sampleCSV), "sales.csv", int64(len(sampleCSV)))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if response.AnalysisID != "" {
		t.Errorf("analysis id = %q, want empty when persistence fails", response.AnalysisID)
	}
	if response.Statistics == nil {
		t.Error("statistics missing despite analysis success")
	}
}
