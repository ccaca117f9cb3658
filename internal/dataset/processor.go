package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domainAnalysis "insightengine/domain/analysis"
	"insightengine/domain/core"
	domainDataset "insightengine/domain/dataset"
	"insightengine/internal"
	"insightengine/internal/analysis"
	"insightengine/internal/config"
	"insightengine/internal/errors"
	"insightengine/internal/insights"
	"insightengine/internal/metrics"
	"insightengine/ports"
)

// Narrator produces narrative text from an analysis result. Implementations
// may fail; the processor always has the templated text to fall back on.
type Narrator interface {
	Narrative(ctx context.Context, result *domainAnalysis.Result) (string, error)
}

// AnalyzeResponse is the upload endpoint's payload: a capped sample of the
// parsed rows, the schema, narrative insights, and the full statistics.
type AnalyzeResponse struct {
	AnalysisID string                     `json:"analysis_id,omitempty"`
	Data       []map[string]interface{}   `json:"data"`
	Columns    []string                   `json:"columns"`
	Insights   string                     `json:"insights"`
	Statistics *domainAnalysis.Result     `json:"statistics"`
	TotalRows  int                        `json:"total_rows"`
}

// Processor runs the upload pipeline: validate, store, parse, analyze,
// narrate, and optionally persist.
type Processor struct {
	engine   *analysis.Engine
	storage  FileStorage
	repo     ports.AnalysisRepository // nil disables history
	narrator Narrator                 // nil disables LLM narratives
	cfg      config.UploadConfig
	logger   *internal.Logger
}

// NewProcessor wires the upload pipeline. repo and narrator are optional.
func NewProcessor(engine *analysis.Engine, storage FileStorage, repo ports.AnalysisRepository, narrator Narrator, cfg config.UploadConfig) *Processor {
	return &Processor{
		engine:   engine,
		storage:  storage,
		repo:     repo,
		narrator: narrator,
		cfg:      cfg,
		logger:   internal.DefaultLogger,
	}
}

// ProcessUpload validates and analyzes one uploaded file. The content is
// buffered once, then stored and parsed concurrently.
func (p *Processor) ProcessUpload(ctx context.Context, content io.Reader, filename string, size int64) (*AnalyzeResponse, error) {
	start := time.Now()

	if err := p.validate(filename, size); err != nil {
		metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	raw, err := io.ReadAll(io.LimitReader(content, p.maxBytes()+1))
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if int64(len(raw)) > p.maxBytes() {
		metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
		return nil, errors.InvalidInput(fmt.Sprintf("file exceeds the %dMB upload limit", p.cfg.MaxFileSizeMB))
	}

	if err := checkContent(raw, filename); err != nil {
		metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	var table *domainDataset.Table
	var storedPath string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path, err := p.storage.Store(gctx, bytes.NewReader(raw), filename)
		if err != nil {
			return errors.Wrap(err, "failed to store upload")
		}
		storedPath = path
		return nil
	})
	g.Go(func() error {
		parsed, err := p.parse(raw, filename)
		if err != nil {
			return err
		}
		table = parsed
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	p.logger.Debug("[processor] stored %s, parsed %d rows x %d columns",
		storedPath, table.RowCount(), table.ColumnCount())

	result, err := p.engine.Analyze(table)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	response := &AnalyzeResponse{
		Data:       SampleRows(table, p.cfg.SampleRows),
		Columns:    ColumnNames(table),
		Insights:   p.narrate(ctx, result),
		Statistics: result,
		TotalRows:  result.TotalRows,
	}

	if p.repo != nil {
		if id, err := p.persist(ctx, filename, table, result); err != nil {
			// History is best-effort; the analysis itself already succeeded.
			p.logger.Warn("[processor] failed to persist analysis: %v", err)
		} else {
			response.AnalysisID = string(id)
		}
	}

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	metrics.AnalyzedRowsTotal.Add(float64(result.TotalRows))
	metrics.QualityScore.Observe(float64(result.DataQuality.OverallScore))

	p.logger.Info("[processor] analyzed %s (%d rows) in %.2fms",
		filename, result.TotalRows, float64(time.Since(start).Nanoseconds())/1e6)
	return response, nil
}

func (p *Processor) validate(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" && ext != ".xlsx" {
		return errors.InvalidInput(fmt.Sprintf("unsupported file type %q, expected .csv or .xlsx", ext))
	}
	if size > 0 && size > p.maxBytes() {
		return errors.InvalidInput(fmt.Sprintf("file exceeds the %dMB upload limit", p.cfg.MaxFileSizeMB))
	}
	return nil
}

func (p *Processor) maxBytes() int64 {
	return int64(p.cfg.MaxFileSizeMB) * 1024 * 1024
}

// checkContent rejects uploads whose bytes contradict their extension: an
// .xlsx must be a zip container, a .csv must not be one.
func checkContent(raw []byte, filename string) error {
	isZip := len(raw) >= 2 && raw[0] == 'P' && raw[1] == 'K'
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		if !isZip {
			return errors.InvalidInput("file is not a valid Excel workbook")
		}
	case ".csv":
		if isZip {
			return errors.InvalidInput("file looks like an archive, not CSV text")
		}
	}
	return nil
}

func (p *Processor) parse(raw []byte, filename string) (*domainDataset.Table, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".xlsx" {
		return ReadXLSX(bytes.NewReader(raw))
	}
	return ReadCSV(bytes.NewReader(raw))
}

// narrate prefers the LLM narrative and falls back to templated text on any
// failure.
func (p *Processor) narrate(ctx context.Context, result *domainAnalysis.Result) string {
	basic := insights.Generate(result)
	if p.narrator == nil {
		return basic
	}
	text, err := p.narrator.Narrative(ctx, result)
	if err != nil {
		p.logger.Warn("[processor] narrative generation failed, using templated insights: %v", err)
		return basic
	}
	return text
}

func (p *Processor) persist(ctx context.Context, filename string, table *domainDataset.Table, result *domainAnalysis.Result) (core.AnalysisID, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode analysis result")
	}
	record := &ports.AnalysisRecord{
		ID:            core.AnalysisID(core.NewID()),
		Filename:      filename,
		RowCount:      table.RowCount(),
		ColumnCount:   table.ColumnCount(),
		QualityScore:  result.DataQuality.OverallScore,
		QualityRating: string(result.DataQuality.Rating),
		Result:        payload,
		CreatedAt:     time.Now().UTC(),
	}
	if err := p.repo.Create(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}
