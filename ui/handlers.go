package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	domainAnalysis "insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/internal/errors"
	"insightengine/internal/insights"
	"insightengine/ports"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// handleAnalyze accepts a multipart CSV or XLSX upload under the "file"
// field and returns the full analysis payload.
func (s *Server) handleAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided, expected multipart field \"file\""})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	response, err := s.processor.ProcessUpload(c.Request.Context(), file, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		s.logger.Warn("[server] analyze %s failed: %v", fileHeader.Filename, err)
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// handleListAnalyses returns persisted analyses newest-first. Without a
// configured database the history surface reports unavailable.
func (s *Server) handleListAnalyses(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis history is disabled, set DATABASE_URL to enable it"})
		return
	}

	limit := parseQueryInt(c, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := parseQueryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	records, err := s.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records, "count": len(records)})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	record, ok := s.fetchRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

// handleInsightsHTML re-derives the templated insight text from a persisted
// result and renders it as a standalone HTML page.
func (s *Server) handleInsightsHTML(c *gin.Context) {
	record, ok := s.fetchRecord(c)
	if !ok {
		return
	}

	var result domainAnalysis.Result
	if err := json.Unmarshal(record.Result, &result); err != nil {
		s.writeError(c, errors.Wrap(err, "failed to decode stored analysis result"))
		return
	}

	md := []byte(insights.Generate(&result))
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML(md, p, renderer)

	page := fmt.Sprintf("<!DOCTYPE html><html><head><title>Insights: %s</title></head><body>%s</body></html>",
		record.Filename, body)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) fetchRecord(c *gin.Context) (record *ports.AnalysisRecord, ok bool) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis history is disabled, set DATABASE_URL to enable it"})
		return nil, false
	}
	id := core.AnalysisID(c.Param("id"))
	record, err := s.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return record, true
}

// writeError maps AppError codes onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeEmptyDataset, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeDatabaseError:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}

func parseQueryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
