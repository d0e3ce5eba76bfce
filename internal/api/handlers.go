// handlers.go - HTTP handlers for extraction, merging, standardization and export

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eduparser/edu_parser_gemini/configs"
	"github.com/eduparser/edu_parser_gemini/internal/ai"
	"github.com/eduparser/edu_parser_gemini/internal/common"
	"github.com/eduparser/edu_parser_gemini/internal/export"
	"github.com/eduparser/edu_parser_gemini/internal/matching"
	"github.com/eduparser/edu_parser_gemini/internal/processor"
	"github.com/eduparser/edu_parser_gemini/internal/records"
	"github.com/eduparser/edu_parser_gemini/internal/standardize"
	"github.com/eduparser/edu_parser_gemini/internal/storage"
)

// Server wires the handlers to the AI provider and the session accumulator.
// extractor and matcher stay nil when no API key is configured; the affected
// endpoints then degrade instead of failing.
type Server struct {
	extractor ai.DocumentExtractor
	matcher   matching.NameMatcher
	results   *storage.ResultAccumulator
}

// NewServer builds the handler set. provider may be nil.
func NewServer(provider *ai.GeminiProvider) *Server {
	s := &Server{results: storage.NewResultAccumulator()}
	if provider != nil {
		s.extractor = provider
		s.matcher = provider
	}
	return s
}

// RegisterRoutes mounts all API routes on the router.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", s.HealthHandler)

	v1 := router.Group("/api/v1")
	v1.POST("/parse-document", s.ParseDocumentHandler)
	v1.POST("/parse-cv", s.ParseCVHandler)
	v1.POST("/merge-records", s.MergeRecordsHandler)
	v1.POST("/standardize-schools", s.StandardizeSchoolsHandler)
	v1.POST("/export-oracle", s.ExportOracleHandler)
	v1.POST("/clear-results", s.ClearResultsHandler)
}

// HealthHandler reports service status and which optional backends are up.
func (s *Server) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       "edu-parser-gemini",
		"version":       "1.0.0",
		"ai_enabled":    s.extractor != nil,
		"mongo_enabled": storage.Available(),
	})
}

// saveUpload writes one multipart file field to the upload directory under a
// unique name, preserving the extension. The caller must invoke cleanup.
func saveUpload(c *gin.Context, field string) (string, func(), error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil, err
	}

	ext := filepath.Ext(file.Filename)
	path := filepath.Join(configs.UPLOAD_DIR, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", nil, fmt.Errorf("failed to save upload: %w", err)
	}
	cleanup := func() { os.Remove(path) }
	return path, cleanup, nil
}

// ParseDocumentHandler handles POST /api/v1/parse-document. It extracts
// education records from one certificate image and adds them to the session
// accumulator.
func (s *Server) ParseDocumentHandler(c *gin.Context) {
	if s.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "document extraction disabled: no Gemini API key configured",
		})
		return
	}

	reqCtx := common.NewRequestContext()

	reqCtx.StartStep("save_upload")
	imagePath, cleanup, err := saveUpload(c, "file")
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "file field is required",
			"details":    err.Error(),
			"request_id": reqCtx.RequestID,
		})
		return
	}
	defer cleanup()
	reqCtx.EndStep("success", nil, nil)

	reqCtx.StartStep("preprocess_image")
	processedPath, err := processor.PreprocessImage(imagePath)
	if err != nil {
		// Extraction still has a chance on the raw image.
		reqCtx.EndStep("failed", nil, err)
		processedPath = imagePath
	} else {
		reqCtx.EndStep("success", nil, nil)
		if processedPath != imagePath {
			defer os.Remove(processedPath)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(configs.EXTRACTION_TIMEOUT)*time.Second)
	defer cancel()

	reqCtx.StartStep("extract_education")
	recs, usage, err := s.extractor.ExtractEducation(ctx, processedPath, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", usage, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "extraction failed",
			"details":    err.Error(),
			"request_id": reqCtx.RequestID,
		})
		return
	}
	reqCtx.EndStep("success", usage, nil)

	s.results.AddEducation(recs)

	c.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"records":           recs,
		"count":             len(recs),
		"accumulated_total": len(s.results.EducationSnapshot()),
		"summary":           reqCtx.GetSummary(),
	})
}

// ParseCVHandler handles POST /api/v1/parse-cv. It extracts work-experience
// records from one CV page image.
func (s *Server) ParseCVHandler(c *gin.Context) {
	if s.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "document extraction disabled: no Gemini API key configured",
		})
		return
	}

	reqCtx := common.NewRequestContext()

	reqCtx.StartStep("save_upload")
	imagePath, cleanup, err := saveUpload(c, "file")
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "file field is required",
			"details":    err.Error(),
			"request_id": reqCtx.RequestID,
		})
		return
	}
	defer cleanup()
	reqCtx.EndStep("success", nil, nil)

	reqCtx.StartStep("preprocess_image")
	processedPath, err := processor.PreprocessImage(imagePath)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		processedPath = imagePath
	} else {
		reqCtx.EndStep("success", nil, nil)
		if processedPath != imagePath {
			defer os.Remove(processedPath)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(configs.EXTRACTION_TIMEOUT)*time.Second)
	defer cancel()

	reqCtx.StartStep("extract_experience")
	recs, usage, err := s.extractor.ExtractExperience(ctx, processedPath, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", usage, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "extraction failed",
			"details":    err.Error(),
			"request_id": reqCtx.RequestID,
		})
		return
	}
	reqCtx.EndStep("success", usage, nil)

	s.results.AddExperience(recs)

	c.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"records":           recs,
		"count":             len(recs),
		"accumulated_total": len(s.results.ExperienceSnapshot()),
		"summary":           reqCtx.GetSummary(),
	})
}

// loadEmployeeSource resolves the employee roster for a merge request: an
// uploaded employee_file wins, otherwise the MongoDB roster is used.
func (s *Server) loadEmployeeSource(c *gin.Context, reqCtx *common.RequestContext) ([]records.EmployeeRecord, error) {
	file, err := c.FormFile("employee_file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open employee file: %w", err)
		}
		defer f.Close()
		return records.LoadEmployees(f, file.Filename)
	}

	if storage.Available() {
		cache, err := storage.GetOrLoadMasterData(c.Request.Context())
		if err != nil {
			return nil, fmt.Errorf("failed to load employee roster: %w", err)
		}
		reqCtx.LogInfo("using MongoDB roster (%d employees)", len(cache.Employees))
		return cache.Employees, nil
	}

	return nil, errors.New("employee_file is required when no master-data source is configured")
}

// loadEducationSource resolves the education records for a request: an
// uploaded education_file wins, otherwise the session accumulator is used.
func (s *Server) loadEducationSource(c *gin.Context) ([]records.EducationRecord, error) {
	file, err := c.FormFile("education_file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open education file: %w", err)
		}
		defer f.Close()
		return records.LoadEducation(f, file.Filename)
	}

	recs := s.results.EducationSnapshot()
	if len(recs) == 0 {
		return nil, errors.New("education_file is required when no extraction results are accumulated")
	}
	return recs, nil
}

// MergeRecordsHandler handles POST /api/v1/merge-records. It joins education
// records with the employee roster through the three matching tiers.
func (s *Server) MergeRecordsHandler(c *gin.Context) {
	reqCtx := common.NewRequestContext()

	reqCtx.StartStep("load_inputs")
	employees, err := s.loadEmployeeSource(c, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		respondLoadError(c, reqCtx, err)
		return
	}
	eduRecs, err := s.loadEducationSource(c)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		respondLoadError(c, reqCtx, err)
		return
	}
	reqCtx.LogInfo("merging %d education records against %d employees", len(eduRecs), len(employees))
	reqCtx.EndStep("success", nil, nil)

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(configs.AI_MATCH_TIMEOUT)*time.Second)
	defer cancel()

	reqCtx.StartStep("merge_records")
	merged, stats := matching.Merge(ctx, eduRecs, employees, s.matcher, matching.Options{
		FuzzyThreshold: configs.FUZZY_MATCH_THRESHOLD,
		AIBatchSize:    configs.AI_BATCH_SIZE,
		AIBatchDelayMS: configs.AI_BATCH_DELAY_MS,
	}, reqCtx)
	reqCtx.EndStep("success", nil, nil)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"records": merged,
		"stats":   stats,
		"summary": reqCtx.GetSummary(),
	})
}

// loadReferenceSchools resolves the canonical school vocabulary: an uploaded
// reference_file wins, otherwise the MongoDB school list is used.
func loadReferenceSchools(c *gin.Context) ([]string, error) {
	file, err := c.FormFile("reference_file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open reference file: %w", err)
		}
		defer f.Close()
		return records.LoadReferenceSchools(f, file.Filename)
	}

	if storage.Available() {
		cache, err := storage.GetOrLoadMasterData(c.Request.Context())
		if err != nil {
			return nil, fmt.Errorf("failed to load reference schools: %w", err)
		}
		return cache.ReferenceSchools, nil
	}

	return nil, errors.New("reference_file is required when no master-data source is configured")
}

// StandardizeSchoolsHandler handles POST /api/v1/standardize-schools. It
// rewrites school names to their canonical reference spelling.
func (s *Server) StandardizeSchoolsHandler(c *gin.Context) {
	reqCtx := common.NewRequestContext()

	reqCtx.StartStep("load_inputs")
	eduRecs, err := s.loadEducationSource(c)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		respondLoadError(c, reqCtx, err)
		return
	}
	refs, err := loadReferenceSchools(c)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		respondLoadError(c, reqCtx, err)
		return
	}
	if len(refs) == 0 {
		reqCtx.EndStep("failed", nil, errors.New("reference school list is empty"))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "reference school list is empty",
			"request_id": reqCtx.RequestID,
		})
		return
	}
	reqCtx.LogInfo("standardizing %d records against %d reference schools", len(eduRecs), len(refs))
	reqCtx.EndStep("success", nil, nil)

	reqCtx.StartStep("standardize_schools")
	std := standardize.New(refs, configs.SCHOOL_MATCH_THRESHOLD)
	updated, stats := std.StandardizeRecords(eduRecs)
	reqCtx.EndStep("success", nil, nil)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"records": updated,
		"stats":   stats,
		"summary": reqCtx.GetSummary(),
	})
}

// ExportOracleHandler handles POST /api/v1/export-oracle. It renders merged
// education records as an Oracle loader workbook and streams it back.
func (s *Server) ExportOracleHandler(c *gin.Context) {
	reqCtx := common.NewRequestContext()

	reqCtx.StartStep("load_inputs")
	eduRecs, err := s.loadEducationSource(c)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		respondLoadError(c, reqCtx, err)
		return
	}
	reqCtx.EndStep("success", nil, nil)

	reqCtx.StartStep("build_workbook")
	buf, err := export.WriteOracleWorkbook(eduRecs)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "export failed",
			"details":    err.Error(),
			"request_id": reqCtx.RequestID,
		})
		return
	}
	reqCtx.EndStep("success", nil, nil)
	reqCtx.GetSummary()

	filename := fmt.Sprintf("oracle_loader_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ClearResultsHandler handles POST /api/v1/clear-results. It discards the
// accumulated extraction results so a new batch can start clean.
func (s *Server) ClearResultsHandler(c *gin.Context) {
	s.results.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// respondLoadError maps input loading failures to the right status code.
// Missing-column errors are client errors with the column detail spelled out.
func respondLoadError(c *gin.Context, reqCtx *common.RequestContext, err error) {
	var missingErr *records.MissingColumnsError
	if errors.As(err, &missingErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "missing required columns",
			"missing_columns":   missingErr.Missing,
			"available_columns": missingErr.Available,
			"request_id":        reqCtx.RequestID,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      err.Error(),
		"request_id": reqCtx.RequestID,
	})
}
