// handlers_test.go

package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduparser/edu_parser_gemini/configs"
	"github.com/eduparser/edu_parser_gemini/internal/records"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	configs.LoadConfig()
	configs.UPLOAD_DIR = t.TempDir()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	server := NewServer(nil)
	server.RegisterRoutes(router)
	return router, server
}

func multipartBody(t *testing.T, files map[string]struct{ name, content string }) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, f := range files {
		part, err := writer.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, false, resp["ai_enabled"])
}

func TestParseDocumentWithoutProvider(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse-document", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMergeRecordsHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string]struct{ name, content string }{
		"employee_file": {
			"roster.csv",
			"CNIC,EMPLOYEE_NUMBER,FULL_NAME\n12345-1234567-1,E1,Sheharyar   .\n67890-1234567-2,E2,Muhammad Shoaib Khan\n",
		},
		"education_file": {
			"education.csv",
			"Name,School\nSHEHARYAR,IQRA UNIVERSITY\nRaheel Khan,FBISE\n",
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/merge-records", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Status string `json:"status"`
		Stats  struct {
			Total        int  `json:"total"`
			ExactMatched int  `json:"exact_matched"`
			Unmatched    int  `json:"unmatched"`
			AISkipped    bool `json:"ai_skipped"`
		} `json:"stats"`
		Records []records.EducationRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 2, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.ExactMatched)
	assert.Equal(t, 1, resp.Stats.Unmatched)
	assert.True(t, resp.Stats.AISkipped)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "12345-1234567-1", resp.Records[0].MatchedCNIC)
}

func TestMergeRecordsMissingColumns(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string]struct{ name, content string }{
		"employee_file":  {"roster.csv", "CNIC,FULL_NAME\nc1,Ali Khan\n"},
		"education_file": {"education.csv", "Name\nAli Khan\n"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/merge-records", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["missing_columns"], "EMPLOYEE_NUMBER")
}

func TestMergeRecordsNoInputs(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/merge-records", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStandardizeSchoolsHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string]struct{ name, content string }{
		"education_file": {
			"education.csv",
			"Name,School\nAli Khan,\"Federal Board, Islamabad\"\nRaheel Khan,Hogwarts\n",
		},
		"reference_file": {
			"schools.csv",
			"School\n\"FBISE, Islamabad\"\nIQRA UNIVERSITY\n",
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/standardize-schools", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Stats struct {
			TotalSchools  int      `json:"total_schools"`
			UpdatedCount  int      `json:"updated_count"`
			NotFoundCount int      `json:"not_found_count"`
			NotFoundList  []string `json:"not_found_list"`
		} `json:"stats"`
		Records []records.EducationRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Stats.TotalSchools)
	assert.Equal(t, 1, resp.Stats.UpdatedCount)
	assert.Equal(t, []string{"Hogwarts"}, resp.Stats.NotFoundList)
	assert.Equal(t, "FBISE, Islamabad", resp.Records[0].School)
}

func TestExportOracleHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string]struct{ name, content string }{
		"education_file": {
			"education.csv",
			"Name,School\nAli Khan,IQRA UNIVERSITY\n",
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/export-oracle", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "oracle_loader_")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestClearResultsHandler(t *testing.T) {
	router, server := newTestRouter(t)

	server.results.AddEducation([]records.EducationRecord{{Name: "A"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clear-results", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, server.results.EducationSnapshot())
}
