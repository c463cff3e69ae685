package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureai/engine/internal/adapter/agent"
	"github.com/procureai/engine/internal/config"
	"github.com/procureai/engine/internal/domain"
	store "github.com/procureai/engine/internal/repository"
	"github.com/procureai/engine/internal/service"
	"github.com/procureai/engine/policy"
)

func newTestHandler(t *testing.T) (*Handler, *store.SQLiteStore) {
	t.Helper()
	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{AgentTimeout: 2 * time.Second}
	svc := service.New(db, agent.NewMockClient(), engine, cfg, log)
	return NewHandler(svc), db
}

func TestCreateSessionAndSubmit(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateSession(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var session domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.SessionID)

	reqBody, _ := json.Marshal(domain.SubmitRequest{
		Operation: domain.OperationUpload,
		Params:    domain.OperationParams{FilePath: "/docs/sample.pdf", VendorName: "Acme"},
	})
	req = httptest.NewRequest(http.MethodPost, "/v1/sessions/"+session.SessionID+"/submit", bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetPath("/v1/sessions/:session_id/submit")
	c.SetParamNames("session_id")
	c.SetParamValues(session.SessionID)

	require.NoError(t, h.SubmitOperation(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.RunStatusCompleted, result.Run.Status)
	require.NotNil(t, result.Result)
	assert.NotEmpty(t, result.Result.DocumentID)
}

func TestSubmitUnknownSession(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	reqBody, _ := json.Marshal(domain.SubmitRequest{
		Operation: domain.OperationUpload,
		Params:    domain.OperationParams{FilePath: "/docs/sample.pdf"},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess_missing/submit", bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/sessions/:session_id/submit")
	c.SetParamNames("session_id")
	c.SetParamValues("sess_missing")

	require.NoError(t, h.SubmitOperation(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitMissingParameter(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t)

	session := &domain.Session{SessionID: "s1", CreatedAt: time.Now()}
	require.NoError(t, db.CreateSession(context.Background(), session))

	reqBody, _ := json.Marshal(domain.SubmitRequest{Operation: domain.OperationClassify})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/s1/submit", bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/sessions/:session_id/submit")
	c.SetParamNames("session_id")
	c.SetParamValues("s1")

	require.NoError(t, h.SubmitOperation(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDocumentNotFound(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/unknown", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/documents/:document_id")
	c.SetParamNames("document_id")
	c.SetParamValues("unknown")

	require.NoError(t, h.GetDocument(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchDocumentsEmptyResult(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents?query=nothing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SearchDocuments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results     []domain.Document `json:"results"`
		ResultCount int               `json:"result_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.ResultCount)
	assert.NotNil(t, resp.Results)
}

func TestGetDashboard(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t)
	ctx := context.Background()

	for _, docType := range []domain.DocumentType{domain.DocumentTypeContract, domain.DocumentTypeProposal} {
		doc := &domain.Document{
			DocumentID: domain.NewDocumentID(),
			Filename:   "doc.pdf",
			Type:       docType,
			UploadedAt: time.Now(),
			RiskLevel:  domain.RiskLevelUnassessed,
		}
		require.NoError(t, db.CreateDocument(ctx, doc))
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.GetDashboard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 1, stats.DocumentTypes[domain.DocumentTypeContract])
}

func TestListRunsUnknownSession(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/nope/runs", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/sessions/:session_id/runs")
	c.SetParamNames("session_id")
	c.SetParamValues("nope")

	require.NoError(t, h.ListRuns(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
