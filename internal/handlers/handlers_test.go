package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/dto"
	"github.com/Jonatasvm/backendGB/internal/handlers"
	"github.com/Jonatasvm/backendGB/internal/middleware"
	"github.com/Jonatasvm/backendGB/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/posthog/posthog-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) GetEntry(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ListCollapsed(ctx context.Context, params dto.ListEntriesParams) ([]domain.CollapsedEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollapsedEntry), args.Error(1)
}

func (m *MockLedgerService) SearchPayees(ctx context.Context, query string) ([]domain.PayeeSuggestion, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayeeSuggestion), args.Error(1)
}

func (m *MockLedgerService) ListPayees(ctx context.Context) ([]domain.PayeeSuggestion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayeeSuggestion), args.Error(1)
}

func (m *MockLedgerService) UpdateEntry(ctx context.Context, entryID int64, req dto.UpdateEntryRequest, requestingUserID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) DeleteEntry(ctx context.Context, entryID int64, requestingUserID string) error {
	args := m.Called(ctx, entryID, requestingUserID)
	return args.Error(0)
}

func (m *MockLedgerService) AttachFiles(ctx context.Context, entryID int64, files []domain.UploadFile, requestingUserID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, files, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

// --- Mock StatusService ---
type MockStatusService struct {
	mock.Mock
}

var _ portssvc.StatusSvcFacade = (*MockStatusService)(nil)

func (m *MockStatusService) ToggleStatus(ctx context.Context, entryID int64, rawStatus string, requestingUserID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, rawStatus, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

// --- Mock ExportService ---
type MockExportService struct {
	mock.Mock
}

var _ portssvc.ExportSvcFacade = (*MockExportService)(nil)

func (m *MockExportService) ExportAndPost(ctx context.Context, req dto.ExportRequest, requestingUserID string) (*domain.ExportArtifact, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportArtifact), args.Error(1)
}

func (m *MockExportService) Preview(ctx context.Context, req dto.ExportRequest) (*domain.ExportArtifact, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportArtifact), args.Error(1)
}

func (m *MockExportService) ExportRaw(ctx context.Context, req dto.RawExportRequest) (*domain.ExportArtifact, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportArtifact), args.Error(1)
}

// --- Mock ExportHistoryService ---
type MockExportHistoryService struct {
	mock.Mock
}

var _ portssvc.ExportHistorySvcFacade = (*MockExportHistoryService)(nil)

func (m *MockExportHistoryService) RegisterBatch(ctx context.Context, requestedBy string, entryIDs []int64) (int64, error) {
	args := m.Called(ctx, requestedBy, entryIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExportHistoryService) RegisterBatchTx(ctx context.Context, tx pgx.Tx, requestedBy string, entryIDs []int64) (int64, error) {
	args := m.Called(ctx, tx, requestedBy, entryIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExportHistoryService) ListBatches(ctx context.Context) ([]domain.ExportBatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExportBatch), args.Error(1)
}

func (m *MockExportHistoryService) ItemsOf(ctx context.Context, batchID int64) ([]int64, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// --- Test Suite ---
// recordingPosthog captures enqueued analytics messages.
type recordingPosthog struct {
	posthog.Client
	captured []posthog.Capture
}

func (r *recordingPosthog) Enqueue(msg posthog.Message) error {
	if capture, ok := msg.(posthog.Capture); ok {
		r.captured = append(r.captured, capture)
	}
	return nil
}

func (r *recordingPosthog) Close() error { return nil }

func (r *recordingPosthog) event(name string) (posthog.Capture, bool) {
	for _, c := range r.captured {
		if c.Event == name {
			return c, true
		}
	}
	return posthog.Capture{}, false
}

type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	ledger    *MockLedgerService
	status    *MockStatusService
	export    *MockExportService
	history   *MockExportHistoryService
	jwtSecret string
	token     string
}

const testUserID = "3f1c9a52-0d4e-4a8e-9b7a-1c2d3e4f5a6b"

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.jwtSecret = "test-secret-key-that-is-long-enough"

	s.ledger = new(MockLedgerService)
	s.status = new(MockStatusService)
	s.export = new(MockExportService)
	s.history = new(MockExportHistoryService)

	v1 := s.router.Group("/api/v1", middleware.AuthMiddleware(s.jwtSecret, ""))
	handlers.RegisterAPIRoutes(v1, &portssvc.ServiceContainer{
		Ledger:        s.ledger,
		Status:        s.status,
		Export:        s.export,
		ExportHistory: s.history,
	})

	token, err := utils.SignCallerToken(testUserID, s.jwtSecret, "ledger-test", time.Hour)
	s.Require().NoError(err)
	s.token = token
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func (s *HandlerTestSuite) TestRequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.ledger.AssertNotCalled(s.T(), "ListCollapsed", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestCreateEntry_Created() {
	token := "a1b2c3d4"
	saved := []domain.LedgerEntry{
		{ID: 1, CostCenterID: 1, Amount: 40000, AllocationGroupID: &token, IsMultiAllocation: true, Status: domain.EntryPending},
		{ID: 2, CostCenterID: 2, Amount: 20000, AllocationGroupID: &token, IsMultiAllocation: true, Status: domain.EntryPending},
	}
	s.ledger.On("CreateEntry", mock.Anything,
		mock.MatchedBy(func(r dto.CreateEntryRequest) bool { return len(r.AdditionalAllocations) == 2 }),
		testUserID).Return(saved, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/entries", map[string]any{
		"costCenterId":          1,
		"amount":                40000,
		"additionalAllocations": []map[string]any{{"costCenterId": 1, "amount": 40000}, {"costCenterId": 2, "amount": 20000}},
		"entryDate":             "2025-03-10",
		"requester":             "Ana",
		"payee":                 "Madeireira Silva",
		"paymentMethod":         "pix",
	})

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.CreateEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(int64(60000), resp.TotalAmount)
	s.Require().NotNil(resp.AllocationGroupID)
	s.Equal(token, *resp.AllocationGroupID)
	s.Len(resp.Entries, 2)
	s.ledger.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestCreateEntry_BindingFailure() {
	w := s.do(http.MethodPost, "/api/v1/entries", map[string]any{"amount": 10})

	s.Equal(http.StatusBadRequest, w.Code)
	s.ledger.AssertNotCalled(s.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestListEntries_InvalidStatus() {
	w := s.do(http.MethodGet, "/api/v1/entries?status=X", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.ledger.AssertNotCalled(s.T(), "ListCollapsed", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestListEntries() {
	rows := []domain.CollapsedEntry{{
		LedgerEntry:        domain.LedgerEntry{ID: 1, Amount: 40000, Status: domain.EntryPosted},
		RelatedAllocations: []domain.RelatedAllocation{{ID: 2, CostCenterID: 2, Amount: 20000}},
		TotalAmount:        60000,
	}}
	s.ledger.On("ListCollapsed", mock.Anything, dto.ListEntriesParams{Status: "S", Order: "asc"}).Return(rows, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/entries?status=S&order=asc", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp []dto.CollapsedEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp, 1)
	s.Equal(int64(60000), resp[0].TotalAmount)
	s.Len(resp[0].RelatedAllocations, 1)
}

func (s *HandlerTestSuite) TestGetEntry_NotFound() {
	s.ledger.On("GetEntry", mock.Anything, int64(9)).Return(nil, apperrors.NewNotFoundError("ledger entry 9")).Once()

	w := s.do(http.MethodGet, "/api/v1/entries/9", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("ledger entry 9 not found", s.errorBody(w))
}

func (s *HandlerTestSuite) TestGetEntry_BadID() {
	w := s.do(http.MethodGet, "/api/v1/entries/abc", nil)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestToggleStatus_Conflict() {
	s.status.On("ToggleStatus", mock.Anything, int64(4), "N", testUserID).
		Return(nil, apperrors.NewConflictError("ledger entry 4 is POSTED and cannot move to PENDING")).Once()

	w := s.do(http.MethodPatch, "/api/v1/entries/4/status", map[string]string{"status": "N"})

	s.Equal(http.StatusConflict, w.Code)
	s.status.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestToggleStatus_InvalidStatus() {
	w := s.do(http.MethodPatch, "/api/v1/entries/4/status", map[string]string{"status": "X"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.status.AssertNotCalled(s.T(), "ToggleStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestToggleStatus_Posted() {
	s.status.On("ToggleStatus", mock.Anything, int64(4), "S", testUserID).
		Return(&domain.LedgerEntry{ID: 4, Status: domain.EntryPosted}, nil).Once()

	w := s.do(http.MethodPatch, "/api/v1/entries/4/status", map[string]string{"status": "S"})

	s.Equal(http.StatusOK, w.Code)
	var resp dto.LedgerEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("POSTED", resp.Status)
}

func (s *HandlerTestSuite) TestDeleteEntry() {
	s.ledger.On("DeleteEntry", mock.Anything, int64(3), testUserID).Return(nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/entries/3", nil)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlerTestSuite) TestSearchPayees() {
	s.ledger.On("SearchPayees", mock.Anything, "Mad").
		Return([]domain.PayeeSuggestion{{Payee: "Madeireira Silva", PayeeTaxID: "12.345.678/0001-90"}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/entries/payees?q=Mad", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Madeireira Silva")
}

func (s *HandlerTestSuite) TestUploadAttachments() {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "nota.pdf")
	s.Require().NoError(err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	s.Require().NoError(mw.Close())

	links := []domain.Attachment{{Name: "nota.pdf", Link: "https://drive.google.com/file/d/1/view", StorageID: "1"}}
	s.ledger.On("AttachFiles", mock.Anything, int64(12),
		mock.MatchedBy(func(files []domain.UploadFile) bool { return len(files) == 1 && files[0].Name == "nota.pdf" }),
		testUserID).Return(&domain.LedgerEntry{ID: 12, AttachmentLinks: links}, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/entries/12/attachments", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.LedgerEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(links, resp.AttachmentLinks)
}

func (s *HandlerTestSuite) TestUploadAttachments_StorageUnavailable() {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "nota.pdf")
	s.Require().NoError(err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	s.Require().NoError(mw.Close())

	s.ledger.On("AttachFiles", mock.Anything, int64(12), mock.Anything, testUserID).
		Return(nil, apperrors.ErrUnavailable).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/entries/12/attachments", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *HandlerTestSuite) TestExportAndPost_Download() {
	batchID := int64(7)
	artifact := &domain.ExportArtifact{
		FileName:    "pagamentos_2025-03-10_14-30-00.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("PK\x03\x04"),
		BatchID:     &batchID,
		RowCount:    2,
	}
	s.export.On("ExportAndPost", mock.Anything, dto.ExportRequest{IDs: []int64{5, 8}}, testUserID).Return(artifact, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/exports", map[string]any{"ids": []int64{5, 8}})

	s.Equal(http.StatusOK, w.Code)
	s.Equal(`attachment; filename="pagamentos_2025-03-10_14-30-00.xlsx"`, w.Header().Get("Content-Disposition"))
	s.Equal("7", w.Header().Get(handlers.HeaderExportBatchID))
	s.Equal("2", w.Header().Get(handlers.HeaderExportRowCount))
	s.Equal(artifact.ContentType, w.Header().Get("Content-Type"))
	s.Equal(artifact.Content, w.Body.Bytes())
}

func (s *HandlerTestSuite) TestExportAndPost_CapturesAnalyticsEvent() {
	recorder := &recordingPosthog{}
	router := gin.New()
	router.Use(middleware.PosthogMiddleware(utils.NewPosthogClientWrapper(recorder, nil)))
	v1 := router.Group("/api/v1", middleware.AuthMiddleware(s.jwtSecret, ""))
	handlers.RegisterAPIRoutes(v1, &portssvc.ServiceContainer{
		Ledger:        s.ledger,
		Status:        s.status,
		Export:        s.export,
		ExportHistory: s.history,
	})

	batchID := int64(12)
	artifact := &domain.ExportArtifact{
		FileName:    "pagamentos_2025-03-10_14-30-00.csv",
		ContentType: "text/csv; charset=utf-8",
		Content:     []byte("ID\n"),
		BatchID:     &batchID,
		RowCount:    3,
	}
	s.export.On("ExportAndPost", mock.Anything, mock.Anything, testUserID).Return(artifact, nil).Once()

	raw, err := json.Marshal(map[string]any{"ids": []int64{1, 2, 3}, "format": "csv"})
	s.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/exports", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusOK, w.Code)
	exported, ok := recorder.event(middleware.EventEntriesExported)
	s.Require().True(ok, "entries_exported event not captured")
	s.Equal(testUserID, exported.DistinctId)
	s.Equal(batchID, exported.Properties["batch_id"])
	s.Equal(3, exported.Properties["row_count"])
	s.Equal("csv", exported.Properties["format"])

	_, routeCaptured := recorder.event("api_v1_exports")
	s.True(routeCaptured)
}

func (s *HandlerTestSuite) TestExportAndPost_NoAnalyticsWhenFailed() {
	recorder := &recordingPosthog{}
	router := gin.New()
	router.Use(middleware.PosthogMiddleware(utils.NewPosthogClientWrapper(recorder, nil)))
	v1 := router.Group("/api/v1", middleware.AuthMiddleware(s.jwtSecret, ""))
	handlers.RegisterAPIRoutes(v1, &portssvc.ServiceContainer{Export: s.export, Ledger: s.ledger, Status: s.status, ExportHistory: s.history})

	s.export.On("ExportAndPost", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewConflictError("ledger entries already posted: 5")).Once()

	raw, _ := json.Marshal(map[string]any{"ids": []int64{5}})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/exports", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	s.Equal(http.StatusConflict, w.Code)
	s.Empty(recorder.captured)
}

func (s *HandlerTestSuite) TestExportAndPost_AlreadyPosted() {
	s.export.On("ExportAndPost", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewConflictError("ledger entries already posted: 5")).Once()

	w := s.do(http.MethodPost, "/api/v1/exports", map[string]any{"ids": []int64{5}})

	s.Equal(http.StatusConflict, w.Code)
	s.Equal("ledger entries already posted: 5", s.errorBody(w))
}

func (s *HandlerTestSuite) TestExportAndPost_StorageFailureHidesCause() {
	s.export.On("ExportAndPost", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewStorageError("failed to commit transaction", errors.New("pq: connection reset"))).Once()

	w := s.do(http.MethodPost, "/api/v1/exports", map[string]any{"ids": []int64{5}})

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to export entries", s.errorBody(w))
}

func (s *HandlerTestSuite) TestPreview_NoBatchHeader() {
	artifact := &domain.ExportArtifact{FileName: "pagamentos.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("ID\n"), RowCount: 0}
	s.export.On("Preview", mock.Anything, dto.ExportRequest{IDs: []int64{1}, Format: "csv"}).Return(artifact, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/exports/preview", map[string]any{"ids": []int64{1}, "format": "csv"})

	s.Equal(http.StatusOK, w.Code)
	s.Empty(w.Header().Get(handlers.HeaderExportBatchID))
}

func (s *HandlerTestSuite) TestExport_UnsupportedFormat() {
	w := s.do(http.MethodPost, "/api/v1/exports", map[string]any{"ids": []int64{1}, "format": "pdf"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.export.AssertNotCalled(s.T(), "ExportAndPost", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestExportBatches() {
	generated := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	s.history.On("ListBatches", mock.Anything).
		Return([]domain.ExportBatch{{ID: 2, RequestedBy: testUserID, Count: 2, GeneratedAt: generated}}, nil).Once()
	s.history.On("ItemsOf", mock.Anything, int64(2)).Return([]int64{5, 8}, nil).Once()
	s.history.On("RegisterBatch", mock.Anything, testUserID, []int64{1, 2}).Return(int64(3), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/export-batches", nil)
	s.Equal(http.StatusOK, w.Code)
	var batches []dto.ExportBatchResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &batches))
	s.Require().Len(batches, 1)
	s.Equal("10/03/2025 14:30:00", batches[0].GeneratedAtDisplay)

	w = s.do(http.MethodGet, "/api/v1/export-batches/2/items", nil)
	s.Equal(http.StatusOK, w.Code)
	var items dto.BatchItemsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	s.Equal([]int64{5, 8}, items.EntryIDs)

	w = s.do(http.MethodPost, "/api/v1/export-batches", map[string]any{"entryIds": []int64{1, 2}})
	s.Equal(http.StatusCreated, w.Code)
	s.history.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestExportBatchItems_BadID() {
	w := s.do(http.MethodGet, "/api/v1/export-batches/abc/items", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.history.AssertNotCalled(s.T(), "ItemsOf", mock.Anything, mock.Anything)
}
