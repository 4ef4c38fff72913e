package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/core/services"
	"github.com/Jonatasvm/backendGB/internal/dto"
	"github.com/Jonatasvm/backendGB/internal/repositories/memory"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// failingHistory fails after the entries have been posted inside the
// transaction, before the batch is recorded.
type failingHistory struct {
	portssvc.ExportHistorySvcFacade
}

func (failingHistory) RegisterBatchTx(context.Context, pgx.Tx, string, []int64) (int64, error) {
	return 0, apperrors.NewStorageError("failed to insert export batch", errors.New("disk full"))
}

type ExportServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	store      *memory.Store
	xlsx       *recordingWriter
	csv        *recordingWriter
	publisher  *MockEventPublisher
	history    portssvc.ExportHistorySvcFacade
	reconciler portssvc.ExportReconciler
	service    portssvc.ExportSvcFacade
}

func (s *ExportServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore(
		memory.WithCostCenters(domain.CostCenter{ID: 4, Label: "OBRA CENTRO", PayerLabel: "Construtora"}),
	)
	s.xlsx = &recordingWriter{format: domain.ExportXLSX}
	s.csv = &recordingWriter{format: domain.ExportCSV}
	s.publisher = new(MockEventPublisher)

	repos := s.store.Provider()
	s.history = services.NewExportHistoryService(repos.ExportBatchRepo)
	s.reconciler = services.NewExportReconciler(
		services.NewCostCenterCatalog(repos.CatalogRepo),
		services.NewCategoryCatalog(repos.CatalogRepo),
		[]portssvc.ArtifactWriter{s.xlsx, s.csv},
	)
	s.service = services.NewExportService(repos.LedgerRepo, s.history, s.reconciler,
		services.WithEventPublisher(s.publisher, ""),
		services.WithExportClock(fixedClock),
	)

	ledger := services.NewLedgerService(s.store, services.WithLedgerClock(fixedClock))
	for i := 0; i < 8; i++ {
		_, err := ledger.CreateEntry(s.ctx, singleRequest(4, int64(1000*(i+1))), "user-1")
		s.Require().NoError(err)
	}
}

func TestExportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}

func (s *ExportServiceTestSuite) statusOf(id int64) domain.EntryStatus {
	e, err := s.store.FindEntryByID(s.ctx, id)
	s.Require().NoError(err)
	return e.Status
}

func (s *ExportServiceTestSuite) TestExportAndPost_PostsAndRecordsBatch() {
	s.publisher.On("Publish", mock.Anything, services.EntriesPostedTopic, "1",
		mock.MatchedBy(func(ev domain.EntriesPostedEvent) bool {
			return ev.BatchID == 1 &&
				len(ev.EntryIDs) == 2 &&
				ev.TotalAmount == domain.Money(5000+8000) &&
				ev.RequestedBy == "user-2" &&
				ev.EventID != ""
		})).Return(nil).Once()

	artifact, err := s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{8, 5, 8}}, "user-2")

	s.Require().NoError(err)
	s.Require().NotNil(artifact.BatchID)
	s.Equal(int64(1), *artifact.BatchID)
	s.Equal("pagamentos_2025-03-10_14-30-00.xlsx", artifact.FileName)
	s.Equal(2, artifact.RowCount)
	s.Equal(domain.EntryPosted, s.statusOf(5))
	s.Equal(domain.EntryPosted, s.statusOf(8))
	s.Equal(domain.EntryPending, s.statusOf(6))

	s.Require().Len(s.xlsx.rows, 2)
	s.Equal("Lançado", s.xlsx.rows[0].Status)
	s.Equal("Obra Centro", s.xlsx.rows[0].CostCenter)
	s.Equal("Construtora", s.xlsx.rows[0].PayerLabel)

	batches, err := s.history.ListBatches(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(batches, 1)
	s.Equal(2, batches[0].Count)
	s.Equal("user-2", batches[0].RequestedBy)

	items, err := s.history.ItemsOf(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]int64{5, 8}, items)
	s.publisher.AssertExpectations(s.T())
}

func (s *ExportServiceTestSuite) TestExportAndPost_CSVFormat() {
	s.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	artifact, err := s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{1}, Format: "csv"}, "user-2")

	s.Require().NoError(err)
	s.Equal("pagamentos_2025-03-10_14-30-00.csv", artifact.FileName)
	s.Equal("test/csv", artifact.ContentType)
	s.Len(s.csv.rows, 1)
	s.Empty(s.xlsx.rows)
}

func (s *ExportServiceTestSuite) TestExportAndPost_AlreadyPosted() {
	s.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	_, err := s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{5}}, "user-2")
	s.Require().NoError(err)

	_, err = s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{5, 6}}, "user-2")

	s.ErrorIs(err, apperrors.ErrConflict)
	s.Equal(domain.EntryPending, s.statusOf(6))
	batches, listErr := s.history.ListBatches(s.ctx)
	s.Require().NoError(listErr)
	s.Len(batches, 1)
}

func (s *ExportServiceTestSuite) TestExportAndPost_MissingEntries() {
	_, err := s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{5, 99}}, "user-2")

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Contains(err.Error(), "99")
	s.Equal(domain.EntryPending, s.statusOf(5))
	s.publisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExportServiceTestSuite) TestExportAndPost_RejectsBadIDs() {
	_, err := s.service.ExportAndPost(s.ctx, dto.ExportRequest{}, "user-2")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{1, 0}}, "user-2")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{1}, Format: "pdf"}, "user-2")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(domain.EntryPending, s.statusOf(1))
}

func (s *ExportServiceTestSuite) TestExportAndPost_BatchFailureRollsBackPosting() {
	svc := services.NewExportService(s.store, failingHistory{ExportHistorySvcFacade: s.history}, s.reconciler,
		services.WithEventPublisher(s.publisher, ""),
		services.WithExportClock(fixedClock),
	)

	_, err := svc.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{5, 8}}, "user-2")

	s.ErrorIs(err, apperrors.ErrStorage)
	s.Equal(domain.EntryPending, s.statusOf(5))
	s.Equal(domain.EntryPending, s.statusOf(8))
	batches, listErr := s.history.ListBatches(s.ctx)
	s.Require().NoError(listErr)
	s.Empty(batches)
	s.publisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExportServiceTestSuite) TestExportAndPost_RenderFailureRollsBackPosting() {
	s.xlsx.err = errors.New("sheet limit")

	_, err := s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{2}}, "user-2")

	s.Error(err)
	s.Equal(domain.EntryPending, s.statusOf(2))
}

func (s *ExportServiceTestSuite) TestExportAndPost_PublishFailureKeepsExport() {
	s.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("broker unreachable")).Once()

	artifact, err := s.service.ExportAndPost(s.ctx, dto.ExportRequest{IDs: []int64{3}}, "user-2")

	s.Require().NoError(err)
	s.NotNil(artifact.BatchID)
	s.Equal(domain.EntryPosted, s.statusOf(3))
}

func (s *ExportServiceTestSuite) TestPreview_DoesNotPost() {
	artifact, err := s.service.Preview(s.ctx, dto.ExportRequest{IDs: []int64{2, 3, 42}})

	s.Require().NoError(err)
	s.Nil(artifact.BatchID)
	s.Equal(2, artifact.RowCount)
	s.Equal(domain.EntryPending, s.statusOf(2))
	s.Equal("Pendente", s.xlsx.rows[0].Status)

	batches, listErr := s.history.ListBatches(s.ctx)
	s.Require().NoError(listErr)
	s.Empty(batches)
}

func (s *ExportServiceTestSuite) TestPreview_NothingFound() {
	_, err := s.service.Preview(s.ctx, dto.ExportRequest{IDs: []int64{41, 42}})

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ExportServiceTestSuite) TestExportRaw_CoercesValues() {
	req := dto.RawExportRequest{
		Format: "csv",
		Records: []dto.RawExportRecordRequest{
			{ID: 1, PaymentDate: "31/12/2024", Amount: float64(123456), CostCenter: "obra norte", Status: "true"},
			{ID: 2, PaymentDate: "ontem", Amount: "abc", CostCenterID: float64(7), Status: "??"},
		},
	}

	artifact, err := s.service.ExportRaw(s.ctx, req)

	s.Require().NoError(err)
	s.Equal(2, artifact.RowCount)
	s.Require().Len(s.csv.rows, 2)

	first := s.csv.rows[0]
	s.Equal(domain.NewDate(2025, 1, 1), first.PaymentDate)
	s.Equal(domain.Money(123456), first.Amount)
	s.Equal("Obra Norte", first.CostCenter)
	s.Equal("Lançado", first.Status)

	second := s.csv.rows[1]
	s.True(second.PaymentDate.IsZero())
	s.Equal(domain.Money(0), second.Amount)
	s.Equal("7", second.CostCenter)
	s.Equal("Pendente", second.Status)
}

func (s *ExportServiceTestSuite) TestExportRaw_RequiresRecords() {
	_, err := s.service.ExportRaw(s.ctx, dto.RawExportRequest{})

	s.ErrorIs(err, apperrors.ErrValidation)
}
