package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"loghistory-backend/config"
	"loghistory-backend/internal/aggregator"
	"loghistory-backend/internal/dto"
	"loghistory-backend/internal/export"
	"loghistory-backend/internal/filter"
	"loghistory-backend/internal/kafka"
	"loghistory-backend/internal/metrics"
	"loghistory-backend/internal/model"
	"loghistory-backend/internal/normalizer"
	"loghistory-backend/internal/repository"
	"loghistory-backend/internal/viewstate"
)

// Snapshot is one aggregated, time-ordered log sequence. It is never modified
// after it is published.
type Snapshot struct {
	ID        uuid.UUID
	FetchedAt time.Time
	Entries   []model.LogEntry
}

type uploadsData struct {
	Uploads  []model.ExcelUploadRecord
	Products []model.Product
}

type LogHistoryService interface {
	// Refresh fetches the three entity sources and replaces the snapshot. A
	// failure of any source leaves an empty snapshot in the failed state.
	Refresh(ctx context.Context) dto.RefreshResponse
	Query(ctx context.Context, category model.Category) (*dto.LogViewResponse, error)
	// Export writes the category's rows as a spreadsheet and returns the row count.
	Export(ctx context.Context, category model.Category, w io.Writer) (int, error)
	Status() dto.StatusResponse
}

type logHistoryService struct {
	repo      repository.EntityRepository
	publisher kafka.SnapshotPublisher
	metrics   *metrics.Metrics
	location  *time.Location
	layout    string

	snapshot *viewstate.Cell[*Snapshot]
	jobs     *viewstate.Cell[[]model.RawEntity]
	uploads  *viewstate.Cell[uploadsData]
}

func NewLogHistoryService(
	repo repository.EntityRepository,
	publisher kafka.SnapshotPublisher,
	m *metrics.Metrics,
	cfg *config.Config,
) LogHistoryService {
	return &logHistoryService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		location:  cfg.Display.Location(),
		layout:    cfg.Display.TimeFormat,
		snapshot:  viewstate.NewCell("snapshot", &Snapshot{Entries: []model.LogEntry{}}),
		jobs:      viewstate.NewCell("jobs", []model.RawEntity{}),
		uploads: viewstate.NewCell("excelUploads", uploadsData{
			Uploads:  []model.ExcelUploadRecord{},
			Products: []model.Product{},
		}),
	}
}

func (s *logHistoryService) Refresh(ctx context.Context) dto.RefreshResponse {
	token := s.snapshot.Begin()
	log.Info().Uint64("token", token).Msg("Refreshing log snapshot")

	var products, suppliers, jobs []model.LogEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.fetchSource(gctx, "products", s.repo.Products, normalizer.Products)
		return err
	})
	g.Go(func() (err error) {
		suppliers, err = s.fetchSource(gctx, "suppliers", s.repo.Suppliers, normalizer.Suppliers)
		return err
	})
	g.Go(func() (err error) {
		jobs, err = s.fetchSource(gctx, "jobs", s.repo.Jobs, normalizer.Jobs)
		return err
	})

	snap := &Snapshot{ID: uuid.New(), FetchedAt: time.Now().UTC()}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("snapshot_id", snap.ID.String()).Msg("Failed to fetch logs, serving an empty view")
		s.snapshot.Fail(token)
		s.metrics.RecordRefresh(false, 0)
		s.publish(ctx, snap, viewstate.StatusFailed)
		return dto.RefreshResponse{SnapshotID: snap.ID.String(), Status: viewstate.StatusFailed, FetchedAt: snap.FetchedAt}
	}

	snap.Entries = aggregator.Merge(products, suppliers, jobs)
	if !s.snapshot.Complete(token, snap) {
		// A newer refresh owns the cell now.
		return dto.RefreshResponse{SnapshotID: snap.ID.String(), Status: s.snapshot.Load().Status, Entries: len(snap.Entries), FetchedAt: snap.FetchedAt}
	}
	s.metrics.RecordRefresh(true, len(snap.Entries))
	log.Info().
		Str("snapshot_id", snap.ID.String()).
		Int("products", len(products)).
		Int("suppliers", len(suppliers)).
		Int("jobs", len(jobs)).
		Int("entries", len(snap.Entries)).
		Msg("Log snapshot refreshed")
	s.publish(ctx, snap, viewstate.StatusLoaded)

	return dto.RefreshResponse{SnapshotID: snap.ID.String(), Status: viewstate.StatusLoaded, Entries: len(snap.Entries), FetchedAt: snap.FetchedAt}
}

func (s *logHistoryService) fetchSource(
	ctx context.Context,
	name string,
	fetch func(context.Context) ([]model.RawEntity, error),
	src normalizer.Source,
) ([]model.LogEntry, error) {
	start := time.Now()
	entities, err := fetch(ctx)
	s.metrics.RecordFetch(name, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return normalizer.Normalize(entities, src)
}

func (s *logHistoryService) publish(ctx context.Context, snap *Snapshot, status viewstate.Status) {
	event := kafka.SnapshotEvent{
		SnapshotID: snap.ID.String(),
		FetchedAt:  snap.FetchedAt,
		Status:     string(status),
		Entries:    len(snap.Entries),
		Categories: make(map[model.Category]int),
	}
	for _, c := range model.Categories {
		rows, err := filter.Select(snap.Entries, c)
		if err != nil {
			continue
		}
		event.Categories[c] = len(rows)
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("snapshot_id", event.SnapshotID).Msg("Snapshot event not published")
	}
}

// current returns the published snapshot, running the initial load first if
// nothing was ever fetched.
func (s *logHistoryService) current(ctx context.Context) viewstate.State[*Snapshot] {
	if s.snapshot.Load().Status == viewstate.StatusIdle {
		s.Refresh(ctx)
	}
	return s.snapshot.Load()
}

func (s *logHistoryService) Query(ctx context.Context, category model.Category) (*dto.LogViewResponse, error) {
	if _, err := model.ParseCategory(string(category)); err != nil {
		return nil, err
	}
	s.metrics.CategoryQueriesTotal.WithLabelValues(string(category)).Inc()

	if category == model.CategoryExcelUploads {
		state := s.loadUploads(ctx)
		view := &dto.LogViewResponse{
			Category: category,
			Title:    category.Title(),
			Status:   state.Status,
			Uploads:  s.uploadRows(filter.JoinUploads(state.Data.Uploads, state.Data.Products)),
		}
		view.Total = len(view.Uploads)
		if view.Total == 0 {
			view.Message = dto.EmptyUploadsMessage
		}
		return view, nil
	}

	state := s.current(ctx)
	rows, err := filter.Select(state.Data.Entries, category)
	if err != nil {
		return nil, err
	}

	view := &dto.LogViewResponse{
		Category: category,
		Title:    category.Title(),
		Status:   state.Status,
		Total:    len(rows),
	}
	if state.Data.ID != uuid.Nil {
		view.SnapshotID = state.Data.ID.String()
		view.FetchedAt = timePtr(state.Data.FetchedAt)
	}

	switch category {
	case model.CategoryCart:
		view.Cart = s.cartRows(rows)
	case model.CategoryStock:
		view.Stock = s.stockRows(rows)
	case model.CategorySelectProductsForRepair:
		view.Repair = s.repairRows(rows)
	case model.CategoryJob:
		view.Logs = s.logRows(rows)
		jobs := s.loadJobs(ctx)
		view.Jobs = jobSummaries(jobs.Data)
		view.JobsStatus = jobs.Status
	default:
		view.Logs = s.logRows(rows)
	}

	if view.Total == 0 {
		view.Message = dto.EmptyLogsMessage
		if category == model.CategoryCart {
			view.Message = dto.EmptyCartMessage
		}
	}
	return view, nil
}

func (s *logHistoryService) loadJobs(ctx context.Context) viewstate.State[[]model.RawEntity] {
	token := s.jobs.Begin()
	start := time.Now()
	jobs, err := s.repo.Jobs(ctx)
	s.metrics.RecordFetch("jobList", err, time.Since(start))
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch job list")
		s.jobs.Fail(token)
	} else {
		s.jobs.Complete(token, jobs)
	}
	return s.jobs.Load()
}

// loadUploads fetches the upload records and the product list together; if
// either fails both are reset to empty.
func (s *logHistoryService) loadUploads(ctx context.Context) viewstate.State[uploadsData] {
	token := s.uploads.Begin()

	var data uploadsData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		start := time.Now()
		data.Uploads, err = s.repo.ExcelUploads(gctx)
		s.metrics.RecordFetch("excelUploads", err, time.Since(start))
		return err
	})
	g.Go(func() (err error) {
		start := time.Now()
		data.Products, err = s.repo.ProductList(gctx)
		s.metrics.RecordFetch("productList", err, time.Since(start))
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Failed to fetch Excel uploads")
		s.uploads.Fail(token)
	} else {
		s.uploads.Complete(token, data)
	}
	return s.uploads.Load()
}

func (s *logHistoryService) Export(ctx context.Context, category model.Category, w io.Writer) (int, error) {
	if category == model.CategoryExcelUploads {
		return 0, fmt.Errorf("export %s: %w", category, filter.ErrNotLogDerived)
	}
	if _, err := model.ParseCategory(string(category)); err != nil {
		return 0, err
	}

	state := s.current(ctx)
	rows, err := filter.Select(state.Data.Entries, category)
	if err != nil {
		return 0, err
	}
	out := export.Rows(filter.Entries(rows), s.location, s.layout)
	if err := export.WriteXLSX(w, out); err != nil {
		return 0, fmt.Errorf("export %s: %w", category, err)
	}
	s.metrics.ExportsTotal.WithLabelValues(string(category)).Inc()
	log.Info().Str("category", string(category)).Int("rows", len(out)).Msg("Exported log history")
	return len(out), nil
}

func (s *logHistoryService) Status() dto.StatusResponse {
	snap := s.snapshot.Load()
	jobs := s.jobs.Load()
	uploads := s.uploads.Load()
	return dto.StatusResponse{
		Snapshot:     cellStatus(snap.Status, snap.Token, snap.UpdatedAt, len(snap.Data.Entries)),
		Jobs:         cellStatus(jobs.Status, jobs.Token, jobs.UpdatedAt, len(jobs.Data)),
		ExcelUploads: cellStatus(uploads.Status, uploads.Token, uploads.UpdatedAt, len(uploads.Data.Uploads)),
	}
}

func cellStatus(status viewstate.Status, token uint64, updatedAt time.Time, count int) dto.CellStatus {
	return dto.CellStatus{Status: status, Token: token, UpdatedAt: timePtr(updatedAt), Count: count}
}
