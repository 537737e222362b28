package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loghistory-backend/config"
	"loghistory-backend/internal/dto"
	"loghistory-backend/internal/export"
	"loghistory-backend/internal/filter"
	"loghistory-backend/internal/kafka"
	"loghistory-backend/internal/metrics"
	"loghistory-backend/internal/model"
	"loghistory-backend/internal/util"
	"loghistory-backend/internal/viewstate"
)

const productsJSON = `[
	{"itemCode":"P1","itemName":"Widget","changeHistory":[
		{"field":"stock","changeType":"update","oldValue":10,"newValue":4,"changedBy":"repairTech1","changedAt":"2024-01-01T10:00:00Z"},
		{"field":"stock","changeType":"update","oldValue":4,"newValue":20,"changedBy":"excelImport","changedAt":"2024-01-02T10:00:00Z"},
		{"field":"stock","changeType":"update","oldValue":"5","newValue":5,"changedBy":null,"changedAt":"2024-01-03T10:00:00Z"},
		{"field":"stock","changeType":"addExpense","newValue":{"itemName":"Widget","quantity":6},"changedBy":"admin","changedAt":"2024-01-04T10:00:00Z"},
		{"field":"price","changeType":"update","oldValue":1,"newValue":2,"changedAt":"2024-01-05T10:00:00Z"}
	]}
]`

const suppliersJSON = `[
	{"supplierName":"S1","businessName":"Acme","changeHistory":[
		{"field":"cart-add","changeType":"cart","newValue":{"itemName":"Bolt","quantity":3},"changedBy":"bob","changedAt":"2024-01-01T12:00:00Z"},
		{"field":"cart-update","changeType":"cart","newValue":7,"itemName":"Nut","changedAt":"2024-01-01T13:00:00Z"}
	]}
]`

const jobsJSON = `[
	{"repairInvoice":"INV-1","customerName":"Dana","changeHistory":[
		{"field":"status","changeType":"update","oldValue":"open","newValue":"closed","changedBy":"tech","changedAt":"2024-01-06T08:00:00Z"}
	]},
	{"repairInvoice":"INV-2","customerName":"Eli"}
]`

type fakeRepository struct {
	products, suppliers, jobs []model.RawEntity
	productList               []model.Product
	uploads                   []model.ExcelUploadRecord

	suppliersErr   error
	jobsErr        error
	productListErr error
}

func (f *fakeRepository) Products(context.Context) ([]model.RawEntity, error) {
	return f.products, nil
}

func (f *fakeRepository) Suppliers(context.Context) ([]model.RawEntity, error) {
	return f.suppliers, f.suppliersErr
}

func (f *fakeRepository) Jobs(context.Context) ([]model.RawEntity, error) {
	return f.jobs, f.jobsErr
}

func (f *fakeRepository) ProductList(context.Context) ([]model.Product, error) {
	return f.productList, f.productListErr
}

func (f *fakeRepository) ExcelUploads(context.Context) ([]model.ExcelUploadRecord, error) {
	return f.uploads, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.SnapshotEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event kafka.SnapshotEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func entities(t *testing.T, raw string) []model.RawEntity {
	t.Helper()
	var out []model.RawEntity
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func newTestService(t *testing.T, repo *fakeRepository) (*logHistoryService, *recordingPublisher) {
	t.Helper()
	cfg := &config.Config{Display: config.DisplayConfig{Timezone: "UTC", TimeFormat: util.DefaultDisplayLayout}}
	pub := &recordingPublisher{}
	svc := NewLogHistoryService(repo, pub, metrics.New(prometheus.NewRegistry()), cfg)
	return svc.(*logHistoryService), pub
}

func seededRepository(t *testing.T) *fakeRepository {
	return &fakeRepository{
		products:  entities(t, productsJSON),
		suppliers: entities(t, suppliersJSON),
		jobs:      entities(t, jobsJSON),
	}
}

func TestQuery_InitialLoadAndJobView(t *testing.T) {
	svc, pub := newTestService(t, seededRepository(t))

	view, err := svc.Query(context.Background(), model.CategoryJob)
	require.NoError(t, err)

	assert.Equal(t, viewstate.StatusLoaded, view.Status)
	assert.Equal(t, "Job List", view.Title)
	assert.NotEmpty(t, view.SnapshotID)
	require.Len(t, view.Logs, 1)
	assert.Equal(t, "Dana", view.Logs[0].EntityName)
	assert.Equal(t, "Job List", view.Logs[0].Entity)
	assert.Equal(t, "1/6/2024, 8:00:00 AM", view.Logs[0].Date)

	assert.Equal(t, viewstate.StatusLoaded, view.JobsStatus)
	assert.Equal(t, []dto.JobSummary{
		{RepairInvoice: "INV-1", CustomerName: "Dana", Changes: 1},
		{RepairInvoice: "INV-2", CustomerName: "Eli", Changes: 0},
	}, view.Jobs)

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, "loaded", event.Status)
	assert.Equal(t, 8, event.Entries)
	assert.Equal(t, map[model.Category]int{
		model.CategoryJob:                     1,
		model.CategoryCart:                    3,
		model.CategoryStock:                   3,
		model.CategorySelectProductsForRepair: 1,
		model.CategoryAll:                     8,
	}, event.Categories)
}

func TestQuery_AllIsDescendingByTime(t *testing.T) {
	svc, _ := newTestService(t, seededRepository(t))

	view, err := svc.Query(context.Background(), model.CategoryAll)
	require.NoError(t, err)
	require.Len(t, view.Logs, 8)
	for i := 1; i < len(view.Logs); i++ {
		assert.False(t, view.Logs[i].ChangedAt.After(*view.Logs[i-1].ChangedAt))
	}
	assert.Empty(t, view.Message)
}

func TestQuery_CartView(t *testing.T) {
	svc, _ := newTestService(t, seededRepository(t))

	view, err := svc.Query(context.Background(), model.CategoryCart)
	require.NoError(t, err)
	require.Len(t, view.Cart, 3)

	assert.Equal(t, dto.CartRowResponse{
		Supplier: "Widget", Item: "Widget", Action: "Add Stock (Excel)", Quantity: "6", AddedBy: "admin",
		ChangedAt: view.Cart[0].ChangedAt, Date: "1/4/2024, 10:00:00 AM",
	}, view.Cart[0])
	assert.Equal(t, "Nut", view.Cart[1].Item)
	assert.Equal(t, "Update", view.Cart[1].Action)
	assert.Equal(t, "7", view.Cart[1].Quantity)
	assert.Equal(t, "", view.Cart[1].AddedBy)
	assert.Equal(t, "Bolt", view.Cart[2].Item)
	assert.Equal(t, "3", view.Cart[2].Quantity)
}

func TestQuery_StockAndRepairViews(t *testing.T) {
	svc, _ := newTestService(t, seededRepository(t))
	ctx := context.Background()

	stock, err := svc.Query(ctx, model.CategoryStock)
	require.NoError(t, err)
	require.Len(t, stock.Stock, 3)
	assert.Equal(t, model.PageUnknown, stock.Stock[0].Page)
	assert.Equal(t, model.PageStockUpdate, stock.Stock[1].Page)
	assert.Equal(t, model.PageJobList, stock.Stock[2].Page)

	repair, err := svc.Query(ctx, model.CategorySelectProductsForRepair)
	require.NoError(t, err)
	require.Len(t, repair.Repair, 1)
	assert.Equal(t, "Widget", repair.Repair[0].Product)
	assert.Equal(t, "10", repair.Repair[0].OldStock)
	assert.Equal(t, "4", repair.Repair[0].NewStock)
	assert.Equal(t, "repairTech1", repair.Repair[0].EditedBy)
}

func TestRefresh_AnySourceFailureEmptiesView(t *testing.T) {
	repo := seededRepository(t)
	repo.suppliersErr = errors.New("suppliers down")
	svc, pub := newTestService(t, repo)

	resp := svc.Refresh(context.Background())
	assert.Equal(t, viewstate.StatusFailed, resp.Status)

	view, err := svc.Query(context.Background(), model.CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, viewstate.StatusFailed, view.Status)
	assert.Equal(t, 0, view.Total)
	assert.Empty(t, view.Logs)
	assert.Equal(t, dto.EmptyLogsMessage, view.Message)

	cart, err := svc.Query(context.Background(), model.CategoryCart)
	require.NoError(t, err)
	assert.Equal(t, dto.EmptyCartMessage, cart.Message)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "failed", pub.events[0].Status)
}

func TestRefresh_RecoversAfterFailure(t *testing.T) {
	repo := seededRepository(t)
	repo.suppliersErr = errors.New("suppliers down")
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	svc.Refresh(ctx)
	repo.suppliersErr = nil
	resp := svc.Refresh(ctx)

	assert.Equal(t, viewstate.StatusLoaded, resp.Status)
	assert.Equal(t, 8, resp.Entries)
	assert.Equal(t, uint64(2), svc.Status().Snapshot.Token)
}

func TestQuery_JobListFailureKeepsLogs(t *testing.T) {
	svc, _ := newTestService(t, seededRepository(t))
	ctx := context.Background()
	svc.Refresh(ctx)

	svc.repo.(*fakeRepository).jobsErr = errors.New("jobs down")
	view, err := svc.Query(ctx, model.CategoryJob)
	require.NoError(t, err)

	assert.Equal(t, viewstate.StatusLoaded, view.Status)
	assert.Len(t, view.Logs, 1)
	assert.Equal(t, viewstate.StatusFailed, view.JobsStatus)
	assert.Empty(t, view.Jobs)
}

func TestQuery_ExcelUploadsJoin(t *testing.T) {
	repo := seededRepository(t)
	repo.uploads = []model.ExcelUploadRecord{{
		Filename:   "stock.xlsx",
		UploadedBy: "admin",
		Products: []model.ExcelUploadedItem{
			{ItemCode: "P1", ItemName: "Widget", Action: "created"},
			{ItemCode: "P9", ItemName: "Ghost", Action: "updated"},
		},
	}}
	repo.productList = []model.Product{
		{ItemCode: "P1", ItemName: "Widget", CreatedAt: time.Date(2024, 2, 3, 14, 5, 0, 0, time.UTC)},
	}
	svc, _ := newTestService(t, repo)

	view, err := svc.Query(context.Background(), model.CategoryExcelUploads)
	require.NoError(t, err)

	assert.Equal(t, viewstate.StatusLoaded, view.Status)
	require.Len(t, view.Uploads, 1)
	assert.Equal(t, "stock.xlsx", view.Uploads[0].Filename)
	assert.Equal(t, []dto.UploadProductResponse{
		{ItemCode: "P1", ItemName: "Widget", Action: "created", CreatedAt: "2/3/2024, 2:05:00 PM"},
		{ItemCode: "P9", ItemName: "Ghost", Action: "updated", CreatedAt: "N/A"},
	}, view.Uploads[0].Products)
	assert.Empty(t, view.SnapshotID)
}

func TestQuery_ExcelUploadsFailureEmptiesBoth(t *testing.T) {
	repo := seededRepository(t)
	repo.uploads = []model.ExcelUploadRecord{{Filename: "a.xlsx"}}
	repo.productListErr = errors.New("products down")
	svc, _ := newTestService(t, repo)

	view, err := svc.Query(context.Background(), model.CategoryExcelUploads)
	require.NoError(t, err)
	assert.Equal(t, viewstate.StatusFailed, view.Status)
	assert.Empty(t, view.Uploads)
	assert.Equal(t, dto.EmptyUploadsMessage, view.Message)

	status := svc.Status()
	assert.Equal(t, viewstate.StatusFailed, status.ExcelUploads.Status)
	assert.Equal(t, 0, status.ExcelUploads.Count)
	assert.Equal(t, viewstate.StatusIdle, status.Snapshot.Status)
}

func TestQuery_UnknownCategory(t *testing.T) {
	svc, _ := newTestService(t, seededRepository(t))

	_, err := svc.Query(context.Background(), model.Category("bogus"))
	assert.ErrorIs(t, err, model.ErrUnknownCategory)
}

func TestExport(t *testing.T) {
	svc, _ := newTestService(t, seededRepository(t))
	ctx := context.Background()

	var buf bytes.Buffer
	n, err := svc.Export(ctx, model.CategoryStock, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := export.ReadXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Product", rows[0].Entity)
	assert.Equal(t, "Widget", rows[0].EntityName)
	assert.Equal(t, "stock", rows[0].Field)
	assert.Equal(t, "", rows[0].ChangedBy)
	assert.Equal(t, "repairTech1", rows[2].ChangedBy)
	assert.Equal(t, "1/1/2024, 10:00:00 AM", rows[2].DateTime)
}

func TestExport_Errors(t *testing.T) {
	svc, _ := newTestService(t, seededRepository(t))

	_, err := svc.Export(context.Background(), model.CategoryExcelUploads, &bytes.Buffer{})
	assert.ErrorIs(t, err, filter.ErrNotLogDerived)

	_, err = svc.Export(context.Background(), model.Category("nope"), &bytes.Buffer{})
	assert.ErrorIs(t, err, model.ErrUnknownCategory)
}
