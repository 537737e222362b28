package dto

import (
	"time"

	"loghistory-backend/internal/model"
	"loghistory-backend/internal/viewstate"
)

const (
	EmptyLogsMessage     = "No logs found."
	EmptyCartMessage     = "No add expenses found."
	EmptyUploadsMessage  = "No Excel uploads found."
	EmptyJobsListMessage = "No jobs found."
)

// LogViewResponse is one category view. Exactly one of the row slices is
// populated, depending on the category.
type LogViewResponse struct {
	Category   model.Category   `json:"category"`
	Title      string           `json:"title"`
	Status     viewstate.Status `json:"status"`
	SnapshotID string           `json:"snapshotId,omitempty"`
	FetchedAt  *time.Time       `json:"fetchedAt,omitempty"`
	Total      int              `json:"total"`
	Message    string           `json:"message,omitempty"`

	Logs    []LogRowResponse    `json:"logs,omitempty"`
	Cart    []CartRowResponse   `json:"cart,omitempty"`
	Stock   []StockRowResponse  `json:"stock,omitempty"`
	Repair  []RepairRowResponse `json:"repair,omitempty"`
	Uploads []UploadResponse    `json:"uploads,omitempty"`

	// Jobs is the job list side fetch shown next to the job log table.
	Jobs       []JobSummary     `json:"jobs,omitempty"`
	JobsStatus viewstate.Status `json:"jobsStatus,omitempty"`
}

// LogRowResponse is a row of the job and all-logs tables.
type LogRowResponse struct {
	Entity     string           `json:"entity"`
	EntityType model.EntityType `json:"entityType"`
	EntityName string           `json:"entityName"`
	Field      string           `json:"field"`
	ChangeType string           `json:"changeType"`
	OldValue   string           `json:"oldValue"`
	NewValue   string           `json:"newValue"`
	ChangedBy  string           `json:"changedBy"`
	ChangedAt  *time.Time       `json:"changedAt"`
	Date       string           `json:"date"`
}

type CartRowResponse struct {
	Supplier  string     `json:"supplier"`
	Item      string     `json:"item"`
	Action    string     `json:"action"`
	Quantity  string     `json:"quantity"`
	AddedBy   string     `json:"addedBy"`
	ChangedAt *time.Time `json:"changedAt"`
	Date      string     `json:"date"`
}

type StockRowResponse struct {
	Product   string     `json:"product"`
	Page      model.Page `json:"page"`
	Field     string     `json:"field"`
	OldValue  string     `json:"oldValue"`
	NewValue  string     `json:"newValue"`
	EditedBy  string     `json:"editedBy"`
	ChangedAt *time.Time `json:"changedAt"`
	Date      string     `json:"date"`
}

type RepairRowResponse struct {
	Product   string     `json:"product"`
	OldStock  string     `json:"oldStock"`
	NewStock  string     `json:"newStock"`
	EditedBy  string     `json:"editedBy"`
	ChangedAt *time.Time `json:"changedAt"`
	Date      string     `json:"date"`
}

type UploadResponse struct {
	Filename   string                  `json:"filename"`
	UploadedBy string                  `json:"uploadedBy"`
	Products   []UploadProductResponse `json:"products"`
}

type UploadProductResponse struct {
	ItemCode  string `json:"itemCode"`
	ItemName  string `json:"itemName"`
	Action    string `json:"action"`
	CreatedAt string `json:"createdAt"`
}

type JobSummary struct {
	RepairInvoice string `json:"repairInvoice"`
	CustomerName  string `json:"customerName"`
	Changes       int    `json:"changes"`
}

// CategoryResponse describes one entry of the category menu.
type CategoryResponse struct {
	Category   model.Category `json:"category"`
	Title      string         `json:"title"`
	Exportable bool           `json:"exportable"`
}

// StatusResponse reports every state cell of the service.
type StatusResponse struct {
	Snapshot     CellStatus `json:"snapshot"`
	Jobs         CellStatus `json:"jobs"`
	ExcelUploads CellStatus `json:"excelUploads"`
}

type CellStatus struct {
	Status    viewstate.Status `json:"status"`
	Token     uint64           `json:"token"`
	UpdatedAt *time.Time       `json:"updatedAt,omitempty"`
	Count     int              `json:"count"`
}

// RefreshResponse is returned by the manual reload endpoint.
type RefreshResponse struct {
	SnapshotID string           `json:"snapshotId"`
	Status     viewstate.Status `json:"status"`
	Entries    int              `json:"entries"`
	FetchedAt  time.Time        `json:"fetchedAt"`
}
