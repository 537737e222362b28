package repository

import (
	"context"

	"loghistory-backend/internal/model"
)

// EntityRepository reads the externally owned entity APIs.
type EntityRepository interface {
	Products(ctx context.Context) ([]model.RawEntity, error)
	Suppliers(ctx context.Context) ([]model.RawEntity, error)
	Jobs(ctx context.Context) ([]model.RawEntity, error)
	ProductList(ctx context.Context) ([]model.Product, error)
	ExcelUploads(ctx context.Context) ([]model.ExcelUploadRecord, error)
}
