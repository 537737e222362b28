package model

import (
	"errors"
	"fmt"
)

var (
	ErrInputShape      = errors.New("input shape: entity sequence is absent")
	ErrUnknownCategory = errors.New("unknown category")
)

// Category is a display grouping. It is computed from a LogEntry on read and
// never stored on the entry.
type Category string

const (
	CategoryJob                     Category = "job"
	CategoryCart                    Category = "cart"
	CategoryStock                   Category = "stock"
	CategorySelectProductsForRepair Category = "selectProductsForRepair"
	CategoryExcelUploads            Category = "excelUploads"
	CategoryAll                     Category = "all"
)

// Categories lists every category in menu order.
var Categories = []Category{
	CategoryJob,
	CategoryCart,
	CategoryStock,
	CategorySelectProductsForRepair,
	CategoryExcelUploads,
	CategoryAll,
}

var categoryTitles = map[Category]string{
	CategoryJob:                     "Job List",
	CategoryCart:                    "Add Expenses",
	CategoryStock:                   "Stock Edits",
	CategorySelectProductsForRepair: "Select Products for Repair",
	CategoryExcelUploads:            "Product Uploads (Excel)",
	CategoryAll:                     "All Logs",
}

func (c Category) Title() string {
	return categoryTitles[c]
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Page is the inferred screen a stock edit originated from.
type Page string

const (
	PageJobList      Page = "job list"
	PageProductStock Page = "product stock"
	PageProduct      Page = "product"
	PageStockUpdate  Page = "stock update"
	PageUnknown      Page = "unknown"
)
