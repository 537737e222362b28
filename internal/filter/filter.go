package filter

import (
	"errors"
	"fmt"

	"loghistory-backend/internal/classifier"
	"loghistory-backend/internal/model"
	"loghistory-backend/internal/util"
)

// ErrNotLogDerived is returned for categories whose rows do not come from the
// aggregated log sequence.
var ErrNotLogDerived = errors.New("category is not derived from log entries")

// Row is a selected log entry plus the attributes its category view shows.
type Row struct {
	Entry model.LogEntry

	// Page is set for stock and selectProductsForRepair rows.
	Page model.Page
	// Action, ItemName and Quantity are set for cart rows.
	Action   string
	ItemName string
	Quantity string
}

// Select returns the rows of entries that belong to category, in their
// original order. entries is never modified; the page heuristic is evaluated
// afresh on every call.
func Select(entries []model.LogEntry, category model.Category) ([]Row, error) {
	switch category {
	case model.CategoryExcelUploads:
		return nil, fmt.Errorf("%s: %w", category, ErrNotLogDerived)
	case model.CategoryJob, model.CategoryCart, model.CategoryStock,
		model.CategorySelectProductsForRepair, model.CategoryAll:
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownCategory, category)
	}

	rows := make([]Row, 0)
	for _, e := range entries {
		if !classifier.Belongs(e, category) {
			continue
		}
		row := Row{Entry: e}
		switch category {
		case model.CategoryCart:
			row.Action = classifier.CartAction(e)
			row.ItemName = cartItemName(e)
			row.Quantity = cartQuantity(e)
		case model.CategoryStock, model.CategorySelectProductsForRepair:
			row.Page = classifier.InferStockPage(e)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Entries strips the derived attributes off rows.
func Entries(rows []Row) []model.LogEntry {
	out := make([]model.LogEntry, len(rows))
	for i, r := range rows {
		out[i] = r.Entry
	}
	return out
}

func cartItemName(e model.LogEntry) string {
	if obj, ok := e.NewValue.(map[string]any); ok {
		if name, ok := obj["itemName"].(string); ok && name != "" {
			return name
		}
	}
	if e.ItemName != "" {
		return e.ItemName
	}
	return util.NotAvailable
}

func cartQuantity(e model.LogEntry) string {
	if obj, ok := e.NewValue.(map[string]any); ok {
		if q, ok := obj["quantity"]; ok && q != nil {
			return util.FormatValue(q)
		}
	}
	return util.FormatValue(e.NewValue)
}

// ProductLabel is the product column of stock tables.
func ProductLabel(e model.LogEntry) string {
	switch {
	case e.EntityName != "":
		return e.EntityName
	case e.ProductName != "":
		return e.ProductName
	default:
		return "-"
	}
}
