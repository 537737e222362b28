// Package classifier assigns log entries to display categories. Categories are
// derived from the entry on every call; nothing is cached on the entry.
package classifier

import (
	"strings"

	"loghistory-backend/internal/model"
	"loghistory-backend/internal/util"
)

const (
	ActionAdd        = "Add"
	ActionUpdate     = "Update"
	ActionExcelStock = "Add Stock (Excel)"
)

// Classify returns the primary category of e. Rules are checked in order
// job, cart, stock; an entry matching none of them is only listed under all.
func Classify(e model.LogEntry) model.Category {
	switch {
	case e.EntityType == model.EntityJob:
		return model.CategoryJob
	case IsCart(e):
		return model.CategoryCart
	case IsStockEdit(e):
		return model.CategoryStock
	default:
		return model.CategoryAll
	}
}

// Belongs reports whether e is listed under c. selectProductsForRepair is a
// subset of stock; excelUploads never contains log entries.
func Belongs(e model.LogEntry, c model.Category) bool {
	switch c {
	case model.CategoryAll:
		return true
	case model.CategoryExcelUploads:
		return false
	case model.CategorySelectProductsForRepair:
		return Classify(e) == model.CategoryStock && InferStockPage(e) == model.PageJobList
	default:
		return Classify(e) == c
	}
}

func IsCart(e model.LogEntry) bool {
	return (e.EntityType == model.EntitySupplier && e.ChangeType == "cart") ||
		(e.EntityType == model.EntityProduct && e.ChangeType == "addExpense")
}

// IsStockEdit reports whether e is a product stock update or delete.
func IsStockEdit(e model.LogEntry) bool {
	return e.EntityType == model.EntityProduct &&
		e.Field == "stock" &&
		(e.ChangeType == "update" || e.ChangeType == "delete")
}

// CartAction labels a cart entry for the expenses table.
func CartAction(e model.LogEntry) string {
	switch {
	case e.Field == "cart-add":
		return ActionAdd
	case e.Field == "cart-update":
		return ActionUpdate
	case e.ChangeType == "addExpense":
		return ActionExcelStock
	default:
		return e.Field
	}
}

var attributionRules = []struct {
	needles []string
	page    model.Page
}{
	{[]string{"repair", "job"}, model.PageJobList},
	{[]string{"admin", "stock", "update"}, model.PageProductStock},
	{[]string{"product"}, model.PageProduct},
	{[]string{"system", "excel"}, model.PageStockUpdate},
}

// InferStockPage guesses which screen produced a stock edit. The free-text
// attribution is checked first; when it says nothing, a strictly numeric
// decrease is read as stock consumed by a repair job and an increase as a
// replenishment. Mixed or non-numeric values stay unknown.
//
// The numeric fallback is an approximation: no upstream field records the
// originating screen.
func InferStockPage(e model.LogEntry) model.Page {
	if by := strings.ToLower(e.ChangedByText()); by != "" {
		for _, rule := range attributionRules {
			for _, needle := range rule.needles {
				if strings.Contains(by, needle) {
					return rule.page
				}
			}
		}
	}

	if e.Field != "stock" {
		return model.PageUnknown
	}
	oldValue, okOld := util.Number(e.OldValue)
	newValue, okNew := util.Number(e.NewValue)
	if !okOld || !okNew {
		return model.PageUnknown
	}
	switch {
	case oldValue > newValue:
		return model.PageJobList
	case oldValue < newValue:
		return model.PageStockUpdate
	default:
		return model.PageUnknown
	}
}
