package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loghistory-backend/internal/classifier"
	"loghistory-backend/internal/model"
)

func by(s string) *string { return &s }

func stockEdit(changedBy *string, oldValue, newValue any) model.LogEntry {
	return model.LogEntry{
		EntityType: model.EntityProduct,
		EntityID:   "P1",
		EntityName: "Widget",
		Field:      "stock",
		ChangeType: "update",
		OldValue:   oldValue,
		NewValue:   newValue,
		ChangedBy:  changedBy,
	}
}

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		entry model.LogEntry
		want  model.Category
	}{
		{
			name:  "job entity always wins",
			entry: model.LogEntry{EntityType: model.EntityJob, Field: "stock", ChangeType: "cart"},
			want:  model.CategoryJob,
		},
		{
			name:  "supplier cart",
			entry: model.LogEntry{EntityType: model.EntitySupplier, Field: "cart-add", ChangeType: "cart"},
			want:  model.CategoryCart,
		},
		{
			name:  "product addExpense is cart even on stock field",
			entry: model.LogEntry{EntityType: model.EntityProduct, Field: "stock", ChangeType: "addExpense"},
			want:  model.CategoryCart,
		},
		{
			name:  "product stock delete",
			entry: model.LogEntry{EntityType: model.EntityProduct, Field: "stock", ChangeType: "delete"},
			want:  model.CategoryStock,
		},
		{
			name:  "product stock create is not a stock edit",
			entry: model.LogEntry{EntityType: model.EntityProduct, Field: "stock", ChangeType: "create"},
			want:  model.CategoryAll,
		},
		{
			name:  "supplier non-cart change",
			entry: model.LogEntry{EntityType: model.EntitySupplier, Field: "phone", ChangeType: "update"},
			want:  model.CategoryAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.entry))
			// deterministic
			assert.Equal(t, classifier.Classify(tt.entry), classifier.Classify(tt.entry))
		})
	}
}

func TestInferStockPage(t *testing.T) {
	tests := []struct {
		name  string
		entry model.LogEntry
		want  model.Page
	}{
		{"repair in attribution", stockEdit(by("repairTech1"), 10.0, 4.0), model.PageJobList},
		{"job beats admin", stockEdit(by("JobAdmin"), 1.0, 9.0), model.PageJobList},
		{"admin", stockEdit(by("Admin"), 1.0, 1.0), model.PageProductStock},
		{"stock keyword", stockEdit(by("stock-keeper"), nil, nil), model.PageProductStock},
		{"update keyword", stockEdit(by("bulkUpdater"), nil, nil), model.PageProductStock},
		{"product keyword", stockEdit(by("productPage"), nil, nil), model.PageProduct},
		{"system keyword", stockEdit(by("SYSTEM"), nil, nil), model.PageStockUpdate},
		{"excelImport has no keyword before excel", stockEdit(by("excelImport"), 4.0, 20.0), model.PageStockUpdate},
		{"unmatched attribution falls back to decrease", stockEdit(by("alice"), 8.0, 3.0), model.PageJobList},
		{"no attribution increase", stockEdit(nil, 3.0, 8.0), model.PageStockUpdate},
		{"empty attribution equal values", stockEdit(by(""), 5.0, 5.0), model.PageUnknown},
		{"numeric string is not numeric", stockEdit(nil, "5", 5.0), model.PageUnknown},
		{"both strings", stockEdit(nil, "9", "2"), model.PageUnknown},
		{"null values", stockEdit(nil, nil, 2.0), model.PageUnknown},
		{"object values", stockEdit(nil, map[string]any{"quantity": 2.0}, 1.0), model.PageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.InferStockPage(tt.entry))
		})
	}
}

func TestBelongs_RepairIsSubsetOfStock(t *testing.T) {
	entries := []model.LogEntry{
		stockEdit(by("repairTech1"), 10.0, 4.0),
		stockEdit(by("excelImport"), 4.0, 20.0),
		stockEdit(nil, 9.0, 1.0),
		stockEdit(nil, "5", 5.0),
		{EntityType: model.EntityJob, Field: "stock", ChangeType: "update", ChangedBy: by("repair")},
		{EntityType: model.EntityProduct, Field: "stock", ChangeType: "addExpense", OldValue: 9.0, NewValue: 1.0},
	}

	repairCount := 0
	for _, e := range entries {
		if classifier.Belongs(e, model.CategorySelectProductsForRepair) {
			repairCount++
			assert.True(t, classifier.Belongs(e, model.CategoryStock))
		}
		assert.True(t, classifier.Belongs(e, model.CategoryAll))
		assert.False(t, classifier.Belongs(e, model.CategoryExcelUploads))
	}
	assert.Equal(t, 2, repairCount)
}

func TestCartAction(t *testing.T) {
	assert.Equal(t, classifier.ActionAdd, classifier.CartAction(model.LogEntry{Field: "cart-add", ChangeType: "cart"}))
	assert.Equal(t, classifier.ActionUpdate, classifier.CartAction(model.LogEntry{Field: "cart-update", ChangeType: "cart"}))
	assert.Equal(t, classifier.ActionExcelStock, classifier.CartAction(model.LogEntry{Field: "stock", ChangeType: "addExpense"}))
	assert.Equal(t, "cart-remove", classifier.CartAction(model.LogEntry{Field: "cart-remove", ChangeType: "cart"}))
}
