package filter

import (
	"time"

	"loghistory-backend/internal/model"
)

// UploadRow is an Excel upload with each listed product dated from the product list.
type UploadRow struct {
	Upload   model.ExcelUploadRecord
	Products []UploadProductRow
}

type UploadProductRow struct {
	Item model.ExcelUploadedItem
	// CreatedAt is zero on a join miss.
	CreatedAt time.Time
	Matched   bool
}

// JoinUploads dates every uploaded product by matching it against products:
// the first product with the same itemName wins, otherwise the first with the
// same itemCode. Empty names and codes never match. A miss is not an error.
func JoinUploads(uploads []model.ExcelUploadRecord, products []model.Product) []UploadRow {
	rows := make([]UploadRow, 0, len(uploads))
	for _, u := range uploads {
		row := UploadRow{Upload: u, Products: make([]UploadProductRow, 0, len(u.Products))}
		for _, item := range u.Products {
			pr := UploadProductRow{Item: item}
			if p, ok := findProduct(products, item); ok {
				pr.Matched = true
				pr.CreatedAt = p.CreatedAt
			}
			row.Products = append(row.Products, pr)
		}
		rows = append(rows, row)
	}
	return rows
}

func findProduct(products []model.Product, item model.ExcelUploadedItem) (model.Product, bool) {
	if item.ItemName != "" {
		for _, p := range products {
			if p.ItemName == item.ItemName {
				return p, true
			}
		}
	}
	if item.ItemCode != "" {
		for _, p := range products {
			if p.ItemCode == item.ItemCode {
				return p, true
			}
		}
	}
	return model.Product{}, false
}
