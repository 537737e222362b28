package model

import (
	"encoding/json"
	"time"
)

// ExcelUploadRecord describes one spreadsheet import on the products API.
type ExcelUploadRecord struct {
	Filename   string              `json:"filename"`
	UploadedBy string              `json:"uploadedBy"`
	Products   []ExcelUploadedItem `json:"products"`
}

type ExcelUploadedItem struct {
	ItemCode string `json:"itemCode"`
	ItemName string `json:"itemName"`
	Action   string `json:"action"`
}

// Product is the subset of a product record needed to date an upload.
type Product struct {
	ItemCode  string    `json:"itemCode"`
	ItemName  string    `json:"itemName"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var aux struct {
		ItemCode  any `json:"itemCode"`
		ItemName  any `json:"itemName"`
		CreatedAt any `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ItemCode = stringOf(aux.ItemCode)
	p.ItemName = stringOf(aux.ItemName)
	p.CreatedAt = timeOf(aux.CreatedAt)
	return nil
}
