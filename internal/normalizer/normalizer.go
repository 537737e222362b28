package normalizer

import (
	"fmt"

	"loghistory-backend/internal/model"
)

// Source names the upstream fields that identify and label an entity.
type Source struct {
	Type      model.EntityType
	IDField   string
	NameField string
}

var (
	Products  = Source{Type: model.EntityProduct, IDField: "itemCode", NameField: "itemName"}
	Suppliers = Source{Type: model.EntitySupplier, IDField: "supplierName", NameField: "businessName"}
	Jobs      = Source{Type: model.EntityJob, IDField: "repairInvoice", NameField: "customerName"}
)

// Normalize flattens every entity's change history into log entries, keeping
// per-entity order. Entities without history contribute nothing. Only an
// absent entity sequence is an error.
func Normalize(entities []model.RawEntity, src Source) ([]model.LogEntry, error) {
	if entities == nil {
		return nil, fmt.Errorf("normalize %s: %w", src.Type, model.ErrInputShape)
	}

	total := 0
	for _, e := range entities {
		total += len(e.ChangeHistory)
	}
	entries := make([]model.LogEntry, 0, total)

	for _, entity := range entities {
		if len(entity.ChangeHistory) == 0 {
			continue
		}
		id := entity.Text(src.IDField)
		name := entity.Text(src.NameField)
		if name == "" {
			name = id
		}
		for _, ev := range entity.ChangeHistory {
			entries = append(entries, model.LogEntry{
				EntityType:  src.Type,
				EntityID:    id,
				EntityName:  name,
				Field:       ev.Field,
				ChangeType:  ev.ChangeType,
				OldValue:    ev.OldValue,
				NewValue:    ev.NewValue,
				ChangedBy:   ev.ChangedBy,
				ChangedAt:   ev.ChangedAt,
				ItemName:    ev.ItemName,
				ProductName: ev.ProductName,
			})
		}
	}
	return entries, nil
}
