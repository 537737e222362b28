package service

import (
	"time"

	"loghistory-backend/internal/dto"
	"loghistory-backend/internal/filter"
	"loghistory-backend/internal/model"
	"loghistory-backend/internal/normalizer"
	"loghistory-backend/internal/util"
)

func (s *logHistoryService) date(t time.Time) string {
	return util.FormatDisplayTime(t, s.location, s.layout, util.NotAvailable)
}

func (s *logHistoryService) logRows(rows []filter.Row) []dto.LogRowResponse {
	out := make([]dto.LogRowResponse, len(rows))
	for i, r := range rows {
		e := r.Entry
		out[i] = dto.LogRowResponse{
			Entity:     e.EntityType.Label(),
			EntityType: e.EntityType,
			EntityName: e.EntityName,
			Field:      e.Field,
			ChangeType: e.ChangeType,
			OldValue:   util.FormatValue(e.OldValue),
			NewValue:   util.FormatValue(e.NewValue),
			ChangedBy:  e.ChangedByText(),
			ChangedAt:  timePtr(e.ChangedAt),
			Date:       s.date(e.ChangedAt),
		}
	}
	return out
}

func (s *logHistoryService) cartRows(rows []filter.Row) []dto.CartRowResponse {
	out := make([]dto.CartRowResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.CartRowResponse{
			Supplier:  r.Entry.EntityName,
			Item:      r.ItemName,
			Action:    r.Action,
			Quantity:  r.Quantity,
			AddedBy:   r.Entry.ChangedByText(),
			ChangedAt: timePtr(r.Entry.ChangedAt),
			Date:      s.date(r.Entry.ChangedAt),
		}
	}
	return out
}

func (s *logHistoryService) stockRows(rows []filter.Row) []dto.StockRowResponse {
	out := make([]dto.StockRowResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.StockRowResponse{
			Product:   filter.ProductLabel(r.Entry),
			Page:      r.Page,
			Field:     r.Entry.Field,
			OldValue:  util.FormatValue(r.Entry.OldValue),
			NewValue:  util.FormatValue(r.Entry.NewValue),
			EditedBy:  r.Entry.ChangedByText(),
			ChangedAt: timePtr(r.Entry.ChangedAt),
			Date:      s.date(r.Entry.ChangedAt),
		}
	}
	return out
}

func (s *logHistoryService) repairRows(rows []filter.Row) []dto.RepairRowResponse {
	out := make([]dto.RepairRowResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.RepairRowResponse{
			Product:   filter.ProductLabel(r.Entry),
			OldStock:  util.FormatValue(r.Entry.OldValue),
			NewStock:  util.FormatValue(r.Entry.NewValue),
			EditedBy:  r.Entry.ChangedByText(),
			ChangedAt: timePtr(r.Entry.ChangedAt),
			Date:      s.date(r.Entry.ChangedAt),
		}
	}
	return out
}

func (s *logHistoryService) uploadRows(joined []filter.UploadRow) []dto.UploadResponse {
	out := make([]dto.UploadResponse, len(joined))
	for i, u := range joined {
		products := make([]dto.UploadProductResponse, len(u.Products))
		for j, p := range u.Products {
			createdAt := util.NotAvailable
			if p.Matched {
				createdAt = s.date(p.CreatedAt)
			}
			products[j] = dto.UploadProductResponse{
				ItemCode:  p.Item.ItemCode,
				ItemName:  p.Item.ItemName,
				Action:    p.Item.Action,
				CreatedAt: createdAt,
			}
		}
		out[i] = dto.UploadResponse{
			Filename:   u.Upload.Filename,
			UploadedBy: u.Upload.UploadedBy,
			Products:   products,
		}
	}
	return out
}

func jobSummaries(jobs []model.RawEntity) []dto.JobSummary {
	out := make([]dto.JobSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, dto.JobSummary{
			RepairInvoice: j.Text(normalizer.Jobs.IDField),
			CustomerName:  j.Text(normalizer.Jobs.NameField),
			Changes:       len(j.ChangeHistory),
		})
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
