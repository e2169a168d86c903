// internal/services/export_service.go
package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/clubhub/ads-backend/internal/models"
)

const emptyExportSheet = "Bookings"

var exportHeader = []interface{}{
	"Ad ID", "Ad Name", "Club ID", "Client ID", "Branch", "Status",
	"Start Date", "End Date", "Duration Days", "Price Per Day",
	"Total Budget", "Payment Method", "Payment Status",
}

// BookingSource lists reserved ads for a date range.
type BookingSource interface {
	ReservedBookings(ctx context.Context, window models.Window) ([]*models.Ad, error)
}

// ExportService renders reserved bookings as an xlsx workbook with one
// sheet per inventory key.
type ExportService struct {
	source BookingSource
}

func NewExportService(source BookingSource) *ExportService {
	return &ExportService{source: source}
}

func (s *ExportService) ExportBookings(ctx context.Context, window models.Window) ([]byte, error) {
	ads, err := s.source.ReservedBookings(ctx, window)
	if err != nil {
		return nil, err
	}

	groups := make(map[models.InventoryKey][]*models.Ad)
	var keys []models.InventoryKey
	for _, ad := range ads {
		key := ad.InventoryKey()
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], ad)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].AdType != keys[j].AdType {
			return keys[i].AdType < keys[j].AdType
		}
		return keys[i].ListingPosition < keys[j].ListingPosition
	})

	f := excelize.NewFile()
	defer f.Close()

	if len(keys) == 0 {
		if err := f.SetSheetName("Sheet1", emptyExportSheet); err != nil {
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
		if err := f.SetSheetRow(emptyExportSheet, "A1", &exportHeader); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		return writeWorkbook(f)
	}

	for i, key := range keys {
		sheet := key.String()
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := writeBookingSheet(f, sheet, groups[key]); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	return writeWorkbook(f)
}

func writeBookingSheet(f *excelize.File, sheet string, ads []*models.Ad) error {
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	sort.Slice(ads, func(i, j int) bool {
		return ads[i].StartDate.Before(ads[j].StartDate)
	})

	for i, ad := range ads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			ad.ID.String(),
			ad.AdName,
			optionalInt64(ad.ClubID),
			optionalInt64(ad.ClientID),
			optionalString(ad.Branchname),
			string(ad.Status),
			ad.StartDate.String(),
			ad.EndDate.String(),
			ad.DurationDays,
			ad.PricePerDay.InexactFloat64(),
			ad.TotalBudget.InexactFloat64(),
			string(ad.PaymentMethod),
			string(ad.PaymentStatus),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func optionalInt64(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
