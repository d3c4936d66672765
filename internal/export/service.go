package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"logidocs/internal/entity"
)

// Service produces XLSX bytes for the documents dashboard.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// DocumentsXLSX returns an XLSX workbook (as bytes) listing the saved
// documents in table order.
func (s *Service) DocumentsXLSX(docs []*entity.Document) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet excelize creates alongside ours.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 && sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"ID",
		"Filename",
		"Tracking Number",
		"Carrier",
		"Shipper",
		"Receiver",
		"Status",
		"Weight",
		"Dimensions",
		"Shipment Date",
		"Delivery Date",
		"Created At",
		"Storage URL",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	row := 2
	for _, d := range docs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, d.ID)
		write(2, d.Filename)
		write(3, str(d.TrackingNumber))
		write(4, str(d.Carrier))
		write(5, str(d.ShipperName))
		write(6, str(d.ReceiverName))
		write(7, str(d.Status))
		write(8, str(d.Weight))
		write(9, str(d.Dimensions))
		write(10, str(d.ShipmentDate))
		write(11, str(d.DeliveryDate))
		if !d.CreatedAt.IsZero() {
			write(12, d.CreatedAt.Format(time.RFC3339))
		} else {
			write(12, "")
		}
		write(13, str(d.StorageURL))
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.documents.completed",
		"rows", len(docs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
