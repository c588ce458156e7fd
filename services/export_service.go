package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/blogem/caseledger/models"
)

const (
	exportSheetName = "Records"
	maxColumnWidth  = 50
)

// Export is a generated workbook
type Export struct {
	FileName string
	Data     []byte
	Rows     int
}

// ExportService interface defines spreadsheet export logic
type ExportService interface {
	Export(ctx context.Context, serials []int) (*Export, error)
}

// exportService implements ExportService interface
type exportService struct {
	records RecordService
}

// NewExportService creates a new export service
func NewExportService(records RecordService) ExportService {
	return &exportService{records: records}
}

// Export writes the listing to an xlsx workbook. Columns follow the sheet's
// header row, blank headers are dropped. A non-empty serials list limits the
// export to those records.
func (s *exportService) Export(ctx context.Context, serials []int) (*Export, error) {
	set, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}

	schema := s.records.Schema()

	var columns []int
	var headers []string
	for idx, h := range set.Headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		columns = append(columns, idx)
		headers = append(headers, h)
	}
	if len(columns) == 0 {
		return nil, models.ValidationErrors{{Field: "headers", Message: "no valid columns to export"}}
	}

	records := filterSerials(set.Records, serials)

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(columns))
		for j, idx := range columns {
			row[j] = cellValue(schema, rec, idx)
		}
		rows[i] = row
	}

	data, err := buildWorkbook(headers, rows)
	if err != nil {
		return nil, err
	}

	return &Export{
		FileName: fmt.Sprintf("records_export_%s.xlsx", models.FormatDate(timeNow())),
		Data:     data,
		Rows:     len(rows),
	}, nil
}

func filterSerials(records []models.Record, serials []int) []models.Record {
	if len(serials) == 0 {
		return records
	}

	wanted := make(map[int]bool, len(serials))
	for _, s := range serials {
		wanted[s] = true
	}

	var out []models.Record
	for _, r := range records {
		if wanted[r.Serial] {
			out = append(out, r)
		}
	}
	return out
}

func cellValue(schema *models.Schema, rec models.Record, idx int) string {
	if col, ok := schema.FieldAt(idx); ok {
		return rec.Get(col.Field)
	}
	return rec.Unmapped[idx]
}

func buildWorkbook(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rtl := true
	if err := f.SetSheetView(exportSheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return nil, fmt.Errorf("failed to set sheet view: %w", err)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
		for i, v := range row {
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheetName, name, name, float64(min(w+2, maxColumnWidth))); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
