// Package export renders chart data as downloadable spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fleetboard/internal/chart"
)

// WriteXLSX writes one worksheet named title with the chart's labels in
// the first column and one column per dataset.
func WriteXLSX(w io.Writer, title string, data chart.ChartData) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetSheetName(sheet, title); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1B4F72"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	headers := append([]string{"Label"}, datasetLabels(data)...)
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(title, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(title, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for row, label := range data.Labels {
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return fmt.Errorf("label cell: %w", err)
		}
		if err := f.SetCellValue(title, cell, label); err != nil {
			return fmt.Errorf("write label: %w", err)
		}
		for col, ds := range data.Datasets {
			cell, err := excelize.CoordinatesToCellName(col+2, row+2)
			if err != nil {
				return fmt.Errorf("value cell: %w", err)
			}
			if err := f.SetCellValue(title, cell, seriesValue(ds, row, label)); err != nil {
				return fmt.Errorf("write value: %w", err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err == nil {
		_ = f.SetColWidth(title, "A", lastCol, 18)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func datasetLabels(data chart.ChartData) []string {
	labels := make([]string, len(data.Datasets))
	for i, ds := range data.Datasets {
		labels[i] = ds.Label
	}
	return labels
}

// seriesValue resolves the dataset's value for a label, whether the
// series carries bare data or percentage points.
func seriesValue(ds chart.Dataset, row int, label string) float64 {
	if row < len(ds.Data) {
		return ds.Data[row]
	}
	for _, p := range ds.Points {
		if p.X == label {
			return p.Y
		}
	}
	return 0
}
