// Package export renders lead lists as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/intlakaa/internal/model"
	"github.com/xuri/excelize/v2"
)

const sheetName = "الطلبات"

var headers = []string{"الاسم", "رقم الهاتف", "رابط المتجر", "المبيعات الشهرية", "الدولة", "مفتاح الدولة", "تاريخ الإنشاء"}

var columnWidths = []float64{25, 18, 40, 20, 18, 14, 22}

// WriteLeadsXLSX writes leads as a right-to-left workbook with Arabic
// headers. Dates are formatted in loc.
func WriteLeadsXLSX(w io.Writer, leads []model.Lead, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rtl := true
	if err := f.SetSheetView(sheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("failed to set sheet view: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &row); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, lead := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			lead.Name,
			lead.Phone,
			lead.StoreURL,
			lead.MonthlySales,
			deref(lead.Country),
			deref(lead.PhoneCountry),
			lead.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Filename returns the download name for an export taken at t.
func Filename(t time.Time) string {
	return "requests-" + t.Format("2006-01-02") + ".xlsx"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
