package export

import (
	"fmt"
	"io"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet writes rows as a single-sheet XLSX workbook.
type Spreadsheet struct {
	Labels Labels
}

// Write emits a header row followed by one row per record, columns in the
// order number, avatar, name, phone. Numeric phones stay numeric cells.
func (s Spreadsheet) Write(w io.Writer, rows []Row) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: %w", config.ErrSpreadsheet, cerr)
		}
	}()

	sheet := f.GetSheetName(0)
	if name := s.Labels.Sheet; name != "" && name != sheet {
		if err := f.SetSheetName(sheet, name); err != nil {
			return fmt.Errorf("%s: %w", config.ErrSpreadsheet, err)
		}
		sheet = name
	}

	header := make([]any, len(s.Labels.Columns))
	for i, col := range s.Labels.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSpreadsheet, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSpreadsheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSpreadsheet, err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrSpreadsheet, err)
		}
		values := []any{r.Number, r.Avatar, r.Name, r.Phone.Value()}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("%s: %w", config.ErrSpreadsheet, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSpreadsheet, err)
	}
	return nil
}
