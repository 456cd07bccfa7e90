package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/velsec/sharescout/internal/aggregate"
)

var xlsxHeader = []string{"Computer FQDN", "Computer IP", "Share name", "Share comment", "Is hidden"}

// WriteXLSX writes one flat row per share to a workbook at path, with a bold
// header row and an autofilter spanning the written range.
func WriteXLSX(path string, rs *aggregate.ResultSet) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(xlsxHeader))
	for i, h := range xlsxHeader {
		header[i] = h
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(len(h)+3)); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", bold); err != nil {
		return err
	}

	row := 2
	for _, host := range rs.Hosts() {
		for _, rec := range rs.Shares(host) {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			err = f.SetSheetRow(sheet, cell, &[]interface{}{
				rec.HostFQDN, rec.HostIP, rec.Name, rec.Comment, rec.Hidden,
			})
			if err != nil {
				return err
			}
			row++
		}
	}

	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:E%d", row-1), nil); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
