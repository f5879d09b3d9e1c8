package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/steelbid/internal/estimate"
)

const sheetName = "Estimate"

var (
	weightFmt = "#,##0"
	moneyFmt  = `"$"#,##0`
)

// XLSX writes the bid as an Excel workbook with one "Estimate" sheet.
func XLSX(w io.Writer, b Bid) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Family: "Arial"},
	})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Family: "Arial", Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	weightStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &weightFmt})
	if err != nil {
		return fmt.Errorf("weight style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return fmt.Errorf("total style: %w", err)
	}

	s := b.Settings.WithDefaults()
	f.SetCellValue(sheetName, "A1", s.CompanyName)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetCellValue(sheetName, "A2", b.jobName())
	f.SetCellValue(sheetName, "A3", b.date().Format("January 2, 2006"))

	const headerRow = 5
	for i, c := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, c.width)
		f.SetCellValue(sheetName, cell(i+1, headerRow), c.title)
	}
	f.SetCellStyle(sheetName, cell(1, headerRow), cell(len(columns), headerRow), headerStyle)

	row := headerRow + 1
	for _, r := range b.Estimate.Rows {
		f.SetCellValue(sheetName, cell(1, row), r.Mark)
		f.SetCellValue(sheetName, cell(2, row), r.Description)
		f.SetCellValue(sheetName, cell(3, row), r.Section)
		f.SetCellValue(sheetName, cell(4, row), string(r.Category))
		f.SetCellValue(sheetName, cell(5, row), r.Quantity)
		if r.LengthFt > 0 {
			f.SetCellValue(sheetName, cell(6, row), r.LengthFt)
		}
		switch {
		case r.LbsPerFt.Varies:
			f.SetCellValue(sheetName, cell(7, row), "varies")
		case r.LbsPerFt.Known:
			f.SetCellValue(sheetName, cell(7, row), r.LbsPerFt.Value)
		case r.UnknownSection:
			f.SetCellValue(sheetName, cell(7, row), "?")
		}
		setOptional(f, cell(8, row), r.TotalWeight, weightStyle)
		setOptional(f, cell(9, row), r.MaterialCost, moneyStyle)
		setOptional(f, cell(10, row), r.LaborCost, moneyStyle)
		f.SetCellValue(sheetName, cell(11, row), r.Notes)
		row++
	}

	t := b.Estimate.Totals
	row++
	totals := []struct {
		label string
		value float64
		style int
	}{
		{"Total Weight (lbs)", t.WeightLbs, weightStyle},
		{"Total Weight (tons)", t.WeightTons, 0},
		{"Material Cost", t.MaterialCost, moneyStyle},
		{"Labor Cost", t.LaborCost, moneyStyle},
		{"Subtotal", t.TotalCost, moneyStyle},
		{fmt.Sprintf("Markup (%s%%)", estimate.FormatNumber(t.MarkupPct)), t.MarkupAmount, moneyStyle},
		{"Grand Total", t.GrandTotal, totalStyle},
	}
	for _, tr := range totals {
		f.SetCellValue(sheetName, cell(9, row), tr.label)
		f.SetCellValue(sheetName, cell(10, row), tr.value)
		if tr.style != 0 {
			f.SetCellStyle(sheetName, cell(10, row), cell(10, row), tr.style)
		}
		row++
	}
	if t.UnknownCount > 0 {
		row++
		f.SetCellValue(sheetName, cell(1, row),
			fmt.Sprintf("%d section(s) not found in the AISC table; their weight is excluded.", t.UnknownCount))
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cell(1, headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setOptional(f *excelize.File, c string, v *float64, style int) {
	if v == nil {
		return
	}
	f.SetCellValue(sheetName, c, *v)
	f.SetCellStyle(sheetName, c, c, style)
}
