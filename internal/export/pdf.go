package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/dgallion1/steelbid/internal/estimate"
)

// PDF column widths in mm for a landscape letter page (259mm usable).
var pdfWidths = []float64{16, 44, 26, 20, 10, 16, 14, 22, 20, 20, 51}

// PDF writes the bid as a printable landscape bid sheet.
func PDF(w io.Writer, b Bid) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	s := b.Settings.WithDefaults()

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s - page %d", tr(b.jobName()), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for i, c := range columns {
			pdf.CellFormat(pdfWidths[i], 7, c.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.AddPage()

	// Header band.
	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(10, 10, 259, 22, "F")
	pdf.SetXY(12, 12)
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(150, 9, tr(s.CompanyName))
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 9, b.date().Format("January 2, 2006"), "", 0, "R", false, 0, "")
	pdf.SetXY(12, 22)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(150, 8, tr("Bid: "+b.jobName()))
	pdf.SetY(36)

	header()
	for _, r := range b.Estimate.Rows {
		if pdf.GetY() > 190 {
			pdf.AddPage()
			header()
		}
		cells := []struct {
			text  string
			align string
		}{
			{r.Mark, "L"},
			{r.Description, "L"},
			{r.Section, "L"},
			{string(r.Category), "L"},
			{strconv.Itoa(r.Quantity), "R"},
			{lengthText(r.LengthFt), "R"},
			{perFootText(r), "R"},
			{estimate.FormatOptional(r.TotalWeight, estimate.FormatWeight), "R"},
			{estimate.FormatOptional(r.MaterialCost, estimate.FormatMoney), "R"},
			{estimate.FormatOptional(r.LaborCost, estimate.FormatMoney), "R"},
			{r.Notes, "L"},
		}
		for i, c := range cells {
			text := fit(pdf, tr(c.text), pdfWidths[i]-2)
			pdf.CellFormat(pdfWidths[i], 6, text, "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totals block.
	t := b.Estimate.Totals
	pdf.Ln(4)
	if pdf.GetY() > 160 {
		pdf.AddPage()
	}
	lines := []totalLine{
		{"Total Weight", fmt.Sprintf("%s (%.2f tons)", estimate.FormatWeight(t.WeightLbs), t.WeightTons), false},
		{"Material Cost", estimate.FormatMoney(t.MaterialCost), false},
		{"Labor Cost", estimate.FormatMoney(t.LaborCost), false},
		{"Subtotal", estimate.FormatMoney(t.TotalCost), false},
	}
	if s.Markup.Set {
		lines = append(lines, totalLine{fmt.Sprintf("Markup (%s%%)", estimate.FormatNumber(t.MarkupPct)), estimate.FormatMoney(t.MarkupAmount), false})
	}
	lines = append(lines, totalLine{"Grand Total", estimate.FormatMoney(t.GrandTotal), true})

	for _, l := range lines {
		style := ""
		if l.bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.SetX(169)
		pdf.CellFormat(50, 7, l.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, l.value, "1", 1, "R", false, 0, "")
	}
	if t.UnknownCount > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, fmt.Sprintf("%d section(s) not found in the AISC table; their weight is excluded from the totals.", t.UnknownCount), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type totalLine struct {
	label string
	value string
	bold  bool
}

func lengthText(ft float64) string {
	if ft <= 0 {
		return "--"
	}
	return strconv.FormatFloat(ft, 'f', -1, 64)
}

func perFootText(r estimate.Row) string {
	switch {
	case r.LbsPerFt.Varies:
		return "varies"
	case r.LbsPerFt.Known:
		return r.LbsPerFt.String()
	case r.UnknownSection:
		return "?"
	default:
		return "--"
	}
}

// fit shortens text with a trailing ".." until it fits in width mm.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth(text+"..") > width {
		text = text[:len(text)-1]
	}
	return text + ".."
}
