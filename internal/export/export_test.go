package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/steelbid/internal/estimate"
)

func sampleBid() Bid {
	s := estimate.DefaultSettings()
	s.CompanyName = "Acme Steel"
	s.MaterialRatePerLb = estimate.N(1)
	s.LaborRatePerHour = estimate.N(100)
	s.HoursPerTonStructural = estimate.N(10)
	s.Markup = estimate.N(10)

	members := []estimate.Member{
		{ID: "1", Mark: "B1", Description: "Beam", Section: "W8X31", Category: estimate.Structural, Quantity: 2, LengthFt: 10},
		{ID: "2", Mark: "P1", Description: "Base plate", Section: "PL1/2X6", Category: estimate.Plate, Quantity: 1, LengthFt: 2},
		{ID: "3", Mark: "X1", Description: "Mystery", Section: "W99X99", Category: estimate.Structural, Quantity: 1, LengthFt: 5},
	}
	return Bid{
		JobName:  "Warehouse Mezzanine",
		Settings: s,
		Estimate: estimate.Compute(members, s),
		Date:     time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestXLSX_Contents(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, sampleBid()); err != nil {
		t.Fatalf("XLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != sheetName {
		t.Fatalf("expected only %q sheet, got %v", sheetName, sheets)
	}

	raw := excelize.Options{RawCellValue: true}
	tests := []struct {
		cell string
		want string
	}{
		{"A1", "Acme Steel"},
		{"A2", "Warehouse Mezzanine"},
		{"A3", "March 4, 2026"},
		{"A5", "Mark"},
		{"K5", "Notes"},
		{"A6", "B1"},
		{"C6", "W8X31"},
		{"E6", "2"},
		{"G6", "31"},
		{"H6", "620"},
		{"I6", "620"},
		{"J6", "310"},
		{"G7", "varies"},
		{"H7", "20.4"},
		{"G8", "?"},
		{"H8", ""},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(sheetName, tt.cell, raw)
			if err != nil {
				t.Fatalf("GetCellValue: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}

	rows, err := f.GetRows(sheetName, raw)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	var sawGrand, sawWarning bool
	for _, r := range rows {
		if len(r) >= 10 && r[8] == "Grand Total" {
			sawGrand = true
		}
		if len(r) > 0 && strings.Contains(r[0], "1 section(s) not found") {
			sawWarning = true
		}
	}
	if !sawGrand {
		t.Error("expected a Grand Total row")
	}
	if !sawWarning {
		t.Error("expected the unknown section warning")
	}
}

func TestXLSX_EmptyEstimate(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, Bid{Settings: estimate.DefaultSettings()}); err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue(sheetName, "A2"); got != "Untitled Job" {
		t.Errorf("A2 = %q, want Untitled Job", got)
	}
	if got, _ := f.GetCellValue(sheetName, "A1"); got != estimate.DefaultCompanyName {
		t.Errorf("A1 = %q, want %q", got, estimate.DefaultCompanyName)
	}
}

func TestPDF_Renders(t *testing.T) {
	var buf bytes.Buffer
	if err := PDF(&buf, sampleBid()); err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestPDF_ManyRowsPaginates(t *testing.T) {
	b := sampleBid()
	members := make([]estimate.Member, 0, 120)
	for i := range 120 {
		members = append(members, estimate.Member{
			ID: fmt.Sprint(i), Mark: fmt.Sprintf("B%d", i), Section: "W12X26",
			Category: estimate.Structural, Quantity: 1, LengthFt: 20,
			Notes: "a fairly long note that will not fit in the notes column of the bid sheet",
		})
	}
	b.Estimate = estimate.Compute(members, b.Settings)

	var buf bytes.Buffer
	if err := PDF(&buf, b); err != nil {
		t.Fatalf("PDF: %v", err)
	}
	m := regexp.MustCompile(`/Count (\d+)`).FindSubmatch(buf.Bytes())
	if m == nil {
		t.Fatal("page tree not found")
	}
	if n, _ := strconv.Atoi(string(m[1])); n < 2 {
		t.Errorf("expected the bid sheet to span several pages, got %d", n)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"Warehouse Mezzanine", "xlsx", "warehouse-mezzanine-bid.xlsx"},
		{"  Lot #4 / Phase 2 ", "pdf", "lot-4-phase-2-bid.pdf"},
		{"", "pdf", "estimate-bid.pdf"},
		{"!!!", "xlsx", "estimate-bid.xlsx"},
	}
	for _, tt := range tests {
		if got := Filename(tt.in, tt.ext); got != tt.want {
			t.Errorf("Filename(%q, %q) = %q, want %q", tt.in, tt.ext, got, tt.want)
		}
	}
}
