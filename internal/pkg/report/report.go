// Package report renders salary slips as documents: a single-slip PDF and a
// payroll workbook.
package report

import (
	"bytes"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName = "Payroll"

	// excelize built-in number format "0.00"
	numFmtTwoDecimals = 2
)

var workbookHeaders = []string{"Code", "Name", "Month", "Basic", "HRA", "Allowances", "Deductions", "Net Pay"}

type Renderer struct {
	currency string
	compress bool
}

// NewRenderer returns a renderer that prefixes PDF amounts with currency.
// Uncompressed PDFs keep their page text readable in the raw output.
func NewRenderer(currency string, compress bool) *Renderer {
	return &Renderer{currency: currency, compress: compress}
}

func (r *Renderer) money(d decimal.Decimal) string {
	if r.currency == "" {
		return d.StringFixed(2)
	}
	return r.currency + " " + d.StringFixed(2)
}

// SlipPDF implements payroll.SlipRenderer.
func (r *Renderer) SlipPDF(slip payroll.SalarySlip) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle("Salary Slip", false)
	pdf.SetCreationDate(slip.UpdatedAt)
	pdf.SetModificationDate(slip.UpdatedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Salary Slip", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	label := func(name, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, name, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	label("Employee", fmt.Sprintf("%s - %s", slip.Employee.Code, slip.Employee.FullName()))
	label("Department / Designation", fmt.Sprintf("%s / %s", slip.Employee.Department, slip.Employee.Designation))
	label("Month", slip.Month.Format("January 2006"))
	pdf.Ln(4)

	row := func(name string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(120, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, r.money(amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 9, "Earnings", "", 1, "L", false, 0, "")
	row("Basic", slip.Basic, false)
	row("HRA (20%)", slip.HRA, false)
	row("Allowances", slip.Allowances, false)
	row("Gross", slip.Gross(), true)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 9, "Deductions", "", 1, "L", false, 0, "")
	row("Total", slip.Deductions, false)
	pdf.Ln(4)

	row("Net Pay", slip.NetPay, true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// PayrollWorkbook implements payroll.SlipRenderer.
func (r *Renderer) PayrollWorkbook(slips []payroll.SalarySlip) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return nil, err
	}

	for i, header := range workbookHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(workbookHeaders), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, slip := range slips {
		rowNo := i + 2
		values := []interface{}{
			slip.Employee.Code,
			slip.Employee.FullName(),
			slip.Month.Format("2006-01"),
			slip.Basic.InexactFloat64(),
			slip.HRA.InexactFloat64(),
			slip.Allowances.InexactFloat64(),
			slip.Deductions.InexactFloat64(),
			slip.NetPay.InexactFloat64(),
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNo)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return nil, err
		}
	}

	if len(slips) > 0 {
		first, _ := excelize.CoordinatesToCellName(4, 2)
		last, _ := excelize.CoordinatesToCellName(len(workbookHeaders), len(slips)+1)
		if err := f.SetCellStyle(SheetName, first, last, amountStyle); err != nil {
			return nil, err
		}
	}

	for _, col := range []struct {
		start, end string
		width      float64
	}{
		{"A", "A", 12},
		{"B", "B", 28},
		{"C", "H", 14},
	} {
		if err := f.SetColWidth(SheetName, col.start, col.end, col.width); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
