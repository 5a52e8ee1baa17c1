package services

import (
	"bytes"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/xuri/excelize/v2"
)

// FinanceReportRow is one budget line of the financial report.
type FinanceReportRow struct {
	JobName         string
	Cliente         string
	Status          string
	DataPagamento   string
	ValorFinal      float64
	ValorPago       float64
	StatusPagamento string
}

// FinanceReport aggregates the financial standing of a set of budgets.
type FinanceReport struct {
	Periodo       string
	Rows          []FinanceReportRow
	TotalBudgets  int
	ValorTotal    float64
	ValorPago     float64
	ValorPendente float64
}

// BuildFinanceReport computes the report totals over the given rows.
// Pending value is the final value minus what was already paid, never
// negative per row.
func BuildFinanceReport(periodo string, rows []FinanceReportRow) FinanceReport {
	report := FinanceReport{Periodo: periodo, Rows: rows, TotalBudgets: len(rows)}
	for _, r := range rows {
		report.ValorTotal += r.ValorFinal
		report.ValorPago += r.ValorPago
		pendente := r.ValorFinal - r.ValorPago
		if pendente > 0 {
			report.ValorPendente += pendente
		}
	}
	report.ValorTotal = Round2(report.ValorTotal)
	report.ValorPago = Round2(report.ValorPago)
	report.ValorPendente = Round2(report.ValorPendente)
	return report
}

// GenerateFinanceExcel writes the financial report as an Excel workbook.
func GenerateFinanceExcel(report FinanceReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Financeiro"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]
	widths := []float64{32, 26, 14, 14, 16, 16, 14}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}
	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}
	summaryValueStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", "Relatório Financeiro")
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if report.Periodo != "" {
		if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge period: %w", err)
		}
		f.SetCellValue(sheetName, "A2", "Período: "+report.Periodo)
	}

	headers := []string{"Job", "Cliente", "Status", "Pagamento", "Valor Final", "Valor Pago", "Situação"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s4", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	rowNum := 5
	for _, r := range report.Rows {
		rowStr := fmt.Sprintf("%d", rowNum)
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(r.JobName))
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Cliente))
		f.SetCellValue(sheetName, "C"+rowStr, r.Status)
		f.SetCellValue(sheetName, "D"+rowStr, r.DataPagamento)
		f.SetCellValue(sheetName, "E"+rowStr, FormatBRL(r.ValorFinal))
		f.SetCellValue(sheetName, "F"+rowStr, FormatBRL(r.ValorPago))
		f.SetCellValue(sheetName, "G"+rowStr, r.StatusPagamento)
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, bodyStyle)
		rowNum++
	}

	rowNum++
	addSummary := func(label string, amount float64) {
		rowStr := fmt.Sprintf("%d", rowNum)
		f.SetCellValue(sheetName, "D"+rowStr, label)
		f.SetCellStyle(sheetName, "D"+rowStr, "D"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "E"+rowStr, FormatBRL(amount))
		f.SetCellStyle(sheetName, "E"+rowStr, "E"+rowStr, summaryValueStyle)
		rowNum++
	}
	addSummary("Valor Total:", report.ValorTotal)
	addSummary("Valor Pago:", report.ValorPago)
	addSummary("Valor Pendente:", report.ValorPendente)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateFinanceReportPDF renders the confirmed-budgets report for a period.
func GenerateFinanceReportPDF(report FinanceReport, geradoEm string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Relatório de Orçamentos Confirmados", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	if report.Periodo != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New("Período: "+report.Periodo, props.Text{
						Size:  9,
						Align: align.Left,
						Color: &props.Color{Red: 80, Green: 80, Blue: 80},
					}),
				),
			),
		)
	}
	m.AddRows(row.New(4))

	headerBg := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerLeft := headerText
	headerLeft.Align = align.Left

	m.AddRows(
		row.New(8).Add(
			col.New(4).Add(text.New("Job", headerLeft)).WithStyle(headerBg),
			col.New(3).Add(text.New("Cliente", headerLeft)).WithStyle(headerBg),
			col.New(1).Add(text.New("Status", headerText)).WithStyle(headerBg),
			col.New(2).Add(text.New("Pagamento", headerText)).WithStyle(headerBg),
			col.New(2).Add(text.New("Valor Final", headerText)).WithStyle(headerBg),
		),
	)

	body := props.Text{Size: 7, Align: align.Center}
	bodyLeft := body
	bodyLeft.Align = align.Left
	bodyRight := body
	bodyRight.Align = align.Right

	for _, r := range report.Rows {
		m.AddRows(
			row.New(6).Add(
				col.New(4).Add(text.New(r.JobName, bodyLeft)),
				col.New(3).Add(text.New(r.Cliente, bodyLeft)),
				col.New(1).Add(text.New(r.Status, body)),
				col.New(2).Add(text.New(r.DataPagamento, body)),
				col.New(2).Add(text.New(FormatBRL(r.ValorFinal), bodyRight)),
			),
		)
	}

	m.AddRows(row.New(6))
	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New(fmt.Sprintf("Total (%d orçamentos)", report.TotalBudgets), label)).WithStyle(summaryCell),
			col.New(4).Add(text.New(FormatBRL(report.ValorTotal), label)).WithStyle(summaryCell),
		),
	)

	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Gerado em %s", geradoEm), props.Text{
					Size:  7,
					Align: align.Left,
					Color: &props.Color{Red: 140, Green: 140, Blue: 140},
				}),
			),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate finance report PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders for all four sides of a cell.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
