package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateBudgetPDF renders a budget document with its items grouped by
// category and the discount breakdown at the bottom. Returns the raw PDF
// bytes.
func GenerateBudgetPDF(data BudgetExportData) ([]byte, error) {
	cfg := config.NewBuilder().
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

	addBudgetHeader(m, data)

	for _, group := range data.Groups {
		addGroupSection(m, data, group)
	}

	addBreakdownSummary(m, data.Breakdown)

	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Gerado em %s", data.GeradoEm), props.Text{
					Size:  7,
					Align: align.Left,
					Color: &props.Color{Red: 140, Green: 140, Blue: 140},
				}),
			),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate budget PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addBudgetHeader(m core.Maroto, data BudgetExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.JobName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	meta := props.Text{
		Size:  9,
		Align: align.Left,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}
	metaRight := meta
	metaRight.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("Cliente: "+data.ClienteNome, meta)),
			col.New(6).Add(text.New("Responsável: "+data.Responsavel, metaRight)),
		),
		row.New(7).Add(
			col.New(6).Add(text.New(fmt.Sprintf("Período: %s a %s", data.DataInicio, data.DataFim), meta)),
			col.New(6).Add(text.New("Status: "+data.Status, metaRight)),
		),
	)

	m.AddRows(row.New(4))
}

func addGroupSection(m core.Maroto, data BudgetExportData, group BudgetExportGroup) {
	// Category banner
	bannerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(
				text.New(group.Categoria, props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: &props.Color{Red: 255, Green: 255, Blue: 255},
				}),
			).WithStyle(&props.Cell{BackgroundColor: bannerBg}),
			col.New(3).Add(
				text.New(FormatBRL(group.Total), props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 255, Green: 255, Blue: 255},
				}),
			).WithStyle(&props.Cell{BackgroundColor: bannerBg}),
		),
	)

	headerText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center}
	headerLeft := headerText
	headerLeft.Align = align.Left
	headerBg := &props.Cell{BackgroundColor: &props.Color{Red: 235, Green: 235, Blue: 235}}

	if data.Interno {
		m.AddRows(
			row.New(7).Add(
				col.New(5).Add(text.New("Equipamento", headerLeft)).WithStyle(headerBg),
				col.New(1).Add(text.New("Qtd", headerText)).WithStyle(headerBg),
				col.New(1).Add(text.New("Dias", headerText)).WithStyle(headerBg),
				col.New(2).Add(text.New("Diária", headerText)).WithStyle(headerBg),
				col.New(1).Add(text.New("Desc.", headerText)).WithStyle(headerBg),
				col.New(2).Add(text.New("Total", headerText)).WithStyle(headerBg),
			),
		)
	} else {
		m.AddRows(
			row.New(7).Add(
				col.New(7).Add(text.New("Equipamento", headerLeft)).WithStyle(headerBg),
				col.New(1).Add(text.New("Qtd", headerText)).WithStyle(headerBg),
				col.New(1).Add(text.New("Dias", headerText)).WithStyle(headerBg),
				col.New(3).Add(text.New("Total", headerText)).WithStyle(headerBg),
			),
		)
	}

	body := props.Text{Size: 7, Align: align.Center}
	bodyLeft := body
	bodyLeft.Align = align.Left
	bodyRight := body
	bodyRight.Align = align.Right

	for _, r := range group.Rows {
		if data.Interno {
			m.AddRows(
				row.New(6).Add(
					col.New(5).Add(text.New(r.Equipamento, bodyLeft)),
					col.New(1).Add(text.New(FormatQty(r.Quantidade), body)),
					col.New(1).Add(text.New(FormatQty(r.Dias), body)),
					col.New(2).Add(text.New(FormatBRL(r.ValorUnitario), bodyRight)),
					col.New(1).Add(text.New(r.Desconto, body)),
					col.New(2).Add(text.New(FormatBRL(r.ValorFinal), bodyRight)),
				),
			)
		} else {
			m.AddRows(
				row.New(6).Add(
					col.New(7).Add(text.New(r.Equipamento, bodyLeft)),
					col.New(1).Add(text.New(FormatQty(r.Quantidade), body)),
					col.New(1).Add(text.New(FormatQty(r.Dias), body)),
					col.New(3).Add(text.New(FormatBRL(r.ValorFinal), bodyRight)),
				),
			)
		}
	}

	m.AddRows(row.New(3))
}

func addBreakdownSummary(m core.Maroto, b BudgetBreakdown) {
	m.AddRows(row.New(4))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	value := label

	addLine := func(name string, amount float64) {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(name, label)).WithStyle(summaryCell),
				col.New(4).Add(text.New(FormatBRL(amount), value)).WithStyle(summaryCell),
			),
		)
	}

	addLine("Subtotal", b.Subtotal)
	if b.DescontoItens > 0 {
		addLine("Descontos dos itens", -b.DescontoItens)
	}
	if b.DescontoGeral > 0 {
		addLine("Desconto geral", -b.DescontoGeral)
	}
	addLine("Total final", b.TotalFinal)
}
