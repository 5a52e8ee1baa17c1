package services

import (
	"fmt"
	"sort"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateCatalogPDF renders the material list as a printable catalog,
// one section per category with daily rates.
func GenerateCatalogPDF(materials []Material, geradoEm string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Lista de Materiais", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(4),
	)

	byCategory := make(map[string][]Material)
	var categories []string
	for _, mat := range materials {
		categoria := mat.Categoria
		if categoria == "" {
			categoria = UncategorizedLabel
		}
		if _, ok := byCategory[categoria]; !ok {
			categories = append(categories, categoria)
		}
		byCategory[categoria] = append(byCategory[categoria], mat)
	}
	categoryCollator.SortStrings(categories)

	header := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
	headerRight := header
	headerRight.Align = align.Right
	body := props.Text{Size: 8, Align: align.Left}
	bodyRight := body
	bodyRight.Align = align.Right
	bannerBg := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}

	for _, categoria := range categories {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(categoria, props.Text{
						Size:  9,
						Style: fontstyle.Bold,
						Align: align.Left,
						Color: &props.Color{Red: 255, Green: 255, Blue: 255},
					}),
				).WithStyle(bannerBg),
			),
		)

		mats := byCategory[categoria]
		sort.Slice(mats, func(i, j int) bool {
			return categoryCollator.CompareString(mats[i].Equipamento, mats[j].Equipamento) < 0
		})

		m.AddRows(
			row.New(6).Add(
				col.New(9).Add(text.New("Equipamento", header)),
				col.New(3).Add(text.New("Diária", headerRight)),
			),
		)
		for _, mat := range mats {
			m.AddRows(
				row.New(5).Add(
					col.New(9).Add(text.New(mat.Equipamento, body)),
					col.New(3).Add(text.New(FormatBRL(mat.CustoDiario), bodyRight)),
				),
			)
		}
		m.AddRows(row.New(3))
	}

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
		return nil, fmt.Errorf("failed to generate catalog PDF: %w", err)
	}
	return doc.GetBytes(), nil
}
