package services

// BudgetExportRow is one line of the budget PDF table.
type BudgetExportRow struct {
	Equipamento   string
	Quantidade    float64
	Dias          float64
	ValorUnitario float64
	Desconto      string // already formatted ("10%" or "R$ 50,00"), empty when none
	ValorFinal    float64
}

// BudgetExportGroup is one category section of the budget PDF.
type BudgetExportGroup struct {
	Categoria string
	Rows      []BudgetExportRow
	Total     float64
}

// BudgetExportData is everything the budget PDF needs, assembled by the
// handler from the stored records.
type BudgetExportData struct {
	JobName     string
	ClienteNome string
	Responsavel string
	Status      string
	DataInicio  string
	DataFim     string
	GeradoEm    string

	// Internal documents carry the per-item unit values and discounts;
	// client-facing ones show only the final figures.
	Interno bool

	Groups    []BudgetExportGroup
	Breakdown BudgetBreakdown
}

// BuildBudgetExportGroups assembles the grouped PDF sections from line items,
// applying the same category partitioning the editing screen uses.
func BuildBudgetExportGroups(items []LineItem, lookup MaterialLookup) []BudgetExportGroup {
	groups := GroupByCategory(items, lookup)
	out := make([]BudgetExportGroup, 0, len(groups))
	for _, g := range groups {
		eg := BudgetExportGroup{Categoria: g.Categoria, Total: GroupTotal(items, lookup, g.Indexes)}
		for _, idx := range g.Indexes {
			item := items[idx]
			equipamento := item.Equipamento
			if m, ok := lookup[item.MaterialID]; ok && m.Equipamento != "" {
				equipamento = m.Equipamento
			}
			if equipamento == "" {
				equipamento = "Item personalizado"
			}

			var desconto string
			switch {
			case item.DescontoPercentual > 0:
				desconto = FormatQty(item.DescontoPercentual) + "%"
			case item.DescontoValor > 0:
				desconto = FormatBRL(item.DescontoValor)
			}

			eg.Rows = append(eg.Rows, BudgetExportRow{
				Equipamento:   equipamento,
				Quantidade:    item.Quantidade,
				Dias:          item.Dias,
				ValorUnitario: unitValue(item, lookup),
				Desconto:      desconto,
				ValorFinal:    ItemTotal(item, lookup),
			})
		}
		out = append(out, eg)
	}
	return out
}
