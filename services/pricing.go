// Package services provides the pricing, grouping and export logic for
// rental budgets.
package services

import (
	"encoding/json"
	"math"
	"strconv"
)

// Material is a catalog entry referenced by budget line items.
type Material struct {
	ID          string
	Categoria   string
	Equipamento string
	CustoDiario float64
}

// LineItem is one rented material entry within a budget.
// ValorUnitario is a snapshot of the material's daily cost taken when the
// material was selected; it is used when the material reference no longer
// resolves against the catalog.
type LineItem struct {
	ID                 string
	MaterialID         string
	Categoria          string
	Equipamento        string
	Quantidade         float64
	Dias               float64
	ValorUnitario      float64
	DescontoPercentual float64
	DescontoValor      float64
	Posicao            int
}

// MaterialLookup resolves a material ID to its catalog entry.
type MaterialLookup map[string]Material

// BudgetBreakdown holds the itemized totals shown on the budget detail view
// and persisted on save.
type BudgetBreakdown struct {
	Subtotal      float64 `json:"subtotal"`
	DescontoItens float64 `json:"descontoItens"`
	DescontoGeral float64 `json:"descontoGeral"`
	DescontoTotal float64 `json:"descontoTotal"`
	TotalFinal    float64 `json:"totalFinal"`
}

// Round2 rounds to 2 decimal places. Applied at each calculation stage so
// repeated recomputation from the same inputs never drifts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseNumber coerces an arbitrary JSON-decoded value to a float64,
// defaulting to zero for missing or malformed input. A partially filled
// form must still produce a renderable total.
func ParseNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

// unitValue returns the material's current daily cost when the reference
// resolves, otherwise the snapshot stored on the item.
func unitValue(item LineItem, lookup MaterialLookup) float64 {
	if m, ok := lookup[item.MaterialID]; ok {
		return m.CustoDiario
	}
	return item.ValorUnitario
}

// ItemSubtotal is the pre-discount value of a line item: qty x days x daily cost.
func ItemSubtotal(item LineItem, lookup MaterialLookup) float64 {
	return Round2(item.Quantidade * item.Dias * unitValue(item, lookup))
}

// ItemDiscount is the discount applied to a single line item. A percent
// discount takes priority; otherwise the flat amount is used as-is.
func ItemDiscount(item LineItem, lookup MaterialLookup) float64 {
	subtotal := ItemSubtotal(item, lookup)
	if item.DescontoPercentual > 0 {
		return Round2(subtotal * item.DescontoPercentual / 100)
	}
	return item.DescontoValor
}

// ItemTotal is the final value of a line item, never negative.
func ItemTotal(item LineItem, lookup MaterialLookup) float64 {
	subtotal := ItemSubtotal(item, lookup)
	return Round2(math.Max(subtotal-ItemDiscount(item, lookup), 0))
}

// ItemsSubtotal sums the post-discount totals of all items.
func ItemsSubtotal(items []LineItem, lookup MaterialLookup) float64 {
	var sum float64
	for _, item := range items {
		sum += ItemTotal(item, lookup)
	}
	return Round2(sum)
}

// BudgetTotal computes the grand total of a budget: the items subtotal minus
// the general discount (percent takes priority over the flat amount),
// clamped at zero.
func BudgetTotal(items []LineItem, lookup MaterialLookup, descontoGeral, descontoValorGeral float64) float64 {
	subtotal := ItemsSubtotal(items, lookup)
	desconto := descontoValorGeral
	if descontoGeral > 0 {
		desconto = Round2(subtotal * descontoGeral / 100)
	}
	return Round2(math.Max(subtotal-desconto, 0))
}

// CalcBudgetBreakdown produces the itemized totals for the detail view.
// The general percent discount applies to the subtotal remaining after the
// per-item discounts, not to the raw subtotal.
func CalcBudgetBreakdown(items []LineItem, lookup MaterialLookup, descontoGeral, descontoValorGeral float64) BudgetBreakdown {
	var subtotal, descontoItens float64
	for _, item := range items {
		raw := ItemSubtotal(item, lookup)
		subtotal += raw
		descontoItens += raw - ItemTotal(item, lookup)
	}

	var geral float64
	if descontoGeral > 0 {
		geral = (subtotal - descontoItens) * descontoGeral / 100
	} else if descontoValorGeral > 0 {
		geral = descontoValorGeral
	}

	descontoTotal := descontoItens + geral
	return BudgetBreakdown{
		Subtotal:      Round2(subtotal),
		DescontoItens: Round2(descontoItens),
		DescontoGeral: Round2(geral),
		DescontoTotal: Round2(descontoTotal),
		TotalFinal:    Round2(math.Max(subtotal-descontoTotal, 0)),
	}
}
