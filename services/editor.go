package services

import (
	"github.com/mitchellh/hashstructure/v2"
)

// BudgetEditor is the in-memory state of the budget editing screen: the item
// list, the general discounts and the grouping toggle, mutated only through
// named operations. Derived totals are recomputed explicitly after a batch
// of mutations instead of cascading from every field write.
type BudgetEditor struct {
	Items               []LineItem
	DescontoGeral       float64
	DescontoValorGeral  float64
	AgruparPorCategoria bool

	// reordering suppresses re-entrant regrouping while a reconcile
	// rewrite is in flight.
	reordering      bool
	lastGroupedHash uint64
	lastItemsHash   uint64
}

// itemFingerprint covers exactly the fields that affect calculated totals.
type itemFingerprint struct {
	MaterialID         string
	Quantidade         float64
	Dias               float64
	ValorUnitario      float64
	DescontoPercentual float64
	DescontoValor      float64
}

// NewBudgetEditor returns an editor for a loaded (or empty) budget.
func NewBudgetEditor(items []LineItem, descontoGeral, descontoValorGeral float64, agrupar bool) *BudgetEditor {
	ed := &BudgetEditor{
		Items:               items,
		DescontoGeral:       descontoGeral,
		DescontoValorGeral:  descontoValorGeral,
		AgruparPorCategoria: agrupar,
	}
	RenumberPositions(ed.Items)
	return ed
}

// AddItem appends a blank line item with the default quantity and day count
// and returns its index.
func (ed *BudgetEditor) AddItem() int {
	ed.Items = append(ed.Items, LineItem{
		Quantidade: 1,
		Dias:       1,
		Posicao:    len(ed.Items),
	})
	return len(ed.Items) - 1
}

// RemoveItem deletes the item at index i and renumbers the remainder.
func (ed *BudgetEditor) RemoveItem(i int) {
	if i < 0 || i >= len(ed.Items) {
		return
	}
	ed.Items = append(ed.Items[:i], ed.Items[i+1:]...)
	RenumberPositions(ed.Items)
}

// SelectMaterial binds the item at index i to a material and snapshots its
// daily cost as the item's unit value.
func (ed *BudgetEditor) SelectMaterial(i int, m Material) {
	if i < 0 || i >= len(ed.Items) {
		return
	}
	ed.Items[i].MaterialID = m.ID
	ed.Items[i].Categoria = m.Categoria
	ed.Items[i].Equipamento = m.Equipamento
	ed.Items[i].ValorUnitario = m.CustoDiario
}

// SetItemDiscountPercent sets a percent discount on item i. A non-zero
// percent clears any flat discount; at most one of the two is ever set.
func (ed *BudgetEditor) SetItemDiscountPercent(i int, pct float64) {
	if i < 0 || i >= len(ed.Items) {
		return
	}
	if pct > 0 {
		ed.Items[i].DescontoValor = 0
	}
	ed.Items[i].DescontoPercentual = pct
}

// SetItemDiscountAmount sets a flat discount on item i, clearing any percent
// discount when non-zero.
func (ed *BudgetEditor) SetItemDiscountAmount(i int, valor float64) {
	if i < 0 || i >= len(ed.Items) {
		return
	}
	if valor > 0 {
		ed.Items[i].DescontoPercentual = 0
	}
	ed.Items[i].DescontoValor = valor
}

// SetGeneralDiscountPercent sets the budget-wide percent discount, clearing
// the flat general discount when non-zero.
func (ed *BudgetEditor) SetGeneralDiscountPercent(pct float64) {
	if pct > 0 {
		ed.DescontoValorGeral = 0
	}
	ed.DescontoGeral = pct
}

// SetGeneralDiscountAmount sets the budget-wide flat discount, clearing the
// percent general discount when non-zero.
func (ed *BudgetEditor) SetGeneralDiscountAmount(valor float64) {
	if valor > 0 {
		ed.DescontoGeral = 0
	}
	ed.DescontoValorGeral = valor
}

// ApplyDaysToAll copies the first item's day count to every other item.
// Runs only on explicit user action, never automatically.
func (ed *BudgetEditor) ApplyDaysToAll() {
	if len(ed.Items) == 0 {
		return
	}
	dias := ed.Items[0].Dias
	if dias <= 0 {
		return
	}
	for i := 1; i < len(ed.Items); i++ {
		ed.Items[i].Dias = dias
	}
}

// ApplyDiscountPercentToAll copies the first item's percent discount to
// every other item, clearing their flat discounts.
func (ed *BudgetEditor) ApplyDiscountPercentToAll() {
	if len(ed.Items) == 0 {
		return
	}
	pct := ed.Items[0].DescontoPercentual
	for i := 1; i < len(ed.Items); i++ {
		ed.Items[i].DescontoValor = 0
		ed.Items[i].DescontoPercentual = pct
	}
}

// ApplyDiscountAmountToAll copies the first item's flat discount to every
// other item, clearing their percent discounts.
func (ed *BudgetEditor) ApplyDiscountAmountToAll() {
	if len(ed.Items) == 0 {
		return
	}
	valor := ed.Items[0].DescontoValor
	for i := 1; i < len(ed.Items); i++ {
		ed.Items[i].DescontoPercentual = 0
		ed.Items[i].DescontoValor = valor
	}
}

// MoveUp moves the item at index i one position up.
func (ed *BudgetEditor) MoveUp(i int) { MoveItemUp(ed.Items, i) }

// MoveDown moves the item at index i one position down.
func (ed *BudgetEditor) MoveDown(i int) { MoveItemDown(ed.Items, i) }

// Dirty reports whether any calculation-relevant field changed since the
// last call. Identical successive states do not force recomputation.
func (ed *BudgetEditor) Dirty() bool {
	h := ed.fingerprint()
	if h == ed.lastItemsHash {
		return false
	}
	ed.lastItemsHash = h
	return true
}

func (ed *BudgetEditor) fingerprint() uint64 {
	prints := make([]itemFingerprint, len(ed.Items))
	for i, item := range ed.Items {
		prints[i] = itemFingerprint{
			MaterialID:         item.MaterialID,
			Quantidade:         item.Quantidade,
			Dias:               item.Dias,
			ValorUnitario:      item.ValorUnitario,
			DescontoPercentual: item.DescontoPercentual,
			DescontoValor:      item.DescontoValor,
		}
	}
	h, err := hashstructure.Hash(struct {
		Items              []itemFingerprint
		DescontoGeral      float64
		DescontoValorGeral float64
	}{prints, ed.DescontoGeral, ed.DescontoValorGeral}, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing plain structs cannot fail; treat as changed.
		return ed.lastItemsHash + 1
	}
	return h
}

// Regroup returns the category projection of the current items and, when
// grouping is enabled, reconciles the storage order with the grouped order.
// It reports whether the item list was rewritten. A regroup triggered while
// a previous reconcile is still being applied is a no-op, and an order that
// already matches the last observed grouped order is not re-applied.
func (ed *BudgetEditor) Regroup(lookup MaterialLookup) ([]CategoryGroup, bool) {
	if !ed.AgruparPorCategoria || len(ed.Items) == 0 {
		ed.lastGroupedHash = 0
		return nil, false
	}

	groups := GroupByCategory(ed.Items, lookup)
	if ed.reordering {
		return groups, false
	}

	order := FlattenGroups(groups)
	h, err := hashstructure.Hash(order, hashstructure.FormatV2, nil)
	if err == nil && h == ed.lastGroupedHash {
		return groups, false
	}

	ed.reordering = true
	items, changed := ReconcileOrder(ed.Items, order)
	ed.Items = items
	ed.reordering = false
	ed.lastGroupedHash = h

	if changed {
		// Positions moved, so the projection must be rebuilt against the
		// rewritten slice (now in identity order).
		groups = GroupByCategory(ed.Items, lookup)
	}
	return groups, changed
}

// Breakdown recomputes the derived totals for the current state.
func (ed *BudgetEditor) Breakdown(lookup MaterialLookup) BudgetBreakdown {
	return CalcBudgetBreakdown(ed.Items, lookup, ed.DescontoGeral, ed.DescontoValorGeral)
}

// Total recomputes the grand total for the current state.
func (ed *BudgetEditor) Total(lookup MaterialLookup) float64 {
	return BudgetTotal(ed.Items, lookup, ed.DescontoGeral, ed.DescontoValorGeral)
}
