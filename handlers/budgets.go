package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

type budgetItemPayload struct {
	MaterialID         string `json:"materialId"`
	Categoria          string `json:"categoria"`
	Equipamento        string `json:"equipamento"`
	Quantidade         any    `json:"quantidade"`
	Dias               any    `json:"dias"`
	ValorUnitario      any    `json:"valorUnitario"`
	DescontoPercentual any    `json:"descontoPercentual"`
	DescontoValor      any    `json:"descontoValor"`
	Posicao            any    `json:"posicao"`
}

type budgetPayload struct {
	JobName             string              `json:"jobName"`
	ClienteID           string              `json:"clienteId"`
	ColaboradorID       string              `json:"colaboradorId"`
	Produtor            string              `json:"produtor"`
	Diretor             string              `json:"diretor"`
	Eletricista         string              `json:"eletricista"`
	DirFotografia       string              `json:"dirFotografia"`
	Maquinista          string              `json:"maquinista"`
	DataInicio          string              `json:"dataInicio"`
	DataFim             string              `json:"dataFim"`
	DataPagamento       string              `json:"dataPagamento"`
	Status              string              `json:"status"`
	Observacao          string              `json:"observacao"`
	DescontoGeral       any                 `json:"descontoGeral"`
	DescontoValorGeral  any                 `json:"descontoValorGeral"`
	AgruparPorCategoria bool                `json:"agruparPorCategoria"`
	Itens               []budgetItemPayload `json:"itens"`
}

func budgetItemToJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"_id":                rec.Id,
		"materialId":         rec.GetString("material"),
		"categoria":          rec.GetString("categoria"),
		"equipamento":        rec.GetString("equipamento"),
		"quantidade":         rec.GetFloat("quantidade"),
		"dias":               rec.GetFloat("dias"),
		"valorUnitario":      rec.GetFloat("valor_unitario"),
		"descontoPercentual": rec.GetFloat("desconto_percentual"),
		"descontoValor":      rec.GetFloat("desconto_valor"),
		"valorTotal":         rec.GetFloat("valor_total"),
		"valorFinal":         rec.GetFloat("valor_final"),
		"posicao":            int(rec.GetFloat("posicao")),
	}
}

func budgetToJSON(app *pocketbase.PocketBase, rec *core.Record) map[string]any {
	out := map[string]any{
		"_id":                 rec.Id,
		"jobName":             rec.GetString("job_name"),
		"clienteId":           rec.GetString("cliente"),
		"colaboradorId":       rec.GetString("colaborador"),
		"produtor":            rec.GetString("produtor"),
		"diretor":             rec.GetString("diretor"),
		"eletricista":         rec.GetString("eletricista"),
		"dirFotografia":       rec.GetString("dir_fotografia"),
		"maquinista":          rec.GetString("maquinista"),
		"dataInicio":          rec.GetString("data_inicio"),
		"dataFim":             rec.GetString("data_fim"),
		"dataPagamento":       rec.GetString("data_pagamento"),
		"status":              rec.GetString("status"),
		"observacao":          rec.GetString("observacao"),
		"descontoGeral":       rec.GetFloat("desconto_geral"),
		"descontoValorGeral":  rec.GetFloat("desconto_valor_geral"),
		"agruparPorCategoria": rec.GetBool("agrupar_por_categoria"),
		"subtotal":            rec.GetFloat("subtotal"),
		"valorFinal":          rec.GetFloat("valor_final"),
		"createdAt":           rec.GetString("created"),
	}

	if clienteID := rec.GetString("cliente"); clienteID != "" {
		if cliente, err := app.FindRecordById("clients", clienteID); err == nil {
			out["clienteNome"] = cliente.GetString("nome")
		}
	}
	if colabID := rec.GetString("colaborador"); colabID != "" {
		if colab, err := app.FindRecordById("collaborators", colabID); err == nil {
			out["colaboradorNome"] = colab.GetString("nome")
		}
	}
	return out
}

func applyBudgetPayload(rec *core.Record, p budgetPayload) {
	rec.Set("job_name", p.JobName)
	rec.Set("cliente", p.ClienteID)
	rec.Set("colaborador", p.ColaboradorID)
	rec.Set("produtor", p.Produtor)
	rec.Set("diretor", p.Diretor)
	rec.Set("eletricista", p.Eletricista)
	rec.Set("dir_fotografia", p.DirFotografia)
	rec.Set("maquinista", p.Maquinista)
	rec.Set("data_inicio", p.DataInicio)
	rec.Set("data_fim", p.DataFim)
	rec.Set("data_pagamento", p.DataPagamento)
	rec.Set("observacao", p.Observacao)
	rec.Set("agrupar_por_categoria", p.AgruparPorCategoria)

	// The two general discounts are mutually exclusive on the wire too.
	pct := services.ParseNumber(p.DescontoGeral)
	valor := services.ParseNumber(p.DescontoValorGeral)
	if pct > 0 {
		valor = 0
	}
	rec.Set("desconto_geral", pct)
	rec.Set("desconto_valor_geral", valor)
}

// saveBudgetItems creates item records from the payload, snapshotting the
// resolved material's category, name and daily cost.
func saveBudgetItems(app *pocketbase.PocketBase, budgetID string, itens []budgetItemPayload, lookup services.MaterialLookup) error {
	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return err
	}

	for pos, it := range itens {
		item := services.LineItem{
			MaterialID:         it.MaterialID,
			Quantidade:         services.ParseNumber(it.Quantidade),
			Dias:               services.ParseNumber(it.Dias),
			ValorUnitario:      services.ParseNumber(it.ValorUnitario),
			DescontoPercentual: services.ParseNumber(it.DescontoPercentual),
			DescontoValor:      services.ParseNumber(it.DescontoValor),
		}
		if item.DescontoPercentual > 0 {
			item.DescontoValor = 0
		}

		categoria := it.Categoria
		equipamento := it.Equipamento
		if m, ok := lookup[it.MaterialID]; ok {
			categoria = m.Categoria
			equipamento = m.Equipamento
			item.ValorUnitario = m.CustoDiario
		}

		rec := core.NewRecord(col)
		rec.Set("budget", budgetID)
		rec.Set("material", it.MaterialID)
		rec.Set("categoria", categoria)
		rec.Set("equipamento", equipamento)
		rec.Set("quantidade", item.Quantidade)
		rec.Set("dias", item.Dias)
		rec.Set("valor_unitario", item.ValorUnitario)
		rec.Set("desconto_percentual", item.DescontoPercentual)
		rec.Set("desconto_valor", item.DescontoValor)
		rec.Set("valor_total", services.ItemSubtotal(item, lookup))
		rec.Set("valor_final", services.ItemTotal(item, lookup))
		rec.Set("posicao", pos)
		if err := app.Save(rec); err != nil {
			return err
		}
	}
	return nil
}

// HandleBudgetList returns the budget list with pagination info and per-status
// counts for the dashboard cards.
func HandleBudgetList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("budgets")
		if err != nil {
			log.Printf("budgets: could not find budgets collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		all, err := app.FindRecordsByFilter(col, "", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("budgets: could not query budgets: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		statusCounts := map[string]int{}
		for _, rec := range all {
			statusCounts[rec.GetString("status")]++
		}

		status := e.Request.URL.Query().Get("status")
		filtered := all
		if status != "" {
			filtered = filtered[:0:0]
			for _, rec := range all {
				if rec.GetString("status") == status {
					filtered = append(filtered, rec)
				}
			}
		}

		total := len(filtered)
		limit := 0
		if raw := e.Request.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}
		if limit > 0 && limit < len(filtered) {
			filtered = filtered[:limit]
		}

		data := make([]map[string]any, 0, len(filtered))
		for _, rec := range filtered {
			data = append(data, budgetToJSON(app, rec))
		}

		return e.JSON(http.StatusOK, map[string]any{
			"data": data,
			"pagination": map[string]any{
				"total": total,
				"limit": limit,
			},
			"summary": map[string]any{
				"statusCounts": statusCounts,
			},
		})
	}
}

// HandleBudgetGet returns one budget with its items (ordered by position) and
// the recomputed discount breakdown.
func HandleBudgetGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		records, items, err := loadBudgetItems(app, rec.Id)
		if err != nil {
			log.Printf("budgets: could not query items of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		lookup := buildMaterialLookup(app)
		breakdown := services.CalcBudgetBreakdown(
			items,
			lookup,
			rec.GetFloat("desconto_geral"),
			rec.GetFloat("desconto_valor_geral"),
		)

		out := budgetToJSON(app, rec)
		itemJSONs := make([]map[string]any, 0, len(records))
		for _, item := range records {
			itemJSONs = append(itemJSONs, budgetItemToJSON(item))
		}
		out["itens"] = itemJSONs
		out["breakdown"] = breakdown

		return e.JSON(http.StatusOK, out)
	}
}

// HandleBudgetCreate creates a budget and its items, recomputing every derived
// total server-side.
func HandleBudgetCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p budgetPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.JobName == "" {
			return apiError(e, http.StatusBadRequest, "Nome do job é obrigatório")
		}

		col, err := app.FindCollectionByNameOrId("budgets")
		if err != nil {
			log.Printf("budgets: could not find budgets collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		rec := core.NewRecord(col)
		applyBudgetPayload(rec, p)
		status := p.Status
		if !services.IsValidBudgetStatus(status) {
			status = services.StatusPendente
		}
		rec.Set("status", status)
		if err := app.Save(rec); err != nil {
			log.Printf("budgets: could not save budget: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar orçamento")
		}

		lookup := buildMaterialLookup(app)
		if err := saveBudgetItems(app, rec.Id, p.Itens, lookup); err != nil {
			log.Printf("budgets: could not save items of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar itens")
		}
		if err := recomputeBudgetTotals(app, rec, lookup); err != nil {
			log.Printf("budgets: could not recompute totals of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao calcular totais")
		}

		return e.JSON(http.StatusCreated, budgetToJSON(app, rec))
	}
}

// HandleBudgetUpdate replaces the budget's fields and item list wholesale,
// then recomputes the derived totals.
func HandleBudgetUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		var p budgetPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.JobName == "" {
			return apiError(e, http.StatusBadRequest, "Nome do job é obrigatório")
		}

		applyBudgetPayload(rec, p)
		if services.IsValidBudgetStatus(p.Status) {
			rec.Set("status", p.Status)
		}
		if err := app.Save(rec); err != nil {
			log.Printf("budgets: could not update budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar orçamento")
		}

		// Wholesale item replacement: the editor always sends the full list.
		existing, _, err := loadBudgetItems(app, rec.Id)
		if err != nil {
			log.Printf("budgets: could not query items of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		for _, item := range existing {
			if err := app.Delete(item); err != nil {
				log.Printf("budgets: could not delete item %s of budget %s: %v", item.Id, rec.Id, err)
				return apiError(e, http.StatusInternalServerError, "Erro ao salvar itens")
			}
		}

		lookup := buildMaterialLookup(app)
		if err := saveBudgetItems(app, rec.Id, p.Itens, lookup); err != nil {
			log.Printf("budgets: could not save items of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar itens")
		}
		if err := recomputeBudgetTotals(app, rec, lookup); err != nil {
			log.Printf("budgets: could not recompute totals of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao calcular totais")
		}

		return e.JSON(http.StatusOK, budgetToJSON(app, rec))
	}
}

// HandleBudgetDelete snapshots the budget and its items to the trash, then
// deletes the budget (items cascade).
func HandleBudgetDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		records, _, err := loadBudgetItems(app, rec.Id)
		if err != nil {
			log.Printf("budgets: could not query items of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		snapshot := budgetToJSON(app, rec)
		itens := make([]map[string]any, 0, len(records))
		for _, item := range records {
			itens = append(itens, budgetItemToJSON(item))
		}
		snapshot["itens"] = itens

		payload, err := json.Marshal(snapshot)
		if err != nil {
			log.Printf("budgets: could not marshal trash snapshot of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		trashCol, err := app.FindCollectionByNameOrId("trash_budgets")
		if err != nil {
			log.Printf("budgets: could not find trash_budgets collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		trash := core.NewRecord(trashCol)
		trash.Set("job_name", rec.GetString("job_name"))
		trash.Set("payload", string(payload))
		trash.Set("deleted_at", time.Now().Format(time.RFC3339))
		trash.Set("restored", false)
		if err := app.Save(trash); err != nil {
			log.Printf("budgets: could not save trash snapshot of budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao mover para a lixeira")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("budgets: could not delete budget %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao excluir orçamento")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Orçamento movido para a lixeira"})
	}
}

// HandleBudgetClone duplicates a budget and its items. The copy starts over
// as PENDENTE with a marked job name.
func HandleBudgetClone(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		src, err := app.FindRecordById("budgets", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Orçamento não encontrado")
		}

		col, err := app.FindCollectionByNameOrId("budgets")
		if err != nil {
			log.Printf("budgets: could not find budgets collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		clone := core.NewRecord(col)
		for _, field := range []string{
			"cliente", "colaborador", "produtor", "diretor", "eletricista",
			"dir_fotografia", "maquinista", "data_inicio", "data_fim",
			"observacao", "desconto_geral", "desconto_valor_geral",
			"agrupar_por_categoria", "subtotal", "valor_final",
		} {
			clone.Set(field, src.Get(field))
		}
		clone.Set("job_name", src.GetString("job_name")+" (cópia)")
		clone.Set("status", services.StatusPendente)
		if err := app.Save(clone); err != nil {
			log.Printf("budgets: could not save clone of budget %s: %v", src.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao duplicar orçamento")
		}

		records, _, err := loadBudgetItems(app, src.Id)
		if err != nil {
			log.Printf("budgets: could not query items of budget %s: %v", src.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		itemsCol, err := app.FindCollectionByNameOrId("budget_items")
		if err != nil {
			log.Printf("budgets: could not find budget_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		for _, item := range records {
			dup := core.NewRecord(itemsCol)
			for _, field := range []string{
				"material", "categoria", "equipamento", "quantidade", "dias",
				"valor_unitario", "desconto_percentual", "desconto_valor",
				"valor_total", "valor_final", "posicao",
			} {
				dup.Set(field, item.Get(field))
			}
			dup.Set("budget", clone.Id)
			if err := app.Save(dup); err != nil {
				log.Printf("budgets: could not clone item %s: %v", item.Id, err)
				return apiError(e, http.StatusInternalServerError, "Erro ao duplicar itens")
			}
		}

		return e.JSON(http.StatusCreated, budgetToJSON(app, clone))
	}
}
