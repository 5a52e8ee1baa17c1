package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

type extraPayload struct {
	Categoria            string `json:"categoria"`
	Equipamento          string `json:"equipamento"`
	CustoDiario          any    `json:"custoDiario"`
	QuantidadeDisponivel any    `json:"quantidadeDisponivel"`
	Ativo                bool   `json:"ativo"`
}

func extraToJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"_id":                  rec.Id,
		"categoria":            rec.GetString("categoria"),
		"equipamento":          rec.GetString("equipamento"),
		"custoDiario":          rec.GetFloat("custo_diario"),
		"quantidadeDisponivel": rec.GetFloat("quantidade_disponivel"),
		"ativo":                rec.GetBool("ativo"),
	}
}

// HandleExtraList returns all auxiliary gear entries.
func HandleExtraList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("extras")
		if err != nil {
			log.Printf("extras: could not find extras collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindRecordsByFilter(col, "", "categoria,equipamento", 0, 0, nil)
		if err != nil {
			log.Printf("extras: could not query extras: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, extraToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleExtraGet returns a single auxiliary gear entry by id.
func HandleExtraGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("extras", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Extra não encontrado")
		}
		return e.JSON(http.StatusOK, extraToJSON(rec))
	}
}

// HandleExtraCreate creates an auxiliary gear entry.
func HandleExtraCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p extraPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.Categoria == "" || p.Equipamento == "" {
			return apiError(e, http.StatusBadRequest, "Categoria e equipamento são obrigatórios")
		}

		col, err := app.FindCollectionByNameOrId("extras")
		if err != nil {
			log.Printf("extras: could not find extras collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		rec := core.NewRecord(col)
		rec.Set("categoria", p.Categoria)
		rec.Set("equipamento", p.Equipamento)
		rec.Set("custo_diario", services.ParseNumber(p.CustoDiario))
		rec.Set("quantidade_disponivel", services.ParseNumber(p.QuantidadeDisponivel))
		rec.Set("ativo", p.Ativo)
		if err := app.Save(rec); err != nil {
			log.Printf("extras: could not save extra: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar extra")
		}
		return e.JSON(http.StatusCreated, extraToJSON(rec))
	}
}

// HandleExtraUpdate overwrites an auxiliary gear entry.
func HandleExtraUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("extras", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Extra não encontrado")
		}

		var p extraPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.Categoria == "" || p.Equipamento == "" {
			return apiError(e, http.StatusBadRequest, "Categoria e equipamento são obrigatórios")
		}

		rec.Set("categoria", p.Categoria)
		rec.Set("equipamento", p.Equipamento)
		rec.Set("custo_diario", services.ParseNumber(p.CustoDiario))
		rec.Set("quantidade_disponivel", services.ParseNumber(p.QuantidadeDisponivel))
		rec.Set("ativo", p.Ativo)
		if err := app.Save(rec); err != nil {
			log.Printf("extras: could not update extra %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar extra")
		}
		return e.JSON(http.StatusOK, extraToJSON(rec))
	}
}

// HandleExtraDelete removes an auxiliary gear entry.
func HandleExtraDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("extras", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Extra não encontrado")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("extras: could not delete extra %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao excluir extra")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Extra excluído"})
	}
}
