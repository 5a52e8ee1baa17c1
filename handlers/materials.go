package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rentaladmin/services"
)

type materialPayload struct {
	Categoria            string `json:"categoria"`
	Equipamento          string `json:"equipamento"`
	CustoDiario          any    `json:"custoDiario"`
	QuantidadeDisponivel any    `json:"quantidadeDisponivel"`
	QuantidadeInventario any    `json:"quantidadeInventario"`
	Ativo                bool   `json:"ativo"`
}

func materialToJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"_id":                  rec.Id,
		"categoria":            rec.GetString("categoria"),
		"equipamento":          rec.GetString("equipamento"),
		"custoDiario":          rec.GetFloat("custo_diario"),
		"quantidadeDisponivel": rec.GetFloat("quantidade_disponivel"),
		"quantidadeInventario": rec.GetFloat("quantidade_inventario"),
		"ativo":                rec.GetBool("ativo"),
	}
}

func applyMaterialPayload(rec *core.Record, p materialPayload) {
	rec.Set("categoria", p.Categoria)
	rec.Set("equipamento", p.Equipamento)
	rec.Set("custo_diario", services.ParseNumber(p.CustoDiario))
	rec.Set("quantidade_disponivel", services.ParseNumber(p.QuantidadeDisponivel))
	rec.Set("quantidade_inventario", services.ParseNumber(p.QuantidadeInventario))
	rec.Set("ativo", p.Ativo)
}

// HandleMaterialList returns the whole catalog ordered by category then name.
func HandleMaterialList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			log.Printf("materials: could not find materials collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindRecordsByFilter(col, "", "categoria,equipamento", 0, 0, nil)
		if err != nil {
			log.Printf("materials: could not query materials: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, materialToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleMaterialGet returns a single material by id.
func HandleMaterialGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("materials", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Material não encontrado")
		}
		return e.JSON(http.StatusOK, materialToJSON(rec))
	}
}

// HandleMaterialCreate creates a catalog entry from the JSON body.
func HandleMaterialCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p materialPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.Categoria == "" || p.Equipamento == "" {
			return apiError(e, http.StatusBadRequest, "Categoria e equipamento são obrigatórios")
		}
		if services.ParseNumber(p.CustoDiario) < 0 {
			return apiError(e, http.StatusBadRequest, "Custo diário não pode ser negativo")
		}

		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			log.Printf("materials: could not find materials collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		rec := core.NewRecord(col)
		applyMaterialPayload(rec, p)
		if err := app.Save(rec); err != nil {
			log.Printf("materials: could not save material: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar material")
		}
		return e.JSON(http.StatusCreated, materialToJSON(rec))
	}
}

// HandleMaterialUpdate overwrites a material's fields.
func HandleMaterialUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("materials", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Material não encontrado")
		}

		var p materialPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.Categoria == "" || p.Equipamento == "" {
			return apiError(e, http.StatusBadRequest, "Categoria e equipamento são obrigatórios")
		}

		applyMaterialPayload(rec, p)
		if err := app.Save(rec); err != nil {
			log.Printf("materials: could not update material %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar material")
		}
		return e.JSON(http.StatusOK, materialToJSON(rec))
	}
}

// HandleMaterialDelete removes a catalog entry. Budget items referencing it
// keep working through their snapshot fields.
func HandleMaterialDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("materials", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Material não encontrado")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("materials: could not delete material %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao excluir material")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Material excluído"})
	}
}

// HandleMaterialCategories returns the distinct category names in use,
// sorted with Brazilian Portuguese collation.
func HandleMaterialCategories(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			log.Printf("materials: could not find materials collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindAllRecords(col)
		if err != nil {
			log.Printf("materials: could not query materials: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		seen := make(map[string]bool)
		var categories []string
		for _, rec := range records {
			categoria := rec.GetString("categoria")
			if categoria == "" || seen[categoria] {
				continue
			}
			seen[categoria] = true
			categories = append(categories, categoria)
		}
		services.SortCategories(categories)

		return e.JSON(http.StatusOK, categories)
	}
}

// HandleMaterialCatalogPDF streams the printable catalog.
func HandleMaterialCatalogPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			log.Printf("materials: could not find materials collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindRecordsByFilter(col, "ativo = true", "categoria,equipamento", 0, 0, nil)
		if err != nil {
			log.Printf("materials: could not query materials: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		materials := make([]services.Material, 0, len(records))
		for _, rec := range records {
			materials = append(materials, services.Material{
				ID:          rec.Id,
				Categoria:   rec.GetString("categoria"),
				Equipamento: rec.GetString("equipamento"),
				CustoDiario: rec.GetFloat("custo_diario"),
			})
		}

		pdf, err := services.GenerateCatalogPDF(materials, time.Now().Format("02/01/2006 15:04"))
		if err != nil {
			log.Printf("materials: could not generate catalog PDF: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao gerar PDF")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="lista-materiais.pdf"`)
		return e.Blob(http.StatusOK, "application/pdf", pdf)
	}
}
