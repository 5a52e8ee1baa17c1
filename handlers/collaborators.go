package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type collaboratorPayload struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Funcao   string `json:"funcao"`
}

func collaboratorToJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"_id":      rec.Id,
		"nome":     rec.GetString("nome"),
		"email":    rec.GetString("email"),
		"telefone": rec.GetString("telefone"),
		"funcao":   rec.GetString("funcao"),
	}
}

// HandleCollaboratorList returns all collaborators as a plain array.
func HandleCollaboratorList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("collaborators")
		if err != nil {
			log.Printf("collaborators: could not find collaborators collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindRecordsByFilter(col, "", "nome", 0, 0, nil)
		if err != nil {
			log.Printf("collaborators: could not query collaborators: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, collaboratorToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleCollaboratorGet returns a single collaborator by id.
func HandleCollaboratorGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("collaborators", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Colaborador não encontrado")
		}
		return e.JSON(http.StatusOK, collaboratorToJSON(rec))
	}
}

// HandleCollaboratorCreate creates a collaborator from the JSON body.
func HandleCollaboratorCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p collaboratorPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.Nome == "" {
			return apiError(e, http.StatusBadRequest, "Nome é obrigatório")
		}

		col, err := app.FindCollectionByNameOrId("collaborators")
		if err != nil {
			log.Printf("collaborators: could not find collaborators collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		rec := core.NewRecord(col)
		rec.Set("nome", p.Nome)
		rec.Set("email", p.Email)
		rec.Set("telefone", p.Telefone)
		rec.Set("funcao", p.Funcao)
		if err := app.Save(rec); err != nil {
			log.Printf("collaborators: could not save collaborator: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar colaborador")
		}
		return e.JSON(http.StatusCreated, collaboratorToJSON(rec))
	}
}

// HandleCollaboratorUpdate overwrites a collaborator's fields.
func HandleCollaboratorUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("collaborators", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Colaborador não encontrado")
		}

		var p collaboratorPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.Nome == "" {
			return apiError(e, http.StatusBadRequest, "Nome é obrigatório")
		}

		rec.Set("nome", p.Nome)
		rec.Set("email", p.Email)
		rec.Set("telefone", p.Telefone)
		rec.Set("funcao", p.Funcao)
		if err := app.Save(rec); err != nil {
			log.Printf("collaborators: could not update collaborator %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar colaborador")
		}
		return e.JSON(http.StatusOK, collaboratorToJSON(rec))
	}
}

// HandleCollaboratorDelete removes a collaborator.
func HandleCollaboratorDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("collaborators", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Colaborador não encontrado")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("collaborators: could not delete collaborator %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao excluir colaborador")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Colaborador excluído"})
	}
}
