package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type clientPayload struct {
	Nome        string `json:"nome"`
	Documento   string `json:"documento"`
	AreaAtuacao string `json:"areaAtuacao"`
	Email       string `json:"email"`
	Telefone    string `json:"telefone"`
	Municipio   string `json:"municipio"`
	CEP         string `json:"cep"`
	Endereco    string `json:"endereco"`
	Numero      string `json:"numero"`
	Bairro      string `json:"bairro"`
	Complemento string `json:"complemento"`
	Observacao  string `json:"observacao"`
}

func clientToJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"_id":         rec.Id,
		"nome":        rec.GetString("nome"),
		"documento":   rec.GetString("documento"),
		"areaAtuacao": rec.GetString("area_atuacao"),
		"email":       rec.GetString("email"),
		"telefone":    rec.GetString("telefone"),
		"municipio":   rec.GetString("municipio"),
		"cep":         rec.GetString("cep"),
		"endereco":    rec.GetString("endereco"),
		"numero":      rec.GetString("numero"),
		"bairro":      rec.GetString("bairro"),
		"complemento": rec.GetString("complemento"),
		"observacao":  rec.GetString("observacao"),
		"createdAt":   rec.GetString("created"),
	}
}

func applyClientPayload(rec *core.Record, p clientPayload) {
	rec.Set("nome", p.Nome)
	rec.Set("documento", p.Documento)
	rec.Set("area_atuacao", p.AreaAtuacao)
	rec.Set("email", p.Email)
	rec.Set("telefone", p.Telefone)
	rec.Set("municipio", p.Municipio)
	rec.Set("cep", p.CEP)
	rec.Set("endereco", p.Endereco)
	rec.Set("numero", p.Numero)
	rec.Set("bairro", p.Bairro)
	rec.Set("complemento", p.Complemento)
	rec.Set("observacao", p.Observacao)
}

// HandleClientList returns all clients as a plain array, newest first.
func HandleClientList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("clients")
		if err != nil {
			log.Printf("clients: could not find clients collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}
		records, err := app.FindRecordsByFilter(col, "", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("clients: could not query clients: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, clientToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleClientGet returns a single client by id.
func HandleClientGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("clients", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Cliente não encontrado")
		}
		return e.JSON(http.StatusOK, clientToJSON(rec))
	}
}

// HandleClientCreate creates a client from the JSON body.
func HandleClientCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p clientPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.Nome == "" {
			return apiError(e, http.StatusBadRequest, "Nome é obrigatório")
		}

		col, err := app.FindCollectionByNameOrId("clients")
		if err != nil {
			log.Printf("clients: could not find clients collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro interno")
		}

		rec := core.NewRecord(col)
		applyClientPayload(rec, p)
		if err := app.Save(rec); err != nil {
			log.Printf("clients: could not save client: %v", err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar cliente")
		}
		return e.JSON(http.StatusCreated, clientToJSON(rec))
	}
}

// HandleClientUpdate overwrites a client's fields from the JSON body.
func HandleClientUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("clients", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Cliente não encontrado")
		}

		var p clientPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Dados inválidos")
		}
		if p.Nome == "" {
			return apiError(e, http.StatusBadRequest, "Nome é obrigatório")
		}

		applyClientPayload(rec, p)
		if err := app.Save(rec); err != nil {
			log.Printf("clients: could not update client %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao salvar cliente")
		}
		return e.JSON(http.StatusOK, clientToJSON(rec))
	}
}

// HandleClientDelete removes a client.
func HandleClientDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("clients", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Cliente não encontrado")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("clients: could not delete client %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Erro ao excluir cliente")
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Cliente excluído"})
	}
}
