package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the clients, collaborators,
// materials, extras, budgets, budget_items, finance_entries and trash_budgets
// collections exist.
func Setup(app *pocketbase.PocketBase) {
	clients := ensureCollection(app, "clients", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "nome", Required: true})
		c.Fields.Add(&core.TextField{Name: "documento", Required: false})
		c.Fields.Add(&core.TextField{Name: "area_atuacao", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "telefone", Required: false})
		c.Fields.Add(&core.TextField{Name: "municipio", Required: false})
		c.Fields.Add(&core.TextField{Name: "cep", Required: false})
		c.Fields.Add(&core.TextField{Name: "endereco", Required: false})
		c.Fields.Add(&core.TextField{Name: "numero", Required: false})
		c.Fields.Add(&core.TextField{Name: "bairro", Required: false})
		c.Fields.Add(&core.TextField{Name: "complemento", Required: false})
		c.Fields.Add(&core.TextField{Name: "observacao", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	collaborators := ensureCollection(app, "collaborators", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "nome", Required: true})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "telefone", Required: false})
		c.Fields.Add(&core.TextField{Name: "funcao", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	materials := ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "categoria", Required: true})
		c.Fields.Add(&core.TextField{Name: "equipamento", Required: true})
		c.Fields.Add(&core.NumberField{Name: "custo_diario", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantidade_disponivel", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantidade_inventario", Required: false})
		c.Fields.Add(&core.BoolField{Name: "ativo"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "extras", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "categoria", Required: true})
		c.Fields.Add(&core.TextField{Name: "equipamento", Required: true})
		c.Fields.Add(&core.NumberField{Name: "custo_diario", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantidade_disponivel", Required: false})
		c.Fields.Add(&core.BoolField{Name: "ativo"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	budgets := ensureCollection(app, "budgets", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "job_name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "cliente",
			Required:     false,
			CollectionId: clients.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "colaborador",
			Required:     false,
			CollectionId: collaborators.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "produtor", Required: false})
		c.Fields.Add(&core.TextField{Name: "diretor", Required: false})
		c.Fields.Add(&core.TextField{Name: "eletricista", Required: false})
		c.Fields.Add(&core.TextField{Name: "dir_fotografia", Required: false})
		c.Fields.Add(&core.TextField{Name: "maquinista", Required: false})
		c.Fields.Add(&core.TextField{Name: "data_inicio", Required: false})
		c.Fields.Add(&core.TextField{Name: "data_fim", Required: false})
		c.Fields.Add(&core.TextField{Name: "data_pagamento", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"PENDENTE", "CONFIRMADO", "DEVOLVIDO", "CANCELADO"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "observacao", Required: false})
		c.Fields.Add(&core.NumberField{Name: "desconto_geral", Required: false})
		c.Fields.Add(&core.NumberField{Name: "desconto_valor_geral", Required: false})
		c.Fields.Add(&core.BoolField{Name: "agrupar_por_categoria"})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "valor_final", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "budget_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "budget",
			Required:      true,
			CollectionId:  budgets.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		// The material relation may dangle after catalog deletions; the
		// snapshot fields below keep the item renderable.
		c.Fields.Add(&core.RelationField{
			Name:         "material",
			Required:     false,
			CollectionId: materials.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "categoria", Required: false})
		c.Fields.Add(&core.TextField{Name: "equipamento", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantidade", Required: false})
		c.Fields.Add(&core.NumberField{Name: "dias", Required: false})
		c.Fields.Add(&core.NumberField{Name: "valor_unitario", Required: false})
		c.Fields.Add(&core.NumberField{Name: "desconto_percentual", Required: false})
		c.Fields.Add(&core.NumberField{Name: "desconto_valor", Required: false})
		c.Fields.Add(&core.NumberField{Name: "valor_total", Required: false})
		c.Fields.Add(&core.NumberField{Name: "valor_final", Required: false})
		c.Fields.Add(&core.NumberField{Name: "posicao", Required: false})
	})

	ensureCollection(app, "finance_entries", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "budget",
			Required:     false,
			CollectionId: budgets.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "descricao", Required: false})
		c.Fields.Add(&core.NumberField{Name: "valor", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status_pagamento",
			Required:  true,
			Values:    []string{"PENDENTE", "PAGO"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "valor_pago", Required: false})
		c.Fields.Add(&core.TextField{Name: "data_pagamento", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "trash_budgets", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "job_name", Required: false})
		// Full JSON snapshot of the budget and its items at deletion time.
		c.Fields.Add(&core.TextField{Name: "payload", Required: true, Max: 500000})
		c.Fields.Add(&core.TextField{Name: "deleted_at", Required: false})
		c.Fields.Add(&core.BoolField{Name: "restored"})
		c.Fields.Add(&core.TextField{Name: "restored_at", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
