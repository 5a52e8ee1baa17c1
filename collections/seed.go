package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type materialDef struct {
	categoria             string
	equipamento           string
	custoDiario           float64
	quantidadeDisponivel  float64
	quantidadeInventario  float64
}

type extraDef struct {
	categoria            string
	equipamento          string
	custoDiario          float64
	quantidadeDisponivel float64
}

type itemDef struct {
	equipamento        string // must match a seeded material
	quantidade         float64
	dias               float64
	descontoPercentual float64
}

type budgetDef struct {
	jobName       string
	produtor      string
	diretor       string
	dataInicio    string
	dataFim       string
	status        string
	descontoGeral float64
	agrupar       bool
	itens         []itemDef
}

// Seed populates the catalog and demo records for a fresh installation. It is
// safe to call on every startup because it returns early if any material
// records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if materials already exist ─────────────────
	materialsCol, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}
	existing, err := app.FindAllRecords(materialsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query materials: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: materials collection is empty – inserting seed data …")

	clientsCol, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		return fmt.Errorf("seed: could not find clients collection: %w", err)
	}
	collaboratorsCol, err := app.FindCollectionByNameOrId("collaborators")
	if err != nil {
		return fmt.Errorf("seed: could not find collaborators collection: %w", err)
	}
	extrasCol, err := app.FindCollectionByNameOrId("extras")
	if err != nil {
		return fmt.Errorf("seed: could not find extras collection: %w", err)
	}
	budgetsCol, err := app.FindCollectionByNameOrId("budgets")
	if err != nil {
		return fmt.Errorf("seed: could not find budgets collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return fmt.Errorf("seed: could not find budget_items collection: %w", err)
	}

	// ── material catalog ─────────────────────────────────────────────
	materials := []materialDef{
		{categoria: "Câmera", equipamento: "Sony FX6 (corpo)", custoDiario: 650, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Câmera", equipamento: "Sony FX3 (corpo)", custoDiario: 450, quantidadeDisponivel: 3, quantidadeInventario: 3},
		{categoria: "Câmera", equipamento: "Blackmagic Pocket 6K Pro", custoDiario: 350, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Lentes", equipamento: "Kit Sony GM 16-35 / 24-70 / 70-200", custoDiario: 400, quantidadeDisponivel: 1, quantidadeInventario: 1},
		{categoria: "Lentes", equipamento: "Sigma Art 18-35mm T2", custoDiario: 150, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Iluminação", equipamento: "Aputure LS 600d Pro", custoDiario: 300, quantidadeDisponivel: 2, quantidadeInventario: 3},
		{categoria: "Iluminação", equipamento: "Aputure LS 300x", custoDiario: 200, quantidadeDisponivel: 4, quantidadeInventario: 4},
		{categoria: "Iluminação", equipamento: "Nanlite PavoTube II 30X (par)", custoDiario: 120, quantidadeDisponivel: 3, quantidadeInventario: 3},
		{categoria: "Áudio", equipamento: "Gravador Zoom F6", custoDiario: 100, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Áudio", equipamento: "Microfone Sennheiser MKH 416", custoDiario: 90, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Áudio", equipamento: "Kit Lapela Sony UWP-D21 (2 canais)", custoDiario: 110, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Grip", equipamento: "Slider Motorizado 120cm", custoDiario: 180, quantidadeDisponivel: 1, quantidadeInventario: 1},
		{categoria: "Grip", equipamento: "Tripé O'Connor 1030D", custoDiario: 150, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Grip", equipamento: "Gimbal DJI RS 3 Pro", custoDiario: 130, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Monitoração", equipamento: "Monitor SmallHD Cine 7", custoDiario: 160, quantidadeDisponivel: 2, quantidadeInventario: 2},
		{categoria: "Monitoração", equipamento: "Kit Transmissão Teradek Bolt 4K", custoDiario: 250, quantidadeDisponivel: 1, quantidadeInventario: 1},
	}

	materialByName := make(map[string]*core.Record, len(materials))
	for _, d := range materials {
		r := core.NewRecord(materialsCol)
		r.Set("categoria", d.categoria)
		r.Set("equipamento", d.equipamento)
		r.Set("custo_diario", d.custoDiario)
		r.Set("quantidade_disponivel", d.quantidadeDisponivel)
		r.Set("quantidade_inventario", d.quantidadeInventario)
		r.Set("ativo", true)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save material %q: %w", d.equipamento, err)
		}
		materialByName[d.equipamento] = r
	}

	// ── extras catalog ───────────────────────────────────────────────
	extras := []extraDef{
		{categoria: "Consumíveis", equipamento: "Fita Gaffer (rolo)", custoDiario: 35, quantidadeDisponivel: 20},
		{categoria: "Consumíveis", equipamento: "Gelatina CTO/CTB (kit)", custoDiario: 25, quantidadeDisponivel: 10},
		{categoria: "Energia", equipamento: "Extensão 50m com quadro", custoDiario: 60, quantidadeDisponivel: 4},
		{categoria: "Energia", equipamento: "V-Mount 190Wh (par)", custoDiario: 80, quantidadeDisponivel: 6},
	}
	for _, d := range extras {
		r := core.NewRecord(extrasCol)
		r.Set("categoria", d.categoria)
		r.Set("equipamento", d.equipamento)
		r.Set("custo_diario", d.custoDiario)
		r.Set("quantidade_disponivel", d.quantidadeDisponivel)
		r.Set("ativo", true)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save extra %q: %w", d.equipamento, err)
		}
	}

	// ── demo client and collaborator ─────────────────────────────────
	cli := core.NewRecord(clientsCol)
	cli.Set("nome", "Produtora Horizonte Filmes")
	cli.Set("documento", "12.345.678/0001-90")
	cli.Set("area_atuacao", "Publicidade")
	cli.Set("email", "contato@horizontefilmes.com.br")
	cli.Set("telefone", "(11) 98765-4321")
	cli.Set("municipio", "São Paulo")
	cli.Set("cep", "04538-132")
	cli.Set("endereco", "Av. Brigadeiro Faria Lima")
	cli.Set("numero", "3477")
	cli.Set("bairro", "Itaim Bibi")
	if err := app.Save(cli); err != nil {
		return fmt.Errorf("seed: save client: %w", err)
	}

	col := core.NewRecord(collaboratorsCol)
	col.Set("nome", "Ana Ribeiro")
	col.Set("email", "ana@locadora.com.br")
	col.Set("telefone", "(11) 91234-5678")
	col.Set("funcao", "Atendimento")
	if err := app.Save(col); err != nil {
		return fmt.Errorf("seed: save collaborator: %w", err)
	}

	// ── demo budget with items ───────────────────────────────────────
	createBudget := func(d budgetDef) error {
		b := core.NewRecord(budgetsCol)
		b.Set("job_name", d.jobName)
		b.Set("cliente", cli.Id)
		b.Set("colaborador", col.Id)
		b.Set("produtor", d.produtor)
		b.Set("diretor", d.diretor)
		b.Set("data_inicio", d.dataInicio)
		b.Set("data_fim", d.dataFim)
		b.Set("status", d.status)
		b.Set("desconto_geral", d.descontoGeral)
		b.Set("agrupar_por_categoria", d.agrupar)

		var subtotal, afterItems float64
		lines := make([]*core.Record, 0, len(d.itens))
		for pos, it := range d.itens {
			mat, ok := materialByName[it.equipamento]
			if !ok {
				return fmt.Errorf("seed: budget %q references unknown material %q", d.jobName, it.equipamento)
			}
			custo := mat.GetFloat("custo_diario")
			total := it.quantidade * it.dias * custo
			final := total
			if it.descontoPercentual > 0 {
				final = total - total*it.descontoPercentual/100
			}

			li := core.NewRecord(itemsCol)
			li.Set("material", mat.Id)
			li.Set("categoria", mat.GetString("categoria"))
			li.Set("equipamento", it.equipamento)
			li.Set("quantidade", it.quantidade)
			li.Set("dias", it.dias)
			li.Set("valor_unitario", custo)
			li.Set("desconto_percentual", it.descontoPercentual)
			li.Set("valor_total", total)
			li.Set("valor_final", final)
			li.Set("posicao", pos)
			lines = append(lines, li)
			subtotal += total
			afterItems += final
		}

		// The general percent discount applies to the post-item-discount base.
		valorFinal := afterItems
		if d.descontoGeral > 0 {
			valorFinal = afterItems - afterItems*d.descontoGeral/100
		}
		b.Set("subtotal", subtotal)
		b.Set("valor_final", valorFinal)
		if err := app.Save(b); err != nil {
			return fmt.Errorf("seed: save budget %q: %w", d.jobName, err)
		}
		for _, li := range lines {
			li.Set("budget", b.Id)
			if err := app.Save(li); err != nil {
				return fmt.Errorf("seed: save budget item for %q: %w", d.jobName, err)
			}
		}
		return nil
	}

	if err := createBudget(budgetDef{
		jobName:       "Clipe — Banda Maré Alta",
		produtor:      "Carla Mendes",
		diretor:       "Rafael Souza",
		dataInicio:    "2026-09-14",
		dataFim:       "2026-09-16",
		status:        "PENDENTE",
		descontoGeral: 5,
		agrupar:       true,
		itens: []itemDef{
			{equipamento: "Sony FX6 (corpo)", quantidade: 1, dias: 3},
			{equipamento: "Kit Sony GM 16-35 / 24-70 / 70-200", quantidade: 1, dias: 3},
			{equipamento: "Aputure LS 600d Pro", quantidade: 2, dias: 3, descontoPercentual: 10},
			{equipamento: "Gravador Zoom F6", quantidade: 1, dias: 3},
			{equipamento: "Tripé O'Connor 1030D", quantidade: 1, dias: 3},
		},
	}); err != nil {
		return err
	}

	if err := createBudget(budgetDef{
		jobName:    "Institucional — Clínica Vida",
		produtor:   "Carla Mendes",
		diretor:    "Júlia Prado",
		dataInicio: "2026-08-03",
		dataFim:    "2026-08-04",
		status:     "CONFIRMADO",
		agrupar:    false,
		itens: []itemDef{
			{equipamento: "Sony FX3 (corpo)", quantidade: 2, dias: 2},
			{equipamento: "Nanlite PavoTube II 30X (par)", quantidade: 2, dias: 2},
			{equipamento: "Kit Lapela Sony UWP-D21 (2 canais)", quantidade: 1, dias: 2},
		},
	}); err != nil {
		return err
	}

	log.Println("seed: all seed data inserted successfully (16 materials, 4 extras, 1 client, 1 collaborator, 2 budgets)")
	return nil
}
