// backend/query/builder.go
package query

import (
	"strings"
	"time"
)

// Valores reconhecidos do filtro de prazo. O vencimento calculado é
// comparado com a data de hoje: "vencido" fica estritamente antes,
// "a_vencer" em/depois (fronteira inclusiva no lado a vencer).
const (
	PrazoVencido = "vencido"
	PrazoAVencer = "a_vencer"
)

// AllItems é o valor sentinela de itemsPerPage que desativa a paginação.
const AllItems = -1

// DueDateExpr é a expressão SQL do vencimento derivado: data de intimação
// mais o prazo processual (texto numérico) em dias.
const DueDateExpr = "DATE_ADD(processos.data_intimacao, INTERVAL CAST(processos.prazo_processual AS UNSIGNED) DAY)"

// Caller identifica o usuário autenticado e o tipo de login efetivo,
// fornecidos pelo middleware de autenticação (nunca pela query string).
type Caller struct {
	UserID uint
	Super  bool
}

// ListParams são os parâmetros opcionais de filtragem, compartilhados
// pela listagem de processos e pelas estatísticas do dashboard.
type ListParams struct {
	Search        string
	Classes       []string
	Assuntos      []string
	Tarjas        []string
	Cumprido      *bool
	CumpridoDe    *time.Time
	CumpridoAte   *time.Time
	Prazo         string
	UserIDs       []uint
	SemAtribuicao bool
}

// Sort é um par campo+direção da especificação de ordenação.
type Sort struct {
	Field string
	Desc  bool
}

// Build converte os parâmetros em uma condição composta. A regra de
// visibilidade é aplicada antes de qualquer filtro vindo da query string
// e não pode ser contornada: admin_padrao só enxerga os próprios
// processos, ignorando qualquer seletor de atribuição recebido.
func Build(caller Caller, p ListParams, today time.Time) Cond {
	conds := []Cond{}

	if vis := visibility(caller, p); vis != nil {
		conds = append(conds, vis)
	}

	if s := strings.TrimSpace(p.Search); s != "" {
		conds = append(conds, Like{Col: "processos.numero_processo", Sub: s})
	}
	if len(p.Classes) > 0 {
		conds = append(conds, In{Col: "processos.classe_principal", Vals: toAny(p.Classes)})
	}
	if len(p.Assuntos) > 0 {
		conds = append(conds, In{Col: "processos.assunto_principal", Vals: toAny(p.Assuntos)})
	}
	if len(p.Tarjas) > 0 {
		conds = append(conds, In{Col: "processos.tarjas", Vals: toAny(p.Tarjas)})
	}
	if p.Cumprido != nil {
		conds = append(conds, Eq{Col: "processos.cumprido", Val: *p.Cumprido})
	}
	if p.CumpridoDe != nil || p.CumpridoAte != nil {
		r := Range{Col: "processos.cumpridoDate"}
		if p.CumpridoDe != nil {
			r.Min = *p.CumpridoDe
		}
		if p.CumpridoAte != nil {
			r.Max = *p.CumpridoAte
		}
		conds = append(conds, r)
	}
	if c := prazoCond(p.Prazo, today); c != nil {
		conds = append(conds, c)
	}

	return And{Conds: conds}
}

// visibility devolve a restrição de propriedade, ou nil quando o chamador
// elevado não pediu recorte algum (todos os processos visíveis).
func visibility(caller Caller, p ListParams) Cond {
	if !caller.Super {
		return Eq{Col: "processos.userId", Val: caller.UserID}
	}

	switch {
	case len(p.UserIDs) > 0 && p.SemAtribuicao:
		return Or{Conds: []Cond{
			In{Col: "processos.userId", Vals: uintsToAny(p.UserIDs)},
			Null{Col: "processos.userId"},
		}}
	case len(p.UserIDs) > 0:
		return In{Col: "processos.userId", Vals: uintsToAny(p.UserIDs)}
	case p.SemAtribuicao:
		return Null{Col: "processos.userId"}
	}
	return nil
}

// prazoCond monta o filtro de vencimento calculado. Processos sem data de
// intimação ficam fora de qualquer recorte por prazo.
func prazoCond(prazo string, today time.Time) Cond {
	day := today.Format("2006-01-02")
	switch prazo {
	case PrazoVencido:
		return And{Conds: []Cond{
			Null{Col: "processos.data_intimacao", Not: true},
			Expr{SQL: DueDateExpr + " < ?", Args: []any{day}},
		}}
	case PrazoAVencer:
		return And{Conds: []Cond{
			Null{Col: "processos.data_intimacao", Not: true},
			Expr{SQL: DueDateExpr + " >= ?", Args: []any{day}},
		}}
	}
	return nil
}

// DueBetween restringe o vencimento calculado ao intervalo [de, ate],
// usado pelas faixas de prazo do dashboard.
func DueBetween(de, ate time.Time) Cond {
	return And{Conds: []Cond{
		Null{Col: "processos.data_intimacao", Not: true},
		Expr{
			SQL:  DueDateExpr + " BETWEEN ? AND ?",
			Args: []any{de.Format("2006-01-02"), ate.Format("2006-01-02")},
		},
	}}
}

// DueBefore restringe o vencimento calculado a antes de "dia" (exclusivo).
func DueBefore(dia time.Time) Cond {
	return And{Conds: []Cond{
		Null{Col: "processos.data_intimacao", Not: true},
		Expr{SQL: DueDateExpr + " < ?", Args: []any{dia.Format("2006-01-02")}},
	}}
}

// sortColumns mapeia campos de ordenação aceitos para colunas ou
// expressões. "usuario" ordena pelo nome do atribuído (exige o LEFT JOIN
// feito pela listagem); "prazo" ordena pelo vencimento calculado.
var sortColumns = map[string]string{
	"numero_processo":   "processos.numero_processo",
	"prazo_processual":  "processos.prazo_processual",
	"classe_principal":  "processos.classe_principal",
	"assunto_principal": "processos.assunto_principal",
	"tarjas":            "processos.tarjas",
	"data_intimacao":    "processos.data_intimacao",
	"cumprido":          "processos.cumprido",
	"cumpridoDate":      "processos.cumpridoDate",
	"reiteracoes":       "processos.reiteracoes",
	"observacoes":       "processos.observacoes",
	"usuario":           "usuarios.nome",
	"prazo":             DueDateExpr,
}

// OrderClauses traduz a ordenação pedida em cláusulas ORDER BY, na ordem
// recebida. Campos desconhecidos são ignorados; sem ordenação válida,
// o padrão é data de intimação mais recente primeiro.
func OrderClauses(sorts []Sort) []string {
	var out []string
	for _, s := range sorts {
		col, ok := sortColumns[s.Field]
		if !ok {
			continue
		}
		if s.Desc {
			out = append(out, col+" DESC")
		} else {
			out = append(out, col+" ASC")
		}
	}
	if len(out) == 0 {
		out = append(out, "processos.data_intimacao DESC")
	}
	return out
}

// PageBounds calcula limit/offset a partir da página (base 1) e do
// tamanho de página. itemsPerPage = AllItems devolve tudo sem paginação.
func PageBounds(page, itemsPerPage int) (limit, offset int) {
	if itemsPerPage == AllItems {
		return -1, 0
	}
	if itemsPerPage <= 0 {
		itemsPerPage = 10
	}
	if page < 1 {
		page = 1
	}
	return itemsPerPage, (page - 1) * itemsPerPage
}

func toAny(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func uintsToAny(vals []uint) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
