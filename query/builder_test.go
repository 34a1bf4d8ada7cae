// backend/query/builder_test.go
package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func TestBuildVisibilidadeAdminPadrao(t *testing.T) {
	// admin_padrao sempre cai em userId = próprio, mesmo pedindo outros
	// usuários ou processos sem atribuição na query string.
	caller := Caller{UserID: 7, Super: false}
	p := ListParams{UserIDs: []uint{1, 2, 3}, SemAtribuicao: true}

	s, args := SQL(Build(caller, p, today))
	assert.Equal(t, "processos.userId = ?", s)
	assert.Equal(t, []any{uint(7)}, args)
}

func TestBuildVisibilidadeSuperSemRecorte(t *testing.T) {
	s, args := SQL(Build(Caller{UserID: 7, Super: true}, ListParams{}, today))
	assert.Equal(t, "1 = 1", s)
	assert.Empty(t, args)
}

func TestBuildVisibilidadeSuperSeletor(t *testing.T) {
	s, args := SQL(Build(Caller{Super: true}, ListParams{UserIDs: []uint{1, 2}}, today))
	assert.Equal(t, "processos.userId IN ?", s)
	assert.Equal(t, []any{[]any{uint(1), uint(2)}}, args)
}

func TestBuildVisibilidadeSuperSemAtribuicao(t *testing.T) {
	s, _ := SQL(Build(Caller{Super: true}, ListParams{SemAtribuicao: true}, today))
	assert.Equal(t, "processos.userId IS NULL", s)
}

func TestBuildVisibilidadeSuperSeletorMaisSemAtribuicao(t *testing.T) {
	s, _ := SQL(Build(Caller{Super: true}, ListParams{UserIDs: []uint{5}, SemAtribuicao: true}, today))
	assert.Equal(t, "(processos.userId IN ? OR processos.userId IS NULL)", s)
}

func TestBuildFiltrosCompostos(t *testing.T) {
	p := ListParams{
		Search:   "123",
		Classes:  []string{"Ação Penal"},
		Cumprido: boolPtr(false),
	}
	s, args := SQL(Build(Caller{UserID: 9, Super: false}, p, today))

	assert.Contains(t, s, "processos.userId = ?")
	assert.Contains(t, s, "processos.numero_processo LIKE ?")
	assert.Contains(t, s, "processos.classe_principal IN ?")
	assert.Contains(t, s, "processos.cumprido = ?")
	// A restrição de visibilidade vem antes de qualquer filtro do chamador.
	assert.Equal(t, uint(9), args[0])
	require.Len(t, args, 4)
}

func TestBuildPrazoVencido(t *testing.T) {
	s, args := SQL(Build(Caller{Super: true}, ListParams{Prazo: PrazoVencido}, today))
	assert.Contains(t, s, "processos.data_intimacao IS NOT NULL")
	assert.Contains(t, s, DueDateExpr+" < ?")
	assert.Equal(t, []any{"2024-06-01"}, args)
}

func TestBuildPrazoAVencerFronteiraInclusiva(t *testing.T) {
	// Vencimento exatamente hoje é "a vencer", nunca "vencido".
	s, args := SQL(Build(Caller{Super: true}, ListParams{Prazo: PrazoAVencer}, today))
	assert.Contains(t, s, DueDateExpr+" >= ?")
	assert.Equal(t, []any{"2024-06-01"}, args)
}

func TestBuildPrazoDesconhecidoIgnorado(t *testing.T) {
	s, _ := SQL(Build(Caller{Super: true}, ListParams{Prazo: "qualquer"}, today))
	assert.Equal(t, "1 = 1", s)
}

func TestBuildIntervaloCumpridoDate(t *testing.T) {
	de := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ate := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)
	s, args := SQL(Build(Caller{Super: true}, ListParams{CumpridoDe: &de, CumpridoAte: &ate}, today))
	assert.Equal(t, "processos.cumpridoDate BETWEEN ? AND ?", s)
	assert.Equal(t, []any{de, ate}, args)

	s, args = SQL(Build(Caller{Super: true}, ListParams{CumpridoDe: &de}, today))
	assert.Equal(t, "processos.cumpridoDate >= ?", s)
	assert.Equal(t, []any{de}, args)
}

func TestDueBetween(t *testing.T) {
	s, args := SQL(DueBetween(today, today.AddDate(0, 0, 10)))
	assert.Contains(t, s, "processos.data_intimacao IS NOT NULL")
	assert.Contains(t, s, DueDateExpr+" BETWEEN ? AND ?")
	assert.Equal(t, []any{"2024-06-01", "2024-06-11"}, args)
}

func TestDueBefore(t *testing.T) {
	s, args := SQL(DueBefore(today))
	assert.Contains(t, s, DueDateExpr+" < ?")
	assert.Equal(t, []any{"2024-06-01"}, args)
}

func TestOrderClausesPadrao(t *testing.T) {
	assert.Equal(t, []string{"processos.data_intimacao DESC"}, OrderClauses(nil))
	assert.Equal(t, []string{"processos.data_intimacao DESC"}, OrderClauses([]Sort{{Field: "inexistente"}}))
}

func TestOrderClausesMapeamento(t *testing.T) {
	sorts := []Sort{
		{Field: "usuario", Desc: false},
		{Field: "prazo", Desc: true},
		{Field: "numero_processo", Desc: true},
		{Field: "campo_invalido"},
	}
	got := OrderClauses(sorts)
	assert.Equal(t, []string{
		"usuarios.nome ASC",
		DueDateExpr + " DESC",
		"processos.numero_processo DESC",
	}, got)
}

func TestPageBounds(t *testing.T) {
	limit, offset := PageBounds(3, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset, "23 itens com página 3 de 10 devolve os 3 finais")

	limit, offset = PageBounds(1, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, offset = PageBounds(0, 0)
	assert.Equal(t, 10, limit, "tamanho inválido cai no padrão")
	assert.Equal(t, 0, offset)

	limit, offset = PageBounds(5, AllItems)
	assert.Equal(t, -1, limit, "sentinela devolve tudo")
	assert.Equal(t, 0, offset)
}
