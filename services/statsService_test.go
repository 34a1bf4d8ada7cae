// backend/services/statsService_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julioborgesigt/distribuidorback/query"
)

func TestPendingCond(t *testing.T) {
	base := query.Eq{Col: "processos.userId", Val: uint(3)}
	s, args := query.SQL(PendingCond(base))
	assert.Equal(t, "(processos.userId = ? AND processos.cumprido = ?)", s)
	assert.Equal(t, []any{uint(3), false}, args)
}

func TestCompliantCondRecorteDefault(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	base := query.And{}

	// Sem intervalo explícito, recorta aos últimos 30 dias.
	s, args := query.SQL(CompliantCond(base, query.ListParams{}, now))
	assert.Contains(t, s, "processos.cumprido = ?")
	assert.Contains(t, s, "processos.cumpridoDate >= ?")
	require.Len(t, args, 2)
	assert.Equal(t, now.AddDate(0, 0, -30), args[1])
}

func TestCompliantCondIntervaloExplicitoMantido(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	de := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := query.ListParams{CumpridoDe: &de}

	// O intervalo do chamador já está no predicado base; nenhum recorte
	// padrão é acrescentado por cima.
	s, _ := query.SQL(CompliantCond(query.And{}, p, now))
	assert.NotContains(t, s, "cumpridoDate >= ?")
	assert.Contains(t, s, "processos.cumprido = ?")
}
