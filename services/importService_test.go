// backend/services/importService_test.go
package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julioborgesigt/distribuidorback/models"
)

type fakeStore struct {
	byNumero map[string]*models.Process
	nextID   uint
	creates  int
	updates  map[uint]map[string]any
	findErr  error
	saveErr  error
}

func newFakeStore(existing ...*models.Process) *fakeStore {
	s := &fakeStore{
		byNumero: map[string]*models.Process{},
		updates:  map[uint]map[string]any{},
	}
	for _, p := range existing {
		s.nextID++
		p.ID = s.nextID
		s.byNumero[p.NumeroProcesso] = p
	}
	return s
}

func (s *fakeStore) FindByNumero(numero string) (*models.Process, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	p, ok := s.byNumero[numero]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) Create(p *models.Process) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.nextID++
	p.ID = s.nextID
	s.byNumero[p.NumeroProcesso] = p
	s.creates++
	return nil
}

func (s *fakeStore) Update(id uint, fields map[string]any) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.updates[id] = fields
	for _, p := range s.byNumero {
		if p.ID != id {
			continue
		}
		if v, ok := fields["prazo_processual"]; ok {
			p.PrazoProcessual = v.(string)
		}
		if v, ok := fields["classe_principal"]; ok {
			p.ClassePrincipal = v.(string)
		}
		if v, ok := fields["assunto_principal"]; ok {
			p.AssuntoPrincipal = v.(string)
		}
		if v, ok := fields["tarjas"]; ok {
			p.Tarjas = v.(string)
		}
		if v, ok := fields["data_intimacao"]; ok {
			d := v.(time.Time)
			p.DataIntimacao = &d
		}
		if v, ok := fields["cumprido"]; ok {
			p.Cumprido = v.(bool)
		}
		if v, ok := fields["reiteracoes"]; ok {
			p.Reiteracoes = v.(int)
		}
	}
	return nil
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDedupLatestKeepsMostRecent(t *testing.T) {
	rows := []ProcessRow{
		{NumeroProcesso: "P1", DataIntimacao: date(2024, 1, 10)},
		{NumeroProcesso: "P1", DataIntimacao: date(2024, 3, 1)},
		{NumeroProcesso: "P1", DataIntimacao: date(2024, 2, 15)},
	}
	out := DedupLatest(rows)
	require.Len(t, out, 1)
	assert.Equal(t, *date(2024, 3, 1), *out[0].DataIntimacao)
}

func TestDedupLatestNullLosesToAnyDate(t *testing.T) {
	rows := []ProcessRow{
		{NumeroProcesso: "P1", DataIntimacao: nil, Tarjas: "sem data"},
		{NumeroProcesso: "P1", DataIntimacao: date(2024, 1, 2), Tarjas: "com data"},
		{NumeroProcesso: "P1", DataIntimacao: nil, Tarjas: "sem data de novo"},
	}
	out := DedupLatest(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "com data", out[0].Tarjas)
}

func TestDedupLatestAllNullFirstSeenWins(t *testing.T) {
	rows := []ProcessRow{
		{NumeroProcesso: "P1", Tarjas: "primeira"},
		{NumeroProcesso: "P1", Tarjas: "segunda"},
	}
	out := DedupLatest(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "primeira", out[0].Tarjas)
}

func TestDedupLatestPreservesOrderAcrossProcessos(t *testing.T) {
	rows := []ProcessRow{
		{NumeroProcesso: "P2"},
		{NumeroProcesso: "P1"},
		{NumeroProcesso: "P2", DataIntimacao: date(2024, 5, 1)},
	}
	out := DedupLatest(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "P2", out[0].NumeroProcesso)
	assert.Equal(t, "P1", out[1].NumeroProcesso)
}

func TestImportRowsCreatesNewProcess(t *testing.T) {
	store := newFakeStore()
	rows := []ProcessRow{{
		NumeroProcesso:   "P1",
		PrazoProcessual:  "15",
		ClassePrincipal:  "Ação Penal",
		AssuntoPrincipal: "Roubo",
		Tarjas:           "Réu Preso",
		DataIntimacao:    date(2024, 1, 10),
	}}

	sum, err := ImportRows(store, rows)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Criados: 1}, sum)

	created := store.byNumero["P1"]
	require.NotNil(t, created)
	assert.False(t, created.Cumprido)
	assert.Equal(t, 0, created.Reiteracoes)
	assert.Equal(t, "15", created.PrazoProcessual)
}

func TestImportRowsIdempotente(t *testing.T) {
	store := newFakeStore()
	rows := []ProcessRow{{
		NumeroProcesso:  "P1",
		PrazoProcessual: "15",
		ClassePrincipal: "Execução",
		DataIntimacao:   date(2024, 1, 10),
	}}

	_, err := ImportRows(store, rows)
	require.NoError(t, err)

	sum, err := ImportRows(store, rows)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Inalterados: 1}, sum)
	assert.Empty(t, store.updates, "segunda passada não pode gerar escrita alguma")
}

func TestImportRowsReiteracaoIncrementa(t *testing.T) {
	store := newFakeStore(&models.Process{
		NumeroProcesso: "P1",
		Cumprido:       false,
		Reiteracoes:    2,
		DataIntimacao:  date(2024, 1, 1),
	})

	sum, err := ImportRows(store, []ProcessRow{{
		NumeroProcesso: "P1",
		DataIntimacao:  date(2024, 2, 1),
	}})
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Atualizados: 1}, sum)

	p := store.byNumero["P1"]
	assert.False(t, p.Cumprido)
	assert.Equal(t, 3, p.Reiteracoes)
	assert.Equal(t, *date(2024, 2, 1), *p.DataIntimacao)
}

func TestImportRowsReiteracaoReinicia(t *testing.T) {
	store := newFakeStore(&models.Process{
		NumeroProcesso: "P1",
		Cumprido:       true,
		Reiteracoes:    5,
		DataIntimacao:  date(2024, 1, 1),
	})

	_, err := ImportRows(store, []ProcessRow{{
		NumeroProcesso: "P1",
		DataIntimacao:  date(2024, 2, 1),
	}})
	require.NoError(t, err)

	p := store.byNumero["P1"]
	assert.False(t, p.Cumprido, "intimação mais nova reabre o processo")
	assert.Equal(t, 1, p.Reiteracoes)
}

func TestImportRowsDataAntigaNaoRegride(t *testing.T) {
	store := newFakeStore(&models.Process{
		NumeroProcesso: "P1",
		Cumprido:       true,
		Reiteracoes:    4,
		Tarjas:         "antiga",
		DataIntimacao:  date(2024, 2, 1),
	})

	sum, err := ImportRows(store, []ProcessRow{{
		NumeroProcesso: "P1",
		Tarjas:         "nova",
		DataIntimacao:  date(2024, 1, 1),
	}})
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Atualizados: 1}, sum)

	p := store.byNumero["P1"]
	assert.Equal(t, *date(2024, 2, 1), *p.DataIntimacao, "data não pode andar para trás")
	assert.True(t, p.Cumprido, "cumprimento intocado sem avanço de data")
	assert.Equal(t, 4, p.Reiteracoes)
	assert.Equal(t, "nova", p.Tarjas, "campos não temporais ainda seguem o diff")
}

func TestImportRowsDataNulaNaoDispara(t *testing.T) {
	store := newFakeStore(&models.Process{
		NumeroProcesso: "P1",
		DataIntimacao:  date(2024, 2, 1),
		Reiteracoes:    1,
	})

	sum, err := ImportRows(store, []ProcessRow{{
		NumeroProcesso: "P1",
		DataIntimacao:  nil,
	}})
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Inalterados: 1}, sum)
}

func TestImportRowsErroDePersistenciaAborta(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("conexão perdida")

	_, err := ImportRows(store, []ProcessRow{{NumeroProcesso: "P1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.saveErr)
}
