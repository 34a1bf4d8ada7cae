// backend/services/importService.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/julioborgesigt/distribuidorback/models"
)

// ProcessStore é o conjunto mínimo de operações de persistência que a
// reconciliação consome. FindByNumero devolve (nil, nil) quando o
// processo ainda não existe.
type ProcessStore interface {
	FindByNumero(numero string) (*models.Process, error)
	Create(p *models.Process) error
	Update(id uint, fields map[string]any) error
}

// ImportSummary resume o efeito líquido de uma importação.
type ImportSummary struct {
	Criados     int `json:"criados"`
	Atualizados int `json:"atualizados"`
	Inalterados int `json:"inalterados"`
}

// DedupLatest mantém, por número de processo, apenas a linha com a data
// de intimação mais recente. Uma data nula perde para qualquer data; se
// todas as datas do grupo forem nulas, vale a primeira linha vista.
// A ordem de primeira aparição é preservada.
func DedupLatest(rows []ProcessRow) []ProcessRow {
	out := make([]ProcessRow, 0, len(rows))
	pos := make(map[string]int, len(rows))
	for _, row := range rows {
		i, seen := pos[row.NumeroProcesso]
		if !seen {
			pos[row.NumeroProcesso] = len(out)
			out = append(out, row)
			continue
		}
		if row.DataIntimacao == nil {
			continue
		}
		kept := out[i]
		if kept.DataIntimacao == nil || dateAfter(*row.DataIntimacao, *kept.DataIntimacao) {
			out[i] = row
		}
	}
	return out
}

// ImportRows reconcilia o lote já deduplicado contra o armazenamento:
// cria processos inéditos e aplica atualizações seletivas nos existentes.
// A data de intimação só avança para frente; quando avança, o processo é
// reaberto (cumprido=false) e o contador de reiterações é incrementado
// (se ainda pendente) ou reiniciado em 1 (se estava cumprido).
//
// Cada linha gera no máximo uma escrita; sem diferenças, nenhuma. As
// escritas são aplicadas linha a linha, sem transação englobando o lote:
// uma falha no meio deixa as linhas anteriores persistidas.
func ImportRows(store ProcessStore, rows []ProcessRow) (ImportSummary, error) {
	var sum ImportSummary

	for _, row := range DedupLatest(rows) {
		existing, err := store.FindByNumero(row.NumeroProcesso)
		if err != nil {
			return sum, fmt.Errorf("falha ao consultar o processo %s: %w", row.NumeroProcesso, err)
		}

		if existing == nil {
			p := &models.Process{
				NumeroProcesso:   row.NumeroProcesso,
				PrazoProcessual:  row.PrazoProcessual,
				ClassePrincipal:  row.ClassePrincipal,
				AssuntoPrincipal: row.AssuntoPrincipal,
				Tarjas:           row.Tarjas,
				DataIntimacao:    row.DataIntimacao,
			}
			if err := store.Create(p); err != nil {
				return sum, fmt.Errorf("falha ao criar o processo %s: %w", row.NumeroProcesso, err)
			}
			sum.Criados++
			continue
		}

		updates := map[string]any{}
		if row.PrazoProcessual != existing.PrazoProcessual {
			updates["prazo_processual"] = row.PrazoProcessual
		}
		if row.ClassePrincipal != existing.ClassePrincipal {
			updates["classe_principal"] = row.ClassePrincipal
		}
		if row.AssuntoPrincipal != existing.AssuntoPrincipal {
			updates["assunto_principal"] = row.AssuntoPrincipal
		}
		if row.Tarjas != existing.Tarjas {
			updates["tarjas"] = row.Tarjas
		}
		if row.DataIntimacao != nil && existing.DataIntimacao != nil &&
			dateAfter(*row.DataIntimacao, *existing.DataIntimacao) {
			updates["data_intimacao"] = *row.DataIntimacao
			updates["cumprido"] = false
			if existing.Cumprido {
				updates["reiteracoes"] = 1
			} else {
				updates["reiteracoes"] = existing.Reiteracoes + 1
			}
		}

		if len(updates) == 0 {
			sum.Inalterados++
			continue
		}
		if err := store.Update(existing.ID, updates); err != nil {
			return sum, fmt.Errorf("falha ao atualizar o processo %s: %w", row.NumeroProcesso, err)
		}
		sum.Atualizados++
	}
	return sum, nil
}

// dateAfter compara apenas a parte de data, ignorando hora e fuso.
func dateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).
		After(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}

type gormProcessStore struct {
	db *gorm.DB
}

// NewProcessStore devolve a implementação GORM do ProcessStore.
func NewProcessStore(db *gorm.DB) ProcessStore {
	return &gormProcessStore{db: db}
}

func (s *gormProcessStore) FindByNumero(numero string) (*models.Process, error) {
	var p models.Process
	err := s.db.Where("numero_processo = ?", numero).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormProcessStore) Create(p *models.Process) error {
	return s.db.Create(p).Error
}

func (s *gormProcessStore) Update(id uint, fields map[string]any) error {
	return s.db.Model(&models.Process{}).Where("id = ?", id).Updates(fields).Error
}
