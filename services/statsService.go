// backend/services/statsService.go
package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/julioborgesigt/distribuidorback/models"
	"github.com/julioborgesigt/distribuidorback/query"
)

// SemNome é o rótulo exibido quando o processo não tem usuário atribuído.
const SemNome = "N.A."

// AssuntoCategorias são as categorias fixas de assunto contadas por
// substring no dashboard.
var AssuntoCategorias = []string{
	"Tráfico",
	"Roubo",
	"Furto",
	"Homicídio",
	"Violência Doméstica",
}

// UserCount é uma contagem agrupada por usuário atribuído.
type UserCount struct {
	Nome  string `json:"nome"`
	Total int64  `json:"total"`
}

// PrazoBuckets são as faixas de vencimento calculado sobre os pendentes.
type PrazoBuckets struct {
	Vencidos    int64 `json:"vencidos"`
	Ate10Dias   int64 `json:"ate_10_dias"`
	De11a30Dias int64 `json:"de_11_a_30_dias"`
}

// DashboardStats é a resposta agregada do painel.
type DashboardStats struct {
	TotalPendentes      int64            `json:"total_pendentes"`
	PendentesPorUsuario []UserCount      `json:"pendentes_por_usuario"`
	Prazos              PrazoBuckets     `json:"prazos"`
	CumpridosPorUsuario []UserCount      `json:"cumpridos_por_usuario"`
	AssuntosPendentes   map[string]int64 `json:"assuntos_pendentes"`
}

// StatsService compõe as consultas do dashboard sobre o builder de
// filtros; não há algoritmo próprio além da composição de predicados.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// PendingCond é o predicado base acrescido de cumprido = false.
func PendingCond(base query.Cond) query.Cond {
	return query.And{Conds: []query.Cond{
		base,
		query.Eq{Col: "processos.cumprido", Val: false},
	}}
}

// CompliantCond é o predicado base acrescido de cumprido = true. Quando o
// chamador não informou nenhum limite de data de cumprimento, o recorte
// padrão é os últimos 30 dias.
func CompliantCond(base query.Cond, p query.ListParams, now time.Time) query.Cond {
	conds := []query.Cond{
		base,
		query.Eq{Col: "processos.cumprido", Val: true},
	}
	if p.CumpridoDe == nil && p.CumpridoAte == nil {
		conds = append(conds, query.Range{
			Col: "processos.cumpridoDate",
			Min: now.AddDate(0, 0, -30),
		})
	}
	return query.And{Conds: conds}
}

// Dashboard dispara as contagens do painel em paralelo (são leituras
// independentes) e monta a resposta agregada.
func (s *StatsService) Dashboard(ctx context.Context, caller query.Caller, p query.ListParams, now time.Time) (*DashboardStats, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	base := query.Build(caller, p, today)
	pending := PendingCond(base)
	compliant := CompliantCond(base, p, now)

	stats := &DashboardStats{}
	assuntoTotais := make([]int64, len(AssuntoCategorias))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.count(ctx, pending, &stats.TotalPendentes)
	})
	g.Go(func() error {
		counts, err := s.groupByUser(ctx, pending)
		stats.PendentesPorUsuario = counts
		return err
	})
	g.Go(func() error {
		counts, err := s.groupByUser(ctx, compliant)
		stats.CumpridosPorUsuario = counts
		return err
	})
	g.Go(func() error {
		c := query.And{Conds: []query.Cond{pending, query.DueBefore(today)}}
		return s.count(ctx, c, &stats.Prazos.Vencidos)
	})
	g.Go(func() error {
		c := query.And{Conds: []query.Cond{pending, query.DueBetween(today, today.AddDate(0, 0, 10))}}
		return s.count(ctx, c, &stats.Prazos.Ate10Dias)
	})
	g.Go(func() error {
		c := query.And{Conds: []query.Cond{pending, query.DueBetween(today.AddDate(0, 0, 11), today.AddDate(0, 0, 30))}}
		return s.count(ctx, c, &stats.Prazos.De11a30Dias)
	})
	for i, categoria := range AssuntoCategorias {
		i, categoria := i, categoria
		g.Go(func() error {
			c := query.And{Conds: []query.Cond{
				pending,
				query.Like{Col: "processos.assunto_principal", Sub: categoria},
			}}
			return s.count(ctx, c, &assuntoTotais[i])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.AssuntosPendentes = make(map[string]int64, len(AssuntoCategorias))
	for i, categoria := range AssuntoCategorias {
		stats.AssuntosPendentes[categoria] = assuntoTotais[i]
	}
	return stats, nil
}

// UnassignedCount conta os processos sem usuário atribuído.
func (s *StatsService) UnassignedCount(ctx context.Context) (int64, error) {
	var total int64
	err := s.DB.WithContext(ctx).Model(&models.Process{}).
		Where("userId IS NULL").Count(&total).Error
	return total, err
}

func (s *StatsService) count(ctx context.Context, c query.Cond, out *int64) error {
	return query.Apply(s.DB.WithContext(ctx).Model(&models.Process{}), c).
		Count(out).Error
}

// groupByUser conta por usuário atribuído, dez maiores primeiro, com
// desempate estável pelo nome. Processos sem atribuição aparecem como
// "N.A.".
func (s *StatsService) groupByUser(ctx context.Context, c query.Cond) ([]UserCount, error) {
	var counts []UserCount
	err := query.Apply(s.DB.WithContext(ctx).Model(&models.Process{}), c).
		Select("COALESCE(usuarios.nome, ?) AS nome, COUNT(*) AS total", SemNome).
		Joins("LEFT JOIN usuarios ON usuarios.id = processos.userId").
		Group("processos.userId, usuarios.nome").
		Order("total DESC, nome ASC").
		Limit(10).
		Scan(&counts).Error
	return counts, err
}
