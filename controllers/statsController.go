// backend/controllers/statsController.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/julioborgesigt/distribuidorback/services"
)

type StatsController struct {
	Stats *services.StatsService
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{Stats: services.NewStatsService(db)}
}

// Dashboard devolve as estatísticas agregadas do painel, respeitando o
// mesmo recorte de visibilidade da listagem.
func (s *StatsController) Dashboard(c *gin.Context) {
	stats, err := s.Stats.Dashboard(c.Request.Context(), callerFrom(c), parseListParams(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao montar estatísticas do dashboard."})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// UnassignedCount devolve a contagem de processos sem atribuição.
func (s *StatsController) UnassignedCount(c *gin.Context) {
	total, err := s.Stats.UnassignedCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao contar processos não atribuídos."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total})
}
