// backend/controllers/processController.go
package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/julioborgesigt/distribuidorback/config"
	"github.com/julioborgesigt/distribuidorback/models"
	"github.com/julioborgesigt/distribuidorback/query"
	"github.com/julioborgesigt/distribuidorback/services"
	"github.com/julioborgesigt/distribuidorback/websocket"
)

type ProcessController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Hub *websocket.Hub
}

func NewProcessController(db *gorm.DB, cfg *config.Config, hub *websocket.Hub) *ProcessController {
	return &ProcessController{DB: db, Cfg: cfg, Hub: hub}
}

// List devolve a página de processos que o filtro composto seleciona,
// junto com o total de itens para o cálculo de páginas no cliente.
func (p *ProcessController) List(c *gin.Context) {
	caller := callerFrom(c)
	params := parseListParams(c)
	today := time.Now()

	cond := query.Build(caller, params, today)

	var total int64
	if err := query.Apply(p.DB.Model(&models.Process{}), cond).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar processos."})
		return
	}

	listQ := query.Apply(
		p.DB.Model(&models.Process{}).
			Select("processos.*").
			Joins("LEFT JOIN usuarios ON usuarios.id = processos.userId").
			Preload("User"),
		cond,
	)
	for _, clause := range query.OrderClauses(parseSorts(c)) {
		listQ = listQ.Order(clause)
	}
	limit, offset := query.PageBounds(atoiDefault(c.Query("page"), 1), atoiDefault(c.Query("itemsPerPage"), 10))
	if limit != -1 {
		listQ = listQ.Limit(limit).Offset(offset)
	}

	var processos []models.Process
	if err := listQ.Find(&processos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar processos."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": processos, "totalItems": total})
}

// UploadCSV recebe o arquivo de intimações, reconcilia o lote contra a
// base e remove o arquivo temporário apenas quando a importação inteira
// deu certo, permitindo repetir o envio após uma falha.
func (p *ProcessController) UploadCSV(c *gin.Context) {
	file, err := c.FormFile("csvFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhum arquivo foi enviado."})
		return
	}

	if err := os.MkdirAll(p.Cfg.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar o arquivo enviado."})
		return
	}
	dst := filepath.Join(p.Cfg.UploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar o arquivo enviado."})
		return
	}

	f, err := os.Open(dst)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao ler o arquivo CSV."})
		return
	}
	rows, err := services.ReadProcessRows(f)
	f.Close()
	if err != nil {
		log.Printf("Erro ao ler o CSV %s: %v", dst, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao ler o arquivo CSV."})
		return
	}

	summary, err := services.ImportRows(services.NewProcessStore(p.DB), rows)
	if err != nil {
		log.Printf("Erro ao importar o CSV %s: %v", dst, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar dados do CSV."})
		return
	}

	if err := os.Remove(dst); err != nil {
		log.Printf("Aviso: falha ao remover o arquivo importado %s: %v", dst, err)
	}
	p.Hub.NotifyRefresh("importacao")
	c.JSON(http.StatusOK, gin.H{
		"message": "CSV importado com sucesso. Registros mais recentes foram processados.",
		"resumo":  summary,
	})
}

// AutoAssign existiria para redistribuir processos ao último atribuído,
// mas depende de um histórico de atribuições que o sistema não guarda.
func (p *ProcessController) AutoAssign(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "Atribuição automática indisponível: o sistema não guarda histórico de atribuições."})
}

// ManualAssign atribui um processo (pelo número) a um usuário (pela
// matrícula).
func (p *ProcessController) ManualAssign(c *gin.Context) {
	var body struct {
		NumeroProcesso string `json:"numeroProcesso" binding:"required"`
		Matricula      string `json:"matricula" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer numeroProcesso e matricula."})
		return
	}

	var user models.User
	if err := p.DB.First(&user, "matricula = ?", body.Matricula).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atribuir processo."})
		return
	}

	numero := strings.TrimSpace(body.NumeroProcesso)
	var processo models.Process
	if err := p.DB.First(&processo, "numero_processo = ?", numero).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atribuir processo."})
		return
	}

	if err := p.DB.Model(&processo).Update("userId", user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atribuir processo."})
		return
	}
	p.Hub.NotifyRefresh("atribuicao")
	c.JSON(http.StatusOK, gin.H{"message": "Processo atribuído com sucesso."})
}

// BulkAssign atribui os processos selecionados a um usuário destino.
func (p *ProcessController) BulkAssign(c *gin.Context) {
	var body struct {
		ProcessIDs []uint `json:"processIds" binding:"required"`
		Matricula  string `json:"matricula" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer processIds e matricula."})
		return
	}

	var user models.User
	if err := p.DB.First(&user, "matricula = ?", body.Matricula).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário destino não encontrado."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao realizar atribuição em massa."})
		return
	}

	if err := p.DB.Model(&models.Process{}).Where("id IN ?", body.ProcessIDs).
		Update("userId", user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao realizar atribuição em massa."})
		return
	}
	p.Hub.NotifyRefresh("atribuicao")
	c.JSON(http.StatusOK, gin.H{"message": "Atribuição em massa realizada com sucesso."})
}

// BulkDelete remove os processos selecionados.
func (p *ProcessController) BulkDelete(c *gin.Context) {
	var body struct {
		ProcessIDs []uint `json:"processIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer processIds."})
		return
	}

	if err := p.DB.Where("id IN ?", body.ProcessIDs).Delete(&models.Process{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao realizar exclusão em massa."})
		return
	}
	p.Hub.NotifyRefresh("exclusao")
	c.JSON(http.StatusOK, gin.H{"message": "Exclusão em massa realizada com sucesso."})
}

// BulkCumprido marca os processos selecionados como cumpridos, zera as
// reiterações e registra a data de cumprimento.
func (p *ProcessController) BulkCumprido(c *gin.Context) {
	var body struct {
		ProcessIDs []uint `json:"processIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer processIds."})
		return
	}

	if err := p.DB.Model(&models.Process{}).Where("id IN ?", body.ProcessIDs).
		Updates(map[string]any{
			"cumprido":     true,
			"reiteracoes":  0,
			"cumpridoDate": time.Now(),
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar status em massa."})
		return
	}
	p.Hub.NotifyRefresh("cumprimento")
	c.JSON(http.StatusOK, gin.H{"message": "Processos marcados como cumpridos com sucesso."})
}

// UpdateIntim ajusta manualmente o contador de reiterações.
func (p *ProcessController) UpdateIntim(c *gin.Context) {
	var body struct {
		ProcessID   uint `json:"processId" binding:"required"`
		Reiteracoes *int `json:"reiteracoes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || *body.Reiteracoes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer processId e um número de reiterações válido."})
		return
	}

	var processo models.Process
	if err := p.DB.First(&processo, body.ProcessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar número de intim."})
		return
	}

	if err := p.DB.Model(&processo).Update("reiteracoes", *body.Reiteracoes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar número de intim."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Número de intim atualizado com sucesso."})
}

// UpdateObservacoes troca o texto livre de observações (nulo vira vazio).
func (p *ProcessController) UpdateObservacoes(c *gin.Context) {
	var body struct {
		Observacoes string `json:"observacoes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido."})
		return
	}
	if len(body.Observacoes) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Observações devem ter no máximo 100 caracteres."})
		return
	}

	processo, ok := p.findByID(c)
	if !ok {
		return
	}
	if err := p.DB.Model(processo).Update("observacoes", body.Observacoes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
		return
	}
	processo.Observacoes = body.Observacoes
	c.JSON(http.StatusOK, processo)
}

// MarkCumprido marca o processo como cumprido agora e devolve o registro
// recarregado com o usuário atribuído, como o frontend espera.
func (p *ProcessController) MarkCumprido(c *gin.Context) {
	processo, ok := p.findByID(c)
	if !ok {
		return
	}

	if err := p.DB.Model(processo).Updates(map[string]any{
		"cumprido":     true,
		"cumpridoDate": time.Now(),
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
		return
	}
	p.reloadWithUser(c, processo.ID)
}

// UnmarkCumprido desfaz o cumprimento, limpando a data.
func (p *ProcessController) UnmarkCumprido(c *gin.Context) {
	processo, ok := p.findByID(c)
	if !ok {
		return
	}

	if err := p.DB.Model(processo).Updates(map[string]any{
		"cumprido":     false,
		"cumpridoDate": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
		return
	}
	p.reloadWithUser(c, processo.ID)
}

func (p *ProcessController) findByID(c *gin.Context) (*models.Process, bool) {
	id := atoiDefault(c.Param("id"), 0)
	if id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador de processo inválido."})
		return nil, false
	}
	var processo models.Process
	if err := p.DB.First(&processo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
		return nil, false
	}
	return &processo, true
}

func (p *ProcessController) reloadWithUser(c *gin.Context, id uint) {
	var processo models.Process
	if err := p.DB.Preload("User").First(&processo, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
		return
	}
	c.JSON(http.StatusOK, processo)
}
