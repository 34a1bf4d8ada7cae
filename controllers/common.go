// backend/controllers/common.go
package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julioborgesigt/distribuidorback/middleware"
	"github.com/julioborgesigt/distribuidorback/models"
	"github.com/julioborgesigt/distribuidorback/query"
)

// callerFrom monta a identidade de consulta a partir do que o middleware
// de autenticação anexou ao contexto. O recorte de visibilidade usa o
// tipo de login EFETIVO: um admin_super logado como admin_padrao enxerga
// apenas os próprios processos.
func callerFrom(c *gin.Context) query.Caller {
	userInterface, _ := c.Get(middleware.CtxUser)
	user, _ := userInterface.(models.User)
	loginType, _ := c.Get(middleware.CtxLoginType)
	return query.Caller{
		UserID: user.ID,
		Super:  loginType == "admin_super",
	}
}

// parseListParams extrai os filtros opcionais da query string. Filtros
// repetíveis aceitam um valor ou vários; o middleware de autenticação é
// quem fornece identidade e papel, nunca a query string.
func parseListParams(c *gin.Context) query.ListParams {
	p := query.ListParams{
		Search:   c.Query("search"),
		Classes:  c.QueryArray("classe"),
		Assuntos: c.QueryArray("assunto"),
		Tarjas:   c.QueryArray("tarja"),
		Prazo:    c.Query("prazo"),
	}

	if v := c.Query("cumprido"); v == "true" || v == "false" {
		b := v == "true"
		p.Cumprido = &b
	}
	if t := parseISODate(c.Query("cumpridoDe")); t != nil {
		p.CumpridoDe = t
	}
	if t := parseISODate(c.Query("cumpridoAte")); t != nil {
		// Limite superior inclusivo até o fim do dia.
		end := t.Add(24*time.Hour - time.Second)
		p.CumpridoAte = &end
	}
	for _, v := range c.QueryArray("usuario") {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			p.UserIDs = append(p.UserIDs, uint(id))
		}
	}
	p.SemAtribuicao = c.Query("semAtribuicao") == "true"
	return p
}

func parseISODate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// parseSorts lê a especificação de ordenação no formato repetível
// sortBy=campo&sortDesc=true, pareando por posição.
func parseSorts(c *gin.Context) []query.Sort {
	fields := c.QueryArray("sortBy")
	descs := c.QueryArray("sortDesc")
	sorts := make([]query.Sort, 0, len(fields))
	for i, f := range fields {
		desc := i < len(descs) && descs[i] == "true"
		sorts = append(sorts, query.Sort{Field: f, Desc: desc})
	}
	return sorts
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
