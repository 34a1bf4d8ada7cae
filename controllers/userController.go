// backend/controllers/userController.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/julioborgesigt/distribuidorback/models"
)

// SenhaInicial é a senha atribuída em pré-cadastros atualizados e resets;
// o usuário é obrigado a trocá-la no primeiro login.
const SenhaInicial = "12345678"

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// PreCadastro cria um usuário administrador. Se a matrícula já existe e
// updateIfExists veio marcado, o usuário é atualizado e volta para a
// senha inicial; sem a flag, responde 409 perguntando se deve atualizar.
func (u *UserController) PreCadastro(c *gin.Context) {
	var body struct {
		Matricula      string `json:"matricula" binding:"required"`
		Nome           string `json:"nome" binding:"required"`
		Senha          string `json:"senha" binding:"required"`
		TipoCadastro   string `json:"tipoCadastro" binding:"required"`
		UpdateIfExists bool   `json:"updateIfExists"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obrigatórios ausentes."})
		return
	}

	adminPadrao := false
	adminSuper := false
	switch body.TipoCadastro {
	case "admin_padrao":
		adminPadrao = true
	case "admin_super":
		adminPadrao = true
		adminSuper = true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "tipoCadastro deve ser admin_padrao ou admin_super."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Senha), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao processar a senha."})
		return
	}

	var existing models.User
	err = u.DB.First(&existing, "matricula = ?", body.Matricula).Error
	if err == nil {
		if !body.UpdateIfExists {
			c.JSON(http.StatusConflict, gin.H{
				"error":        "Usuário já cadastrado.",
				"updatePrompt": "Deseja atualizar o usuário existente? A senha será: " + SenhaInicial,
			})
			return
		}
		inicial, err := bcrypt.GenerateFromPassword([]byte(SenhaInicial), 10)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao processar a senha."})
			return
		}
		updates := map[string]any{
			"nome":         body.Nome,
			"senha":        string(inicial),
			"senha_padrao": true,
			"admin_padrao": adminPadrao,
			"admin_super":  adminSuper,
		}
		if err := u.DB.Model(&existing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao realizar pré-cadastro."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Usuário atualizado com sucesso. Senha: " + SenhaInicial})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao realizar pré-cadastro."})
		return
	}

	user := models.User{
		Matricula:   body.Matricula,
		Nome:        body.Nome,
		Senha:       string(hash),
		SenhaPadrao: true,
		AdminPadrao: adminPadrao,
		AdminSuper:  adminSuper,
	}
	if err := u.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao realizar pré-cadastro."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Pré-cadastro realizado com sucesso."})
}

// ResetPassword volta o usuário para a senha inicial e marca senha_padrao
// para forçar a troca no próximo login.
func (u *UserController) ResetPassword(c *gin.Context) {
	var body struct {
		Matricula string `json:"matricula" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Matrícula obrigatória."})
		return
	}

	var user models.User
	if err := u.DB.First(&user, "matricula = ?", body.Matricula).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao resetar senha."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SenhaInicial), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao resetar senha."})
		return
	}
	if err := u.DB.Model(&user).Updates(map[string]any{
		"senha":        string(hash),
		"senha_padrao": true,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao resetar senha."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Senha resetada com sucesso para \"" + SenhaInicial + "\"."})
}

// DeleteMatricula remove um usuário, desde que nenhum processo ainda
// esteja atribuído a ele.
func (u *UserController) DeleteMatricula(c *gin.Context) {
	var body struct {
		Matricula string `json:"matricula" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Matrícula obrigatória."})
		return
	}

	var user models.User
	if err := u.DB.First(&user, "matricula = ?", body.Matricula).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao deletar usuário."})
		return
	}

	var vinculados int64
	if err := u.DB.Model(&models.Process{}).Where("userId = ?", user.ID).Count(&vinculados).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao deletar usuário."})
		return
	}
	if vinculados > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Não é possível excluir: existem processos atribuídos a este usuário."})
		return
	}

	if err := u.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao deletar usuário."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário deletado com sucesso."})
}

// List devolve apenas matrícula e nome, para popular seletores de
// atribuição no frontend.
func (u *UserController) List(c *gin.Context) {
	var users []struct {
		Matricula string `json:"matricula"`
		Nome      string `json:"nome"`
	}
	if err := u.DB.Model(&models.User{}).Select("matricula, nome").Order("nome ASC").Scan(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar usuários."})
		return
	}
	c.JSON(http.StatusOK, users)
}
