// backend/controllers/authController.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/julioborgesigt/distribuidorback/config"
	"github.com/julioborgesigt/distribuidorback/models"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

// Login autentica por matrícula e senha. O loginType pedido é validado
// contra as flags do usuário: admin_super pode logar como admin_padrao,
// nunca o contrário. No primeiro login (senha padrão ainda ativa) nenhum
// token é emitido; o cliente deve trocar a senha em /primeiro-login.
func (a *AuthController) Login(c *gin.Context) {
	var body struct {
		Matricula string `json:"matricula" binding:"required"`
		Senha     string `json:"senha" binding:"required"`
		LoginType string `json:"loginType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer matrícula e senha."})
		return
	}
	if body.LoginType != "admin_super" && body.LoginType != "admin_padrao" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de login (loginType) é obrigatório e deve ser admin_super ou admin_padrao."})
		return
	}

	var user models.User
	if err := a.DB.First(&user, "matricula = ?", body.Matricula).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno"})
		return
	}

	effectiveLoginType := ""
	if body.LoginType == "admin_super" && user.AdminSuper {
		effectiveLoginType = "admin_super"
	} else if body.LoginType == "admin_padrao" && (user.AdminPadrao || user.AdminSuper) {
		effectiveLoginType = "admin_padrao"
	}
	if effectiveLoginType == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Acesso negado. O usuário não possui as permissões de administrador solicitadas."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Senha), []byte(body.Senha)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Senha incorreta"})
		return
	}

	if user.SenhaPadrao {
		c.JSON(http.StatusOK, gin.H{
			"firstLogin": true,
			"userId":     user.ID,
			"loginType":  effectiveLoginType,
		})
		return
	}

	token, err := a.signToken(user.ID, effectiveLoginType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar o token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  loginUserPayload(user, effectiveLoginType),
	})
}

// FirstLogin troca a senha padrão e só então emite o token.
func (a *AuthController) FirstLogin(c *gin.Context) {
	var body struct {
		UserID    uint   `json:"userId" binding:"required"`
		NovaSenha string `json:"novaSenha" binding:"required"`
		LoginType string `json:"loginType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "É necessário fornecer userId e a nova senha."})
		return
	}
	if body.LoginType != "admin_super" && body.LoginType != "admin_padrao" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de login (loginType) inválido."})
		return
	}

	var user models.User
	if err := a.DB.First(&user, body.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.NovaSenha), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao processar a nova senha."})
		return
	}
	if err := a.DB.Model(&user).Updates(map[string]any{
		"senha":        string(hash),
		"senha_padrao": false,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao atualizar a senha."})
		return
	}

	token, err := a.signToken(user.ID, body.LoginType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar o token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  loginUserPayload(user, body.LoginType),
	})
}

func (a *AuthController) signToken(userID uint, loginType string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        userID,
		"loginType": loginType,
		"exp":       time.Now().Add(2 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(a.Cfg.JWTSecret))
}

// loginUserPayload monta o objeto de usuário da resposta de login. Quando
// o login efetivo é admin_padrao, a flag admin_super é mascarada para que
// o frontend não exponha funções elevadas nessa sessão.
func loginUserPayload(user models.User, effectiveLoginType string) gin.H {
	adminSuper := user.AdminSuper
	if effectiveLoginType == "admin_padrao" {
		adminSuper = false
	}
	return gin.H{
		"id":           user.ID,
		"matricula":    user.Matricula,
		"nome":         user.Nome,
		"admin_padrao": user.AdminPadrao,
		"admin_super":  adminSuper,
	}
}
