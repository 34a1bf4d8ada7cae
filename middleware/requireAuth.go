// backend/middleware/requireAuth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/julioborgesigt/distribuidorback/config"
	"github.com/julioborgesigt/distribuidorback/models"
)

// Chaves usadas para anexar a identidade autenticada ao contexto da
// requisição.
const (
	CtxUser      = "user"
	CtxLoginType = "loginType"
)

// RequireAdmin valida o token Bearer, recarrega o usuário a partir do
// banco (os dados do token podem estar defasados) e barra quem não
// possui nenhum privilégio de administrador. O tipo de login efetivo
// gravado no token segue junto no contexto.
func RequireAdmin(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mal formatado"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token inválido ou expirado"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Claims do token inválidas"})
			return
		}
		id, ok := claims["id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Claims do token inválidas"})
			return
		}

		var user models.User
		if err := db.First(&user, uint(id)).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Usuário do token não encontrado"})
			return
		}

		if !user.AdminPadrao && !user.AdminSuper {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso proibido. Requer privilégios de administrador."})
			return
		}

		loginType, _ := claims["loginType"].(string)
		if loginType == "" {
			loginType = "admin_padrao"
		}

		c.Set(CtxUser, user)
		c.Set(CtxLoginType, loginType)
		c.Next()
	}
}
