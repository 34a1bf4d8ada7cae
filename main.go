// backend/main.go
package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/julioborgesigt/distribuidorback/config"
	"github.com/julioborgesigt/distribuidorback/controllers"
	"github.com/julioborgesigt/distribuidorback/middleware"
	"github.com/julioborgesigt/distribuidorback/models"
	"github.com/julioborgesigt/distribuidorback/websocket"
)

func main() {
	cfg := config.Load()

	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Falha ao conectar ao banco de dados: %v", err)
	}

	log.Println("Iniciando a migração da base de dados...")
	if err := db.AutoMigrate(&models.User{}, &models.Process{}); err != nil {
		log.Fatalf("Falha na migração da base de dados: %v", err)
	}

	seedAdminUser(db, cfg)

	hub := websocket.NewHub()
	go hub.Run()

	auth := controllers.NewAuthController(db, cfg)
	users := controllers.NewUserController(db)
	processes := controllers.NewProcessController(db, cfg, hub)
	stats := controllers.NewStatsController(db)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.POST("/api/auth/login", auth.Login)
	r.POST("/api/auth/primeiro-login", auth.FirstLogin)

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAdmin(db, cfg))
	{
		admin.GET("/ws", hub.ServeWs)

		admin.GET("/users", users.List)
		admin.POST("/pre-cadastro", users.PreCadastro)
		admin.POST("/reset-password", users.ResetPassword)
		admin.POST("/delete-matricula", users.DeleteMatricula)

		admin.GET("/processes", processes.List)
		admin.POST("/upload", processes.UploadCSV)
		admin.POST("/assign", processes.AutoAssign)
		admin.POST("/manual-assign", processes.ManualAssign)
		admin.POST("/bulk-assign", processes.BulkAssign)
		admin.POST("/bulk-delete", processes.BulkDelete)
		admin.POST("/bulk-cumprido", processes.BulkCumprido)
		admin.POST("/update-intim", processes.UpdateIntim)
		admin.PUT("/processes/:id/observacoes", processes.UpdateObservacoes)
		admin.PATCH("/processes/:id/cumprir", processes.MarkCumprido)
		admin.PATCH("/processes/:id/desfazer-cumprir", processes.UnmarkCumprido)

		admin.GET("/stats/dashboard", stats.Dashboard)
		admin.GET("/stats/unassigned-count", stats.UnassignedCount)
	}

	log.Printf("Iniciando o servidor na porta %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Falha ao iniciar o servidor: %v", err)
	}
}

// seedAdminUser cria o administrador inicial quando a tabela de usuários
// ainda está vazia, com as credenciais da configuração e senha padrão
// marcada para forçar a troca no primeiro login.
func seedAdminUser(db *gorm.DB, cfg *config.Config) {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminSenha), 10)
	if err != nil {
		log.Fatalf("Erro ao semear usuário admin: %v", err)
	}
	admin := models.User{
		Matricula:   cfg.AdminMatricula,
		Nome:        "Administrador",
		Senha:       string(hash),
		SenhaPadrao: true,
		AdminPadrao: true,
		AdminSuper:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Erro ao semear usuário admin: %v", err)
	}
	log.Println("Usuário administrador inicial criado com sucesso.")
}
