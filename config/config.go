// backend/config/config.go
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config reúne toda a configuração da aplicação, carregada uma única vez
// no arranque e passada por referência aos colaboradores.
type Config struct {
	DatabaseDSN    string
	JWTSecret      string
	Port           string
	UploadDir      string
	AdminMatricula string
	AdminSenha     string
}

// Load lê o .env (se existir) e monta a configuração a partir das
// variáveis de ambiente.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
	}

	return &Config{
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Port:           getenv("PORT", "8080"),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		AdminMatricula: getenv("ADMIN_MATRICULA", "admin"),
		AdminSenha:     getenv("ADMIN_SENHA", "12345678"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
