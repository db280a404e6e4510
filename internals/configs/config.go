package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Variabili d'ambiente lette una volta all'avvio.
var (
	DBUrl       string
	JWTSecret   string
	AppEnv      string
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  Nessun file .env, uso le variabili d'ambiente di sistema")
	}

	DBUrl = os.Getenv("DATABASE_URL")
	JWTSecret = os.Getenv("JWT_SECRET")
	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "" {
		AppEnv = "development"
	}

	if DBUrl == "" {
		log.Println("⚠️  DATABASE_URL non impostata")
	}
	if JWTSecret == "" {
		log.Println("⚠️  JWT_SECRET non impostata")
	}
}
