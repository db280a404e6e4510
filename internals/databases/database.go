package database

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"scuoladigitale_backend/internals/configs"
)

var DB *gorm.DB

func ConnectDB() {
	logLevel := gormlogger.Warn
	if configs.AppEnv == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(configs.DBUrl), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(logLevel),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		log.Fatalf("❌ Connessione al database fallita: %v", err)
	}

	DB = db
	log.Println("✅ Database connesso")
}

// Pool dimensionato via env con default prudenti.
func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("❌ Pool non disponibile: %v", err)
	}
	sqlDB.SetMaxOpenConns(envInt("DB_MAX_OPEN", 25))
	sqlDB.SetMaxIdleConns(envInt("DB_MAX_IDLE", 10))
	sqlDB.SetConnMaxLifetime(time.Duration(envInt("DB_MAX_LIFETIME_MIN", 30)) * time.Minute)
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
