package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/config"

	_ "github.com/lib/pq"
)

// DB is the process-wide connection pool, initialized once at startup and
// read-only afterwards.
var DB *sql.DB

// InitDB opens the database connection pool and verifies connectivity.
func InitDB() {
	var err error

	host := config.GetEnvOrDefault("DB_HOST", "localhost")
	port := config.GetEnvOrDefault("DB_PORT", "5432")
	user := config.GetEnvOrDefault("DB_USER", "postgres")
	password := config.GetEnvOrDefault("DB_PASSWORD", "password")
	dbName := config.GetEnvOrDefault("DB_NAME", "shelflife")
	sslMode := config.GetEnvOrDefault("DB_SSLMODE", "disable")

	logrus.Infof("Connecting to database: host=%s port=%s user=%s db=%s sslmode=%s", host, port, user, dbName, sslMode)

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbName, sslMode)

	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}

	DB.SetMaxOpenConns(config.GetIntEnvOrDefault("DB_MAX_OPEN_CONNS", 25))
	DB.SetMaxIdleConns(config.GetIntEnvOrDefault("DB_MAX_IDLE_CONNS", 25))
	DB.SetConnMaxIdleTime(time.Duration(config.GetIntEnvOrDefault("DB_CONN_MAX_IDLE_MINUTES", 5)) * time.Minute)
	DB.SetConnMaxLifetime(time.Duration(config.GetIntEnvOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute)

	if err = DB.Ping(); err != nil {
		logrus.Fatal("Failed to ping database: ", err)
	}

	logrus.Info("Connected to database successfully")
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}
