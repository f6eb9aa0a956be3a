package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is everything the dashboard reads from the environment.
type Config struct {
	Port          string
	BackendOrigin string
	SessionDB     string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (when present) and the process environment. The backend
// origin defaults to the local development backend.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}
	return Config{
		Port:          getEnv("PORT", "5173"),
		BackendOrigin: getEnv("BACKEND_ORIGIN", "http://localhost:8080"),
		SessionDB:     getEnv("SESSION_DB", "dashboard_session.db"),
	}
}
