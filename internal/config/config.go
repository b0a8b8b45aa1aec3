package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// Defaults for consolidation runs, overridable per run
	MinClusterSize int
	MaxRangeKm     *float64
	DryRun         bool
}

// Load reads configuration from the environment, picking up a .env file
// when present
func Load() *Config {
	_ = godotenv.Load(".env")

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/venues.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	cfg := &Config{
		Port:           port,
		DBPath:         dbPath,
		JWTSecret:      jwtSecret,
		MinClusterSize: 3,
	}

	if v := os.Getenv("MIN_CLUSTER_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Printf("Ignoring invalid MIN_CLUSTER_SIZE %q", v)
		} else {
			cfg.MinClusterSize = n
		}
	}

	if v := os.Getenv("MAX_RANGE_KM"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			log.Printf("Ignoring invalid MAX_RANGE_KM %q", v)
		} else {
			cfg.MaxRangeKm = &f
		}
	}

	if v := os.Getenv("DRY_RUN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("Ignoring invalid DRY_RUN %q", v)
		} else {
			cfg.DryRun = b
		}
	}

	return cfg
}
