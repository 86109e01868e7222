package app

import (
	"time"

	"posts-api/internal/db"
	"posts-api/internal/utils"
)

type Config struct {
	Port           string
	StoreDriver    string
	MongoURI       string
	MongoDatabase  string
	DatabaseURL    string
	MaxPageLimit   int
	ConnectTimeout time.Duration
}

// LoadConfig reads the configuration from the environment. Call
// utils.LoadEnv first to pick up a .env file.
func LoadConfig() Config {
	connString := utils.GetEnv("DATABASE_URL", "")
	if connString == "" {
		// Fallback to individual vars
		connString = "postgres://" + utils.GetEnv("POSTGRES_USER", "postgres") + ":" +
			utils.GetEnv("POSTGRES_PASSWORD", "postgres") + "@" +
			utils.GetEnv("POSTGRES_HOST", "localhost") + ":" +
			utils.GetEnv("POSTGRES_PORT", "5432") + "/" +
			utils.GetEnv("POSTGRES_DB", "postsdb") + "?sslmode=disable"
	}

	return Config{
		Port:           utils.GetEnv("PORT", "3000"),
		StoreDriver:    utils.GetEnv("STORE_DRIVER", db.DriverMongo),
		MongoURI:       utils.GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  utils.GetEnv("MONGODB_DATABASE", "mydb"),
		DatabaseURL:    connString,
		MaxPageLimit:   utils.GetEnvInt("MAX_PAGE_LIMIT", 100),
		ConnectTimeout: utils.GetEnvDuration("STORE_CONNECT_TIMEOUT", 10*time.Second),
	}
}

func (c Config) StoreOptions() db.Options {
	return db.Options{
		Driver:         c.StoreDriver,
		MongoURI:       c.MongoURI,
		MongoDatabase:  c.MongoDatabase,
		PostgresURL:    c.DatabaseURL,
		ConnectTimeout: c.ConnectTimeout,
	}
}
