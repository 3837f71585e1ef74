package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"log"

	"github.com/Renal37/order-integrity/internal/config"
	"github.com/Renal37/order-integrity/internal/rules"
)

func generateRandomString(length int) string {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// NewConfig читает окружение; флаги задают значения, если переменная не определена.
func NewConfig() (config.Config, error) {
	var (
		endpoint string
		dsn      string
	)

	flag.StringVar(&endpoint, "a", "localhost:8090", "address and port to run server")
	flag.StringVar(&dsn, "d", "", "data source name for database connection")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = endpoint
	}

	if cfg.DSN == "" {
		cfg.DSN = dsn
	}

	if cfg.AuthSecretKey == "" {
		if cfg.Environment() == rules.EnvProduction {
			cfg.AuthSecretKey = generateRandomString(10)
			log.Printf("WARNING: AUTH_SECRET_KEY has to be defined for production environment\n")
		} else {
			cfg.AuthSecretKey = "development-key"
		}
	}

	return cfg, nil
}
