//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/soundcheck-labs/constellation/internal/store"
	"github.com/soundcheck-labs/constellation/pkg/acousticdna"
)

var (
	port           int
	storeCapacity  int
	allowedOrigins string
	configPath     string
	dbPath         string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.IntVar(&storeCapacity, "store-capacity", 8, "Reference store capacity (ignored when -db is set)")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
	flag.StringVar(&configPath, "config", getEnvOrDefault("CONSTELLATION_CONFIG", ""), "Path to a YAML config file (flags take precedence)")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("CONSTELLATION_DB", ""), "Path to a sqlite database for durable reference storage (defaults to the in-memory LRU store)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()

	fileCfg, err := loadFileConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	if fileCfg != nil {
		setFlags := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
		if fileCfg.Port != 0 && !setFlags["port"] {
			port = fileCfg.Port
		}
		if fileCfg.StoreCapacity != 0 && !setFlags["store-capacity"] {
			storeCapacity = fileCfg.StoreCapacity
		}
		if fileCfg.Origins != "" && !setFlags["origins"] {
			allowedOrigins = fileCfg.Origins
		}
	}

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	opts := []acousticdna.Option{acousticdna.WithStoreCapacity(storeCapacity)}
	var durable *store.Durable
	if dbPath != "" {
		durable, err = store.NewDurable(dbPath)
		if err != nil {
			log.Fatalf("Failed to open durable store: %v", err)
		}
		opts = append(opts, acousticdna.WithStore(durable))
	}

	service, err := acousticdna.NewService(opts...)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()
	if durable != nil {
		defer durable.Close()
	}

	config := &ServerConfig{
		Port:           port,
		AllowedOrigins: origins,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
