package main

import (
	"log"

	"github.com/joho/godotenv"

	"ems/internal/app/server"
	"ems/internal/platform/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	server.Run(cfg)
}
