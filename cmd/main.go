package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ytanne/goipwatch/pkg/app"
	"github.com/ytanne/goipwatch/pkg/config"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.NewConfig(path)
	if err != nil {
		log.Fatalf("Could not read config at %s: %v", path, err)
	}

	a := app.NewApp(cfg)
	if err := a.Run(context.Background()); err != nil {
		os.Exit(1)
	}
}
