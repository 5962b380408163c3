package main

import (
	"context"
	"log"

	"github.com/Tanaychoubey/user-registration-api/internal/server"
	"github.com/Tanaychoubey/user-registration-api/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {

	// a missing .env is fine; the process environment still applies
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
