package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"posconsole/config"
	"posconsole/internal/pkg/database"
	"posconsole/internal/pkg/logger"
	"posconsole/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: arquivo .env não encontrado. Usando apenas o ambiente do sistema: %v", err)
	}

	flag.Parse()

	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatalf("goose: %v", err)
	}
	logg := logger.NewLogger(cfg.LogLevel)
	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, logg)
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao DB: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o DB: %v", err)
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := migrations.Run(ctx, db, command, args...); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("goose %s success\n", command)
}
