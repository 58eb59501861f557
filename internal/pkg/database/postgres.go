package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"posconsole/internal/pkg/logger"
)

// NewPostgresDB abre o pool de conexões do diário de submissões e confirma o acesso com PING.
func NewPostgresDB(ctx context.Context, dataSourceName string, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	// O diário só grava uma linha por submissão; o pool pode ser pequeno.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	log.Info("Pool de conexões PostgreSQL configurado", map[string]interface{}{"max_open_conns": 10})
	return db, nil
}
