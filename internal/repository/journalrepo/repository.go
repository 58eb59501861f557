package journalrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"posconsole/internal/domain"
	"posconsole/internal/errors"
	"posconsole/internal/pkg/logger"
)

// JournalRepository grava o diário de submissões no PostgreSQL.
type JournalRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewJournalRepository cria e retorna uma nova instância do repositório do diário.
func NewJournalRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *JournalRepository {
	return &JournalRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Begin registra uma submissão como pending e devolve a entrada com ID e datas preenchidos.
func (r *JournalRepository) Begin(ctx context.Context, entry domain.SubmissionEntry) (domain.SubmissionEntry, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.Status = domain.SubmissionPending

	query := `
        INSERT INTO submissions (id, draft_id, idempotency_key, user_id, transaction_type, item_count, payload, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		entry.ID, entry.DraftID, entry.IdempotencyKey, entry.UserID,
		string(entry.TransactionType), entry.ItemCount, entry.Payload, string(entry.Status),
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		r.logger.Error("Falha ao registrar submissão no diário.", err)
		return domain.SubmissionEntry{}, errors.NewDBError("Falha ao registrar submissão", err)
	}

	r.logger.Debug("Submissão registrada no diário.", map[string]interface{}{"id": entry.ID, "draft_id": entry.DraftID})
	return entry, nil
}

// Complete fecha a entrada com o resultado do envio. Só entradas pending podem ser fechadas.
func (r *JournalRepository) Complete(ctx context.Context, id string, status domain.SubmissionStatus, groupID string, errorMessage string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação do diário.", err)
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctxTimeout, `SELECT status FROM submissions WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("Submissão %s não encontrada no diário.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao ler submissão do diário.", err)
		return errors.NewDBError("Falha ao ler submissão", err)
	}
	if domain.SubmissionStatus(current) != domain.SubmissionPending {
		r.logger.Warn("Submissão já finalizada no diário.", map[string]interface{}{"id": id, "status": current})
		return errors.NewConflictError(fmt.Sprintf("Submissão %s já está %s.", id, current))
	}

	_, err = tx.ExecContext(ctxTimeout, `
        UPDATE submissions
        SET status = $1, transaction_group_id = NULLIF($2, ''), error_message = NULLIF($3, ''), updated_at = $4
        WHERE id = $5`,
		string(status), groupID, errorMessage, time.Now(), id,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar submissão no diário.", err)
		return errors.NewDBError("Falha ao atualizar submissão", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação do diário.", commitErr)
		return errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Submissão finalizada no diário.", map[string]interface{}{"id": id, "status": status})
	return nil
}

// ListByUser devolve as últimas submissões de um operador, mais recentes primeiro.
func (r *JournalRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.SubmissionEntry, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT id, draft_id, idempotency_key, user_id, transaction_type, item_count, status,
               COALESCE(transaction_group_id, ''), COALESCE(error_message, ''), created_at, updated_at
        FROM submissions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, userID, limit)
	if err != nil {
		r.logger.Error("Falha ao listar submissões do diário.", err)
		return nil, errors.NewDBError("Falha ao listar submissões", err)
	}
	defer rows.Close()

	entries := []domain.SubmissionEntry{}
	for rows.Next() {
		var e domain.SubmissionEntry
		var txType, status string
		if err := rows.Scan(&e.ID, &e.DraftID, &e.IdempotencyKey, &e.UserID, &txType, &e.ItemCount, &status,
			&e.TransactionGroupID, &e.ErrorMessage, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao ler submissão", err)
		}
		e.TransactionType = domain.TransactionType(txType)
		e.Status = domain.SubmissionStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar submissões", err)
	}
	return entries, nil
}
