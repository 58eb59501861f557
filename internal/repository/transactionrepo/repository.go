package transactionrepo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"posconsole/internal/domain"
	"posconsole/internal/pkg/apiclient"
	"posconsole/internal/pkg/logger"
)

// Requester é o subconjunto do apiclient usado pelo repositório.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body interface{}, out interface{}, header http.Header) error
}

// IdempotencyHeader é o header que acompanha cada submissão em lote.
const IdempotencyHeader = "Idempotency-Key"

// TransactionRepository lê e grava transações de inventário no backend.
type TransactionRepository struct {
	api    Requester
	logger logger.Logger
}

// NewTransactionRepository cria e retorna uma nova instância do repositório de transações.
func NewTransactionRepository(api Requester, logger logger.Logger) *TransactionRepository {
	return &TransactionRepository{api: api, logger: logger}
}

// List consulta GET /inventory-transaction com os filtros opcionais.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionRecord, error) {
	query := url.Values{}
	if filter.UserID != nil {
		query.Set("userId", strconv.FormatInt(*filter.UserID, 10))
	}
	if filter.StartDate != "" {
		query.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		query.Set("endDate", filter.EndDate)
	}

	var records []domain.TransactionRecord
	if err := r.api.Get(ctx, "/inventory-transaction", query, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.TransactionRecord{}
	}
	return records, nil
}

// SubmitBulk envia POST /inventory-transaction/bulk. Um 2xx é sucesso mesmo
// quando o corpo não segue o envelope esperado: tratar como falha levaria o
// operador a reenviar uma transação já registrada.
func (r *TransactionRepository) SubmitBulk(ctx context.Context, req domain.BulkTransactionRequest, idempotencyKey string) (domain.BulkTransactionResponse, error) {
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set(IdempotencyHeader, idempotencyKey)
	}

	var raw json.RawMessage
	var resp domain.BulkTransactionResponse
	err := r.api.Post(ctx, "/inventory-transaction/bulk", req, &raw, header)
	switch {
	case errors.Is(err, apiclient.ErrUndecodableResponse):
		r.logger.Warn("Backend aceitou o lote com corpo não decodificável.", map[string]interface{}{
			"idempotency_key": idempotencyKey,
			"error":           err.Error(),
		})
	case err != nil:
		return domain.BulkTransactionResponse{}, err
	default:
		resp = r.decodeBulkResponse(raw, idempotencyKey)
	}

	r.logger.Info("Transação em lote aceita pelo backend.", map[string]interface{}{
		"transaction_type":     req.TransactionType,
		"items":                len(req.Items),
		"transaction_group_id": resp.TransactionGroupID,
	})
	return resp, nil
}

// decodeBulkResponse aceita o envelope {transactionGroupId, transactions} ou
// uma lista simples de transações. Qualquer outro formato vira resposta vazia.
func (r *TransactionRepository) decodeBulkResponse(raw json.RawMessage, idempotencyKey string) domain.BulkTransactionResponse {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.BulkTransactionResponse{}
	}

	var envelope domain.BulkTransactionResponse
	if err := json.Unmarshal(raw, &envelope); err == nil {
		return envelope
	}

	var records []domain.TransactionRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		resp := domain.BulkTransactionResponse{Transactions: records}
		for _, rec := range records {
			if rec.TransactionGroupID != "" {
				resp.TransactionGroupID = rec.TransactionGroupID
				break
			}
		}
		return resp
	}

	r.logger.Warn("Resposta do lote em formato inesperado; seguindo como aceita.", map[string]interface{}{
		"idempotency_key": idempotencyKey,
	})
	return domain.BulkTransactionResponse{}
}
