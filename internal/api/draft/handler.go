package draft

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"posconsole/internal/api/httpx"
	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/middleware"
	"posconsole/internal/service/draftservice"
)

// DraftService define o contrato que o Handler espera da camada de Serviço.
type DraftService interface {
	Create(ctx context.Context, userID int64, initial draftservice.DraftPatch) (draftservice.DraftView, error)
	Get(ctx context.Context, userID int64, id string) (draftservice.DraftView, error)
	Update(ctx context.Context, userID int64, id string, patch draftservice.DraftPatch) (draftservice.DraftView, error)
	Discard(ctx context.Context, userID int64, id string) error
	Query(ctx context.Context, userID int64, id string, query string) error
	Candidates(ctx context.Context, userID int64, id string) ([]domain.CandidateItem, error)
	AddItem(ctx context.Context, userID int64, id string, req draftservice.AddItemRequest) (draftservice.DraftView, error)
	UpdateItem(ctx context.Context, userID int64, id string, key domain.ItemKey, quantity int) (draftservice.DraftView, error)
	RemoveItem(ctx context.Context, userID int64, id string, key domain.ItemKey) (draftservice.DraftView, error)
	Payload(ctx context.Context, userID int64, id string) (domain.BulkTransactionRequest, error)
	Submit(ctx context.Context, userID int64, id string) (draftservice.SubmitResult, error)
	Submissions(ctx context.Context, userID int64, limit int) ([]domain.SubmissionEntry, error)
}

// QueryRequest é o corpo de PUT /v1/drafts/{id}/query.
type QueryRequest struct {
	Query string `json:"query" validate:"max=100"`
}

// QuantityRequest é o corpo de PUT /v1/drafts/{id}/items/{key}.
type QuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// Handler agrupa todos os métodos de Handler de rascunhos.
type Handler struct {
	Service DraftService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc DraftService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	httpx.Respond(w, r, h.Logger, data, err, successStatus)
}

func currentUserID(r *http.Request) int64 {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		return 0
	}
	return claims.UserID
}

func itemKey(r *http.Request) (domain.ItemKey, error) {
	key, err := domain.ParseItemKey(chi.URLParam(r, "key"))
	if err != nil {
		return "", apperror.NewValidationError(err.Error())
	}
	return key, nil
}

// CreateDraftHandler lida com a requisição POST /v1/drafts.
// @Summary Cria um rascunho de transação
// @Description Abre um rascunho novo, opcionalmente com tipo e ponto de venda.
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft body draftservice.DraftPatch false "Campos iniciais"
// @Success 201 {object} draftservice.DraftView
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /drafts [post]
func (h *Handler) CreateDraftHandler(w http.ResponseWriter, r *http.Request) {
	var patch draftservice.DraftPatch
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSONBody(w, r, &patch); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
			return
		}
	}

	view, err := h.Service.Create(r.Context(), currentUserID(r), patch)
	h.handleServiceResponse(w, r, view, err, http.StatusCreated)
}

// GetDraftHandler lida com a requisição GET /v1/drafts/{id}.
// @Summary Obtém um rascunho
// @Description Estado, totais, validação e indicador de envio em andamento.
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Success 200 {object} draftservice.DraftView
// @Failure 404 {object} domain.ErrorResponse "Rascunho não encontrado"
// @Security ApiKeyAuth
// @Router /drafts/{id} [get]
func (h *Handler) GetDraftHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Get(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// UpdateDraftHandler lida com a requisição PATCH /v1/drafts/{id}.
// @Summary Altera campos do rascunho
// @Description Trocar o tipo limpa ponto de venda, destino, pagamento, desconto e itens.
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "ID do rascunho"
// @Param patch body draftservice.DraftPatch true "Campos alterados"
// @Success 200 {object} draftservice.DraftView
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Envio em andamento"
// @Security ApiKeyAuth
// @Router /drafts/{id} [patch]
func (h *Handler) UpdateDraftHandler(w http.ResponseWriter, r *http.Request) {
	var patch draftservice.DraftPatch
	if err := httpx.DecodeJSONBody(w, r, &patch); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	view, err := h.Service.Update(r.Context(), currentUserID(r), chi.URLParam(r, "id"), patch)
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// DiscardDraftHandler lida com a requisição DELETE /v1/drafts/{id}.
// @Summary Descarta um rascunho
// @Tags drafts
// @Param id path string true "ID do rascunho"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse "Rascunho não encontrado"
// @Security ApiKeyAuth
// @Router /drafts/{id} [delete]
func (h *Handler) DiscardDraftHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.Discard(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// QueryHandler lida com a requisição PUT /v1/drafts/{id}/query.
// @Summary Registra uma digitação na busca
// @Description A busca roda após o debounce; os resultados ficam em /candidates.
// @Tags drafts
// @Accept json
// @Param id path string true "ID do rascunho"
// @Param query body QueryRequest true "Texto digitado"
// @Success 202
// @Failure 400 {object} domain.ErrorResponse "Tipo de transação não selecionado"
// @Security ApiKeyAuth
// @Router /drafts/{id}/query [put]
func (h *Handler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := httpx.DecodeJSONBody(w, r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err := h.Service.Query(r.Context(), currentUserID(r), chi.URLParam(r, "id"), req.Query)
	h.handleServiceResponse(w, r, nil, err, http.StatusAccepted)
}

// CandidatesHandler lida com a requisição GET /v1/drafts/{id}/candidates.
// @Summary Lista os candidatos da última busca válida
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Success 200 {array} domain.CandidateItem
// @Security ApiKeyAuth
// @Router /drafts/{id}/candidates [get]
func (h *Handler) CandidatesHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Candidates(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	h.handleServiceResponse(w, r, items, err, http.StatusOK)
}

// AddItemHandler lida com a requisição POST /v1/drafts/{id}/items.
// @Summary Inclui um item no rascunho
// @Description Seleciona um candidato por id ou informa o candidato completo.
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "ID do rascunho"
// @Param item body draftservice.AddItemRequest true "Candidato e quantidade opcional"
// @Success 200 {object} draftservice.DraftView
// @Failure 404 {object} domain.ErrorResponse "Candidato fora dos resultados"
// @Security ApiKeyAuth
// @Router /drafts/{id}/items [post]
func (h *Handler) AddItemHandler(w http.ResponseWriter, r *http.Request) {
	var req draftservice.AddItemRequest
	if err := httpx.DecodeJSONBody(w, r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	view, err := h.Service.AddItem(r.Context(), currentUserID(r), chi.URLParam(r, "id"), req)
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// UpdateItemHandler lida com a requisição PUT /v1/drafts/{id}/items/{key}.
// @Summary Altera a quantidade de um item
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "ID do rascunho"
// @Param key path string true "Chave do item (inv:{id} ou prod:{id})"
// @Param quantity body QuantityRequest true "Nova quantidade"
// @Success 200 {object} draftservice.DraftView
// @Failure 404 {object} domain.ErrorResponse "Item não encontrado"
// @Security ApiKeyAuth
// @Router /drafts/{id}/items/{key} [put]
func (h *Handler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	key, err := itemKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	var req QuantityRequest
	if err := httpx.DecodeJSONBody(w, r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	view, err := h.Service.UpdateItem(r.Context(), currentUserID(r), chi.URLParam(r, "id"), key, *req.Quantity)
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// RemoveItemHandler lida com a requisição DELETE /v1/drafts/{id}/items/{key}.
// @Summary Remove um item do rascunho
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Param key path string true "Chave do item (inv:{id} ou prod:{id})"
// @Success 200 {object} draftservice.DraftView
// @Failure 404 {object} domain.ErrorResponse "Item não encontrado"
// @Security ApiKeyAuth
// @Router /drafts/{id}/items/{key} [delete]
func (h *Handler) RemoveItemHandler(w http.ResponseWriter, r *http.Request) {
	key, err := itemKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	view, err := h.Service.RemoveItem(r.Context(), currentUserID(r), chi.URLParam(r, "id"), key)
	h.handleServiceResponse(w, r, view, err, http.StatusOK)
}

// PayloadHandler lida com a requisição GET /v1/drafts/{id}/payload.
// @Summary Prévia do payload de envio
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Success 200 {object} domain.BulkTransactionRequest
// @Failure 400 {object} domain.ErrorResponse "Rascunho inválido"
// @Security ApiKeyAuth
// @Router /drafts/{id}/payload [get]
func (h *Handler) PayloadHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Service.Payload(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	h.handleServiceResponse(w, r, payload, err, http.StatusOK)
}

// SubmitHandler lida com a requisição POST /v1/drafts/{id}/submit.
// @Summary Envia o rascunho ao backend
// @Description Valida, monta e envia em lote. Falhas preservam o rascunho.
// @Tags drafts
// @Produce json
// @Param id path string true "ID do rascunho"
// @Success 201 {object} draftservice.SubmitResult
// @Failure 400 {object} domain.ErrorResponse "Rascunho inválido"
// @Failure 409 {object} domain.ErrorResponse "Envio em andamento"
// @Failure 502 {object} domain.ErrorResponse "Backend rejeitou a transação"
// @Security ApiKeyAuth
// @Router /drafts/{id}/submit [post]
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Submit(r.Context(), currentUserID(r), chi.URLParam(r, "id"))
	h.handleServiceResponse(w, r, result, err, http.StatusCreated)
}

// SubmissionsHandler lida com a requisição GET /v1/submissions.
// @Summary Lista as submissões do operador
// @Tags drafts
// @Produce json
// @Param limit query int false "Máximo de registros (padrão 100)"
// @Success 200 {array} domain.SubmissionEntry
// @Security ApiKeyAuth
// @Router /submissions [get]
func (h *Handler) SubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := httpx.QueryInt64(r, "limit")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	n := 0
	if limit != nil {
		n = int(*limit)
	}

	entries, err := h.Service.Submissions(r.Context(), currentUserID(r), n)
	h.handleServiceResponse(w, r, entries, err, http.StatusOK)
}
