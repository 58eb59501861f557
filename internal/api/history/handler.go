package history

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"posconsole/internal/api/httpx"
	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
	"posconsole/internal/export"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/service/historyservice"
)

// HistoryService define o contrato que o Handler espera da camada de Serviço.
type HistoryService interface {
	List(ctx context.Context, filter domain.TransactionFilter) (historyservice.History, error)
	Summary(ctx context.Context, filter domain.TransactionFilter) (historyservice.Summary, error)
}

// dateLayout é o formato aceito por startDate e endDate.
const dateLayout = "2006-01-02"

// Handler agrupa todos os métodos de Handler do histórico de transações.
type Handler struct {
	Service HistoryService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc HistoryService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	httpx.Respond(w, r, h.Logger, data, err, successStatus)
}

// parseFilter lê userId, startDate e endDate da query.
func parseFilter(r *http.Request) (domain.TransactionFilter, error) {
	userID, err := httpx.QueryInt64(r, "userId")
	if err != nil {
		return domain.TransactionFilter{}, err
	}
	filter := domain.TransactionFilter{
		UserID:    userID,
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}

	fields := map[string]string{}
	var start, end time.Time
	if filter.StartDate != "" {
		if start, err = time.Parse(dateLayout, filter.StartDate); err != nil {
			fields["startDate"] = "Formato esperado: AAAA-MM-DD."
		}
	}
	if filter.EndDate != "" {
		if end, err = time.Parse(dateLayout, filter.EndDate); err != nil {
			fields["endDate"] = "Formato esperado: AAAA-MM-DD."
		}
	}
	if len(fields) == 0 && !start.IsZero() && !end.IsZero() && end.Before(start) {
		fields["endDate"] = "La fecha final no puede ser anterior a la inicial."
	}
	if len(fields) > 0 {
		return domain.TransactionFilter{}, apperror.NewFieldValidationError("Filtro inválido.", fields)
	}
	return filter, nil
}

// ListTransactionsHandler lida com a requisição GET /v1/transactions.
// @Summary Histórico enriquecido de transações
// @Description Registros com nomes resolvidos. partial=true indica referências indisponíveis.
// @Tags transactions
// @Produce json
// @Param userId query int false "Filtra por operador"
// @Param startDate query string false "Data inicial (AAAA-MM-DD)"
// @Param endDate query string false "Data final (AAAA-MM-DD)"
// @Success 200 {object} historyservice.History
// @Failure 400 {object} domain.ErrorResponse "Filtro inválido"
// @Failure 502 {object} domain.ErrorResponse "Backend indisponível"
// @Security ApiKeyAuth
// @Router /transactions [get]
func (h *Handler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	history, err := h.Service.List(r.Context(), filter)
	h.handleServiceResponse(w, r, history, err, http.StatusOK)
}

// SummaryHandler lida com a requisição GET /v1/transactions/summary.
// @Summary Resumo do histórico por tipo
// @Tags transactions
// @Produce json
// @Param userId query int false "Filtra por operador"
// @Param startDate query string false "Data inicial (AAAA-MM-DD)"
// @Param endDate query string false "Data final (AAAA-MM-DD)"
// @Success 200 {object} historyservice.Summary
// @Security ApiKeyAuth
// @Router /transactions/summary [get]
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	summary, err := h.Service.Summary(r.Context(), filter)
	h.handleServiceResponse(w, r, summary, err, http.StatusOK)
}

// ExportHandler lida com a requisição GET /v1/transactions/export.
// @Summary Exporta o histórico enriquecido
// @Tags transactions
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (padrão) ou xlsx"
// @Param userId query int false "Filtra por operador"
// @Param startDate query string false "Data inicial (AAAA-MM-DD)"
// @Param endDate query string false "Data final (AAAA-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} domain.ErrorResponse "Formato ou filtro inválido"
// @Security ApiKeyAuth
// @Router /transactions/export [get]
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewFieldValidationError("Formato inválido.", map[string]string{"format": "Use csv o xlsx."}), http.StatusBadRequest)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	history, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transacciones.%s"`, format))
	if history.Partial {
		w.Header().Set("X-Partial-References", "true")
	}
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, format, history.Transactions); err != nil {
		h.Logger.Error("Falha ao gravar exportação do histórico", err)
	}
}
