package pointofsale

import (
	"context"
	"net/http"

	"posconsole/internal/api/httpx"
	"posconsole/internal/domain"
	"posconsole/internal/pkg/logger"
)

// PointOfSaleService define o contrato que o Handler espera da camada de Serviço.
type PointOfSaleService interface {
	ListPointsOfSale(ctx context.Context) ([]domain.PointOfSale, error)
}

// Handler agrupa os métodos de Handler de pontos de venda.
type Handler struct {
	Service PointOfSaleService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PointOfSaleService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ListPointsOfSaleHandler lida com a requisição GET /v1/points-of-sale.
// @Summary Lista os pontos de venda
// @Description Usado pelos seletores de origem e destino do rascunho.
// @Tags points-of-sale
// @Produce json
// @Success 200 {array} domain.PointOfSale
// @Failure 502 {object} domain.ErrorResponse "Backend indisponível"
// @Security ApiKeyAuth
// @Router /points-of-sale [get]
func (h *Handler) ListPointsOfSaleHandler(w http.ResponseWriter, r *http.Request) {
	points, err := h.Service.ListPointsOfSale(r.Context())
	httpx.Respond(w, r, h.Logger, points, err, http.StatusOK)
}
