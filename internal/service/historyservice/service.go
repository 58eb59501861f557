package historyservice

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"posconsole/internal/domain"
	"posconsole/internal/enrichment"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/metrics"
)

// TransactionLister define a leitura do histórico no backend.
type TransactionLister interface {
	List(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionRecord, error)
}

// ReferenceSource fornece as coleções usadas para resolver nomes.
type ReferenceSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	PointsOfSale(ctx context.Context) ([]domain.PointOfSale, error)
	Users(ctx context.Context) ([]domain.User, error)
	Inventories(ctx context.Context) ([]domain.Inventory, error)
}

// Nomes das coleções de referência, usados em avisos e métricas.
const (
	CollectionProducts     = "products"
	CollectionPointsOfSale = "points_of_sale"
	CollectionUsers        = "users"
	CollectionInventories  = "inventories"
)

// History é a lista enriquecida. Partial indica que alguma coleção de referência
// falhou e os nomes correspondentes aparecem como rótulos de fallback.
type History struct {
	Transactions []domain.EnrichedTransaction `json:"transactions"`
	Partial      bool                         `json:"partial"`
	Warnings     []string                     `json:"warnings,omitempty"`
}

// Summary é o agregado por tipo do histórico.
type Summary struct {
	Summary  []domain.TypeSummary `json:"summary"`
	Partial  bool                 `json:"partial"`
	Warnings []string             `json:"warnings,omitempty"`
}

// Service monta o histórico enriquecido de transações.
type Service struct {
	transactions TransactionLister
	references   ReferenceSource
	logger       logger.Logger
	metrics      *metrics.Metrics
}

// NewService cria e retorna uma nova instância do serviço de histórico.
func NewService(transactions TransactionLister, references ReferenceSource, logger logger.Logger, m *metrics.Metrics) *Service {
	return &Service{transactions: transactions, references: references, logger: logger, metrics: m}
}

// List busca registros e referências em paralelo e devolve a visão enriquecida.
// Falha na leitura dos registros é erro; falha de uma referência degrada para rótulos.
func (s *Service) List(ctx context.Context, filter domain.TransactionFilter) (History, error) {
	s.logger.Debug("Carregando histórico de transações.", map[string]interface{}{
		"user_id":    filter.UserID,
		"start_date": filter.StartDate,
		"end_date":   filter.EndDate,
	})

	var (
		wg         sync.WaitGroup
		records    []domain.TransactionRecord
		recordsErr error
		refs       references
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		records, recordsErr = s.transactions.List(ctx, filter)
	}()
	refs = s.loadReferences(ctx)
	wg.Wait()

	if recordsErr != nil {
		s.logger.Error("Falha ao carregar registros de transações.", recordsErr)
		return History{}, recordsErr
	}

	snap := enrichment.NewSnapshot(refs.products, refs.pointsOfSale, refs.users, refs.inventories)
	views := enrichment.Join(records, snap)

	history := History{
		Transactions: views,
		Partial:      len(refs.failed) > 0,
		Warnings:     warningsFor(refs.failed),
	}
	s.logger.Info("Histórico carregado.", map[string]interface{}{
		"records": len(views),
		"partial": history.Partial,
	})
	return history, nil
}

// Summary agrega o histórico por tipo de transação.
func (s *Service) Summary(ctx context.Context, filter domain.TransactionFilter) (Summary, error) {
	history, err := s.List(ctx, filter)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Summary:  enrichment.Summarize(history.Transactions),
		Partial:  history.Partial,
		Warnings: history.Warnings,
	}, nil
}

type references struct {
	products     []domain.Product
	pointsOfSale []domain.PointOfSale
	users        []domain.User
	inventories  []domain.Inventory
	failed       []string
}

// loadReferences busca as quatro coleções em paralelo. Cada falha é registrada
// e a coleção fica vazia no snapshot.
func (s *Service) loadReferences(ctx context.Context) references {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		refs references
		errs error
	)

	fetch := func(collection string, load func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := load(); err != nil {
				mu.Lock()
				refs.failed = append(refs.failed, collection)
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", collection, err))
				mu.Unlock()
				s.metrics.IncReferenceFailure(collection)
			}
		}()
	}

	fetch(CollectionProducts, func() (err error) {
		refs.products, err = s.references.Products(ctx)
		return err
	})
	fetch(CollectionPointsOfSale, func() (err error) {
		refs.pointsOfSale, err = s.references.PointsOfSale(ctx)
		return err
	})
	fetch(CollectionUsers, func() (err error) {
		refs.users, err = s.references.Users(ctx)
		return err
	})
	fetch(CollectionInventories, func() (err error) {
		refs.inventories, err = s.references.Inventories(ctx)
		return err
	})
	wg.Wait()

	if errs != nil {
		s.logger.Warn("Referências indisponíveis; usando rótulos de fallback.", map[string]interface{}{
			"collections": refs.failed,
			"errors":      len(multierr.Errors(errs)),
			"error":       errs.Error(),
		})
	}
	sortCollections(refs.failed)
	return refs
}

var collectionOrder = map[string]int{
	CollectionProducts:     0,
	CollectionPointsOfSale: 1,
	CollectionUsers:        2,
	CollectionInventories:  3,
}

func sortCollections(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return collectionOrder[names[i]] < collectionOrder[names[j]]
	})
}

var warningMessages = map[string]string{
	CollectionProducts:     "No se pudieron cargar los productos; se muestran identificadores.",
	CollectionPointsOfSale: "No se pudieron cargar los puntos de venta; se muestran identificadores.",
	CollectionUsers:        "No se pudieron cargar los usuarios; se muestran identificadores.",
	CollectionInventories:  "No se pudieron cargar los inventarios; se muestran identificadores.",
}

func warningsFor(failed []string) []string {
	if len(failed) == 0 {
		return nil
	}
	out := make([]string, 0, len(failed))
	for _, name := range failed {
		out = append(out, warningMessages[name])
	}
	return out
}
