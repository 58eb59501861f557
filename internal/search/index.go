// Package search implementa a busca de candidatos com debounce usada na
// composição de transações.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"posconsole/internal/domain"
	apperror "posconsole/internal/errors"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/metrics"
)

// Valores padrão da busca.
const (
	DefaultDebounce   = 500 * time.Millisecond
	DefaultMinChars   = 2
	DefaultMaxResults = 20
)

// Fetcher é a fonte de candidatos (implementada por catalogrepo).
type Fetcher interface {
	SearchProducts(ctx context.Context, query string) ([]domain.CandidateItem, error)
	SearchInventory(ctx context.Context, pointOfSaleID int64, query string) ([]domain.CandidateItem, error)
}

// Timer é o subconjunto de *time.Timer usado pelo debounce.
type Timer interface {
	Stop() bool
}

// Clock agenda funções; substituível em testes.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Scope define de onde vêm os candidatos: restock busca no catálogo global,
// os demais tipos buscam no inventário do ponto de venda.
type Scope struct {
	TransactionType domain.TransactionType
	PointOfSaleID   int64
}

// Options configura o Index. Campos zerados assumem os padrões.
type Options struct {
	Debounce   time.Duration
	MinChars   int
	MaxResults int
	Clock      Clock
	Metrics    *metrics.Metrics
}

// Index mantém o estado de busca de um rascunho: consulta atual, timer pendente
// e últimos resultados. Cada requisição recebe um número de sequência; respostas
// que não correspondem à última requisição emitida são descartadas.
type Index struct {
	fetcher Fetcher
	log     logger.Logger
	opts    Options

	mu      sync.Mutex
	scope   Scope
	query   string
	timer   Timer
	seq     uint64
	results []domain.CandidateItem
}

// NewIndex cria um índice de busca.
func NewIndex(fetcher Fetcher, log logger.Logger, opts Options) *Index {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinChars <= 0 {
		opts.MinChars = DefaultMinChars
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	return &Index{fetcher: fetcher, log: log, opts: opts}
}

// Search executa a busca imediatamente, sem debounce nem estado.
// Consultas com menos caracteres que o mínimo devolvem lista vazia sem I/O.
func (i *Index) Search(ctx context.Context, scope Scope, query string) ([]domain.CandidateItem, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < i.opts.MinChars {
		return []domain.CandidateItem{}, nil
	}

	var (
		items  []domain.CandidateItem
		err    error
		source string
	)
	switch {
	case scope.TransactionType == domain.TransactionRestock:
		source = "product"
		items, err = i.fetcher.SearchProducts(ctx, q)
	case scope.PointOfSaleID == 0:
		return nil, apperror.NewValidationError("Selecione o ponto de venda antes de buscar inventário.")
	default:
		source = "inventory"
		items, err = i.fetcher.SearchInventory(ctx, scope.PointOfSaleID, q)
	}
	if err != nil {
		i.opts.Metrics.IncSearch(source, "error")
		return nil, err
	}
	i.opts.Metrics.IncSearch(source, "ok")

	if len(items) > i.opts.MaxResults {
		items = items[:i.opts.MaxResults]
	}
	return items, nil
}

// SetScope troca o escopo e invalida consulta, timer, resultados e respostas em voo.
func (i *Index) SetScope(scope Scope) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stopTimerLocked()
	i.seq++
	i.scope = scope
	i.query = ""
	i.results = nil
}

// Type registra uma digitação: reinicia o único timer pendente. Quando o timer
// dispara, a busca roda com a consulta mais recente. ctx fornece os valores da
// requisição (ex: token) mas não seu cancelamento.
func (i *Index) Type(ctx context.Context, query string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stopTimerLocked()
	i.query = query

	if len([]rune(strings.TrimSpace(query))) < i.opts.MinChars {
		i.seq++
		i.results = nil
		return
	}

	detached := context.WithoutCancel(ctx)
	i.timer = i.opts.Clock.AfterFunc(i.opts.Debounce, func() {
		i.fire(detached, query)
	})
}

// Select cancela o timer pendente e devolve o candidato dos resultados atuais.
// Consulta e resultados são limpos; respostas em voo passam a ser descartadas.
func (i *Index) Select(id int64) (domain.CandidateItem, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stopTimerLocked()
	i.seq++

	for _, c := range i.results {
		if c.ID == id {
			i.query = ""
			i.results = nil
			return c, true
		}
	}
	return domain.CandidateItem{}, false
}

// Reset cancela o timer pendente e limpa consulta e resultados sem trocar o
// escopo. Usado quando o item é incluído sem passar pelos resultados da busca.
func (i *Index) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stopTimerLocked()
	i.seq++
	i.query = ""
	i.results = nil
}

// Results devolve uma cópia dos últimos resultados válidos.
func (i *Index) Results() []domain.CandidateItem {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]domain.CandidateItem, len(i.results))
	copy(out, i.results)
	return out
}

// Query devolve a consulta atual.
func (i *Index) Query() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.query
}

// Close cancela o timer pendente.
func (i *Index) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopTimerLocked()
	i.seq++
}

func (i *Index) fire(ctx context.Context, query string) {
	i.mu.Lock()
	if query != i.query {
		// Timer vencido depois de um Stop que perdeu a corrida.
		i.mu.Unlock()
		return
	}
	i.timer = nil
	i.seq++
	seq := i.seq
	scope := i.scope
	i.mu.Unlock()

	items, err := i.Search(ctx, scope, query)

	i.mu.Lock()
	defer i.mu.Unlock()

	if seq != i.seq {
		i.log.Debug("Resposta de busca descartada por estar desatualizada", map[string]interface{}{
			"query": query,
			"seq":   seq,
		})
		i.opts.Metrics.IncSearch(sourceOf(scope), "stale")
		return
	}

	if err != nil {
		i.log.Error("Falha na busca de candidatos", err)
		i.results = nil
		return
	}
	i.results = items
}

func (i *Index) stopTimerLocked() {
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
}

func sourceOf(scope Scope) string {
	if scope.TransactionType == domain.TransactionRestock {
		return "product"
	}
	return "inventory"
}
