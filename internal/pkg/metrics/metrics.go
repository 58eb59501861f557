// Package metrics concentra as métricas Prometheus do console.
// Todos os métodos aceitam receptor nil, então componentes podem rodar sem métricas.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "posconsole"

// Metrics agrupa os coletores registrados.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	upstreamRequests  *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	submissions       *prometheus.CounterVec
	searches          *prometheus.CounterVec
	referenceFailures *prometheus.CounterVec
}

// New cria um registry próprio com os coletores do processo e do runtime Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registra os coletores no registerer informado.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requisições HTTP atendidas pelo console.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duração das requisições HTTP atendidas.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Chamadas ao backend REST de inventário.",
		}, []string{"method", "path", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duração das chamadas ao backend REST.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submissões de transações em lote por tipo e resultado.",
		}, []string{"transaction_type", "result"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Buscas de candidatos por origem e resultado (ok, error, stale).",
		}, []string{"source", "outcome"}),
		referenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_fetch_failures_total",
			Help:      "Falhas ao carregar coleções de referência para o enriquecimento.",
		}, []string{"collection"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.httpRequests, m.httpDuration,
			m.upstreamRequests, m.upstreamDuration,
			m.submissions, m.searches, m.referenceFailures,
		)
	}
	return m
}

// Handler expõe as métricas no formato de exposição do Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP registra uma requisição atendida pelo console.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	route = normalizeLabel(route)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveUpstream registra uma chamada ao backend. status 0 indica falha de transporte.
func (m *Metrics) ObserveUpstream(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	path = normalizeLabel(path)
	m.upstreamRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// IncSubmission conta uma submissão finalizada ("succeeded", "failed" ou "rejected").
func (m *Metrics) IncSubmission(transactionType, result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(transactionType), result).Inc()
}

// IncSearch conta uma busca de candidatos.
func (m *Metrics) IncSearch(source, outcome string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(normalizeLabel(source), outcome).Inc()
}

// IncReferenceFailure conta uma coleção de referência que não pôde ser carregada.
func (m *Metrics) IncReferenceFailure(collection string) {
	if m == nil {
		return
	}
	m.referenceFailures.WithLabelValues(normalizeLabel(collection)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
