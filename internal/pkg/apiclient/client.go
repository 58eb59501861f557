// Package apiclient é o cliente JSON do backend REST de inventário.
// O token bearer do operador é propagado pelo contexto.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperror "posconsole/internal/errors"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/metrics"
)

const (
	defaultTimeout             = 15 * time.Second
	responseBodyReadLimit int64 = 4096
)

var errBaseURLRequired = errors.New("apiclient: base URL é obrigatória")

// ErrUndecodableResponse marca um 2xx cujo corpo não pôde ser decodificado.
// O backend já aceitou a operação; cabe ao chamador decidir se isso é falha.
var ErrUndecodableResponse = errors.New("corpo de resposta 2xx não decodificável")

type tokenKey struct{}

// ContextWithToken anexa o token bearer que será enviado ao backend.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext devolve o token bearer anexado ao contexto.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

type scopeKey struct{}

// ContextWithScope anexa o escopo de visibilidade do chamador (o papel do
// operador). Respostas do backend só são compartilhadas dentro do mesmo escopo.
func ContextWithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext devolve o escopo anexado ao contexto.
func ScopeFromContext(ctx context.Context) (string, bool) {
	scope, ok := ctx.Value(scopeKey{}).(string)
	return scope, ok && scope != ""
}

// Client executa chamadas JSON contra o backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        logger.Logger
	metrics    *metrics.Metrics
}

// Option configura comportamento opcional do cliente.
type Option func(*Client)

// WithHTTPClient substitui o http.Client padrão.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout define o timeout por requisição do http.Client padrão.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger define o logger das chamadas.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics registra duração e status de cada chamada.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient cria o cliente para a URL base do backend.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Get executa um GET e decodifica a resposta em out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out, nil)
}

// Post executa um POST com corpo JSON e decodifica a resposta em out (que pode ser nil).
func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}, header http.Header) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out, header)
}

// Do executa a chamada. Respostas 401 viram UnauthorizedError; qualquer outro
// status fora de 2xx vira UpstreamError com status e corpo.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}, header http.Header) error {
	endpoint := c.buildURL(path, query)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperror.NewInternalError("Falha ao serializar requisição ao backend", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperror.NewInternalError("Falha ao montar requisição ao backend", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(method, routeLabel(path), 0, time.Since(start))
		c.log.Error(fmt.Sprintf("Falha de transporte em %s %s", method, path), err)
		return apperror.NewInternalError(fmt.Sprintf("Backend indisponível (%s %s)", method, path), err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.ObserveUpstream(method, routeLabel(path), resp.StatusCode, time.Since(start))

	c.log.Debug("Resposta do backend", map[string]interface{}{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		text := strings.TrimSpace(string(msg))
		if resp.StatusCode == http.StatusUnauthorized {
			return apperror.NewUnauthorizedError(fmt.Sprintf("backend recusou as credenciais: %s", text))
		}
		return apperror.NewUpstreamError(resp.StatusCode, text, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperror.NewInternalError(fmt.Sprintf("Resposta inválida do backend (%s %s)", method, path),
			fmt.Errorf("%w: %v", ErrUndecodableResponse, err))
	}
	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// routeLabel troca segmentos numéricos por ":id" para limitar a cardinalidade das métricas.
func routeLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}
