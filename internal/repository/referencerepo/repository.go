package referencerepo

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"posconsole/internal/domain"
	"posconsole/internal/pkg/apiclient"
	"posconsole/internal/pkg/cache"
	"posconsole/internal/pkg/logger"
)

// Requester é o subconjunto do apiclient usado pelo repositório.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
}

// Chaves base das coleções de referência. A chave efetiva leva o escopo do
// chamador, ex: "ref:users:admin".
const (
	productsKey     = "ref:products"
	pointsOfSaleKey = "ref:points-of-sale"
	usersKey        = "ref:users"
	inventoriesKey  = "ref:inventories"
)

// anonymousScope é usado quando o contexto não traz papel (ex: txctl).
const anonymousScope = "anon"

var (
	collectionKeys = []string{productsKey, pointsOfSaleKey, usersKey, inventoriesKey}
	knownScopes    = []string{string(domain.RoleAdmin), string(domain.RoleSeller), string(domain.RoleViewer), anonymousScope}
)

// ReferenceRepository carrega as coleções de referência do enriquecimento usando
// cache-aside. O backend pode filtrar coleções pelo papel do token, então o cache
// é separado por papel. Cargas concorrentes só são unificadas para o mesmo token.
type ReferenceRepository struct {
	api    Requester
	Cache  cache.Client
	TTL    time.Duration
	logger logger.Logger
	group  singleflight.Group
	scopes sync.Map
}

// NewReferenceRepository cria o repositório. cacheClient pode ser nil.
func NewReferenceRepository(api Requester, cacheClient cache.Client, ttl time.Duration, logger logger.Logger) *ReferenceRepository {
	return &ReferenceRepository{api: api, Cache: cacheClient, TTL: ttl, logger: logger}
}

// Products carrega GET /product.
func (r *ReferenceRepository) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	return out, r.load(ctx, productsKey, "/product", &out)
}

// PointsOfSale carrega GET /point-of-sale.
func (r *ReferenceRepository) PointsOfSale(ctx context.Context) ([]domain.PointOfSale, error) {
	var out []domain.PointOfSale
	return out, r.load(ctx, pointsOfSaleKey, "/point-of-sale", &out)
}

// Users carrega GET /users.
func (r *ReferenceRepository) Users(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	return out, r.load(ctx, usersKey, "/users", &out)
}

// Inventories carrega GET /inventory.
func (r *ReferenceRepository) Inventories(ctx context.Context) ([]domain.Inventory, error) {
	var out []domain.Inventory
	return out, r.load(ctx, inventoriesKey, "/inventory", &out)
}

// Invalidate remove as coleções do cache (ex: após uma submissão que cria inventário).
func (r *ReferenceRepository) Invalidate(ctx context.Context) {
	if r.Cache == nil {
		return
	}
	scopes := append([]string{}, knownScopes...)
	r.scopes.Range(func(k, _ interface{}) bool {
		scopes = append(scopes, k.(string))
		return true
	})
	for _, base := range collectionKeys {
		for _, scope := range scopes {
			key := base + ":" + scope
			if err := r.Cache.Delete(ctx, key); err != nil {
				r.logger.Warn("Falha ao invalidar cache de referência", map[string]interface{}{"key": key, "error": err.Error()})
			}
		}
	}
}

func (r *ReferenceRepository) scopedKey(ctx context.Context, base string) string {
	scope, ok := apiclient.ScopeFromContext(ctx)
	if !ok {
		scope = anonymousScope
	}
	r.scopes.Store(scope, struct{}{})
	return base + ":" + scope
}

// load aplica cache-aside: tenta o cache, senão busca no backend e popula o cache.
func (r *ReferenceRepository) load(ctx context.Context, base, path string, out interface{}) error {
	key := r.scopedKey(ctx, base)
	if r.Cache != nil {
		cached, err := r.Cache.Get(ctx, key)
		if err == nil {
			if json.Unmarshal([]byte(cached), out) == nil {
				return nil
			}
			r.logger.Warn("Entrada de cache corrompida, buscando no backend", map[string]interface{}{"key": key})
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("Falha ao ler do cache", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	flightKey := key
	if tok, ok := apiclient.TokenFromContext(ctx); ok {
		flightKey += "|" + tok
	}
	// Quem chega depois compartilha a carga; o cancelamento do primeiro não vale para ele.
	fetchCtx := context.WithoutCancel(ctx)
	raw, err, _ := r.group.Do(flightKey, func() (interface{}, error) {
		var body json.RawMessage
		if err := r.api.Get(fetchCtx, path, nil, &body); err != nil {
			return nil, err
		}
		if r.Cache != nil && len(body) > 0 {
			if err := r.Cache.Set(fetchCtx, key, []byte(body), r.TTL); err != nil {
				r.logger.Warn("Falha ao gravar no cache", map[string]interface{}{"key": key, "error": err.Error()})
			}
		}
		return body, nil
	})
	if err != nil {
		return err
	}

	body := raw.(json.RawMessage)
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
