package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"posconsole/config"
	"posconsole/internal/pkg/apiclient"
	"posconsole/internal/pkg/cache"
	"posconsole/internal/pkg/database"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/metrics"
	"posconsole/internal/pkg/token"
	"posconsole/internal/search"

	// Camadas para Injeção de Dependências
	"posconsole/internal/api/draft"
	"posconsole/internal/api/history"
	"posconsole/internal/api/pointofsale"
	"posconsole/internal/api/router"
	"posconsole/internal/repository/catalogrepo"
	"posconsole/internal/repository/journalrepo"
	"posconsole/internal/repository/referencerepo"
	"posconsole/internal/repository/transactionrepo"
	"posconsole/internal/service/draftservice"
	"posconsole/internal/service/historyservice"
)

func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Inicialização
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuração inválida: %v", err)
	}
	logg := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "posconsole"})
	logg.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	m := metrics.New()
	ctx := context.Background()

	// 2. Conexão com Recursos de Infraestrutura

	// A. Backend REST de inventário
	api, err := apiclient.NewClient(cfg.BackendURL,
		apiclient.WithTimeout(cfg.BackendTimeout),
		apiclient.WithLogger(logg),
		apiclient.WithMetrics(m),
	)
	if err != nil {
		logg.Fatal("Falha ao configurar cliente do backend.", err)
	}

	// B. Cache (Redis), opcional. Sem Redis o rate limit usa memória local
	// e as coleções de referência não são cacheadas.
	var (
		referenceCache cache.Client
		limiterStore   cache.Client = cache.NewMemoryClient()
	)
	if cfg.CacheEnabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logg.Fatal("Falha ao conectar ao Redis.", err)
		}
		defer redisClient.Close()
		referenceCache, limiterStore = redisClient, redisClient
		logg.Info("Conexão Redis estabelecida.", nil)
	}

	// C. Banco de Dados (PostgreSQL), opcional: diário de submissões.
	var journal draftservice.Journal
	if cfg.JournalEnabled() {
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, logg)
		if err != nil {
			logg.Fatal("Falha ao conectar ao banco de dados.", err)
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)
		journal = journalrepo.NewJournalRepository(db, cfg.DBTimeout, logg)
		logg.Info("Diário de submissões ativo.", nil)
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	catalogRepo := catalogrepo.NewCatalogRepository(api, logg)
	transactionRepo := transactionrepo.NewTransactionRepository(api, logg)
	referenceRepo := referencerepo.NewReferenceRepository(api, referenceCache, cfg.CacheTTL, logg)
	logg.Debug("Repositórios inicializados.", nil)

	draftSvc := draftservice.NewService(catalogRepo, transactionRepo, logg, draftservice.Options{
		Search: search.Options{
			Debounce:   cfg.SearchDebounce,
			MinChars:   cfg.SearchMinChars,
			MaxResults: cfg.SearchMaxResults,
			Metrics:    m,
		},
		Journal:     journal,
		Invalidator: referenceRepo,
		Metrics:     m,
	})
	historySvc := historyservice.NewService(transactionRepo, referenceRepo, logg, m)
	logg.Debug("Serviços inicializados.", nil)

	tokenSvc := token.NewService(cfg.JWTSecretKey, 0)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Dependencies{
		Drafts:       draft.NewHandler(draftSvc, logg),
		History:      history.NewHandler(historySvc, logg),
		PointsOfSale: pointofsale.NewHandler(draftSvc, logg),
		TokenService: tokenSvc,
		RateLimiter:  limiterStore,
		RateLimit:    cfg.RateLimitMaxRequests,
		RatePeriod:   cfg.RateLimitPeriod,
		Metrics:      m,
		Logger:       logg,
	})

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Rascunhos abandonados são descartados periodicamente.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepDrafts(sweepCtx, draftSvc, cfg.DraftIdleTTL)

	// 5. Execução e Graceful Shutdown
	go func() {
		logg.Info("Servidor posconsole ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logg.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("Desligamento do servidor forçado.", err)
	}

	logg.Info("Servidor encerrado com sucesso.", nil)
}

func sweepDrafts(ctx context.Context, svc *draftservice.Service, maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.Sweep(maxIdle)
		}
	}
}
