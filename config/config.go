package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config armazena todas as configurações do posconsole.
// Os valores vêm do ambiente (opcionalmente de um .env carregado pelo main).
type Config struct {
	// Geral
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`

	// Backend REST de inventário
	BackendURL     string        `envconfig:"BACKEND_URL" required:"true"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`

	// Banco de Dados (PostgreSQL) do diário de submissões; vazio desativa o diário.
	DatabaseURL string        `envconfig:"DATABASE_URL"`
	DBTimeout   time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`

	// Cache (Redis) das coleções de referência; vazio desativa cache e rate limit.
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"60s"`

	// Segurança (JWT compartilhado com o backend)
	JWTSecretKey string `envconfig:"JWT_SECRET_KEY" required:"true"`

	// Busca com debounce
	SearchDebounce   time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"500ms"`
	SearchMinChars   int           `envconfig:"SEARCH_MIN_CHARS" default:"2"`
	SearchMaxResults int           `envconfig:"SEARCH_MAX_RESULTS" default:"20"`

	// Rascunhos sem alteração por mais que isso são descartados.
	DraftIdleTTL time.Duration `envconfig:"DRAFT_IDLE_TTL" default:"2h"`

	// Rate Limiting
	RateLimitMaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"100"`
	RateLimitPeriod      time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"1m"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente e as valida.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("falha ao ler configuração: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabaseConfig é o subconjunto usado pelo cmd/migrate, que não fala com o backend.
type DatabaseConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadDatabaseConfig carrega apenas as chaves do banco de dados.
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("falha ao ler configuração do banco: %w", err)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL deve ser definida")
	}
	return &cfg, nil
}

// Validate rejeita combinações que impediriam o console de funcionar.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL inválida: %q", c.BackendURL)
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY deve ser definida")
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE deve ser positivo")
	}
	if c.SearchMinChars < 1 {
		return fmt.Errorf("SEARCH_MIN_CHARS deve ser ao menos 1")
	}
	if c.SearchMaxResults < 1 {
		return fmt.Errorf("SEARCH_MAX_RESULTS deve ser ao menos 1")
	}
	if c.DraftIdleTTL <= 0 {
		return fmt.Errorf("DRAFT_IDLE_TTL deve ser positivo")
	}
	return nil
}

// Address devolve o endereço de escuta do servidor HTTP.
func (c *Config) Address() string {
	return ":" + c.Port
}

// JournalEnabled informa se o diário de submissões em PostgreSQL está ativo.
func (c *Config) JournalEnabled() bool {
	return c.DatabaseURL != ""
}

// CacheEnabled informa se o Redis está configurado.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
