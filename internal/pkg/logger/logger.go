package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// Options configura o logger.
type Options struct {
	Level   string    // "debug", "info", "warn", "error"
	Format  string    // "json" (padrão) ou "console"
	Service string    // nome do serviço anexado a cada entrada
	Output  io.Writer // padrão: os.Stdout
}

// ZeroLogger é a implementação concreta da interface Logger sobre o zerolog,
// com saída JSON estruturada.
type ZeroLogger struct {
	base zerolog.Logger
}

// NewLogger cria um Logger JSON no stdout com o nível informado.
// Esta função é chamada no main.go.
func NewLogger(level string) Logger {
	return New(Options{Level: level, Service: "posconsole"})
}

// New cria um Logger a partir das opções.
func New(opts Options) Logger {
	var output io.Writer = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if strings.EqualFold(opts.Format, "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	ctx := zerolog.New(output).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return &ZeroLogger{base: ctx.Logger().Level(ParseLevel(opts.Level))}
}

// NewNop devolve um Logger que descarta tudo (útil em testes).
func NewNop() Logger {
	return &ZeroLogger{base: zerolog.Nop()}
}

// ParseLevel converte o nível textual; valores desconhecidos viram info.
func ParseLevel(value string) zerolog.Level {
	levelString := strings.ToLower(strings.TrimSpace(value))
	if levelString == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(levelString); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

// Implementações da Interface Logger

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.base.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.base.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.base.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error) {
	l.base.Error().Err(err).Msg(msg)
}

// Fatal registra e encerra o processo (zerolog chama os.Exit(1)).
func (l *ZeroLogger) Fatal(msg string, err error) {
	l.base.Fatal().Err(err).Msg(msg)
}
