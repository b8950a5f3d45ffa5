package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger — минимальный интерфейс логирования, используемый во всех слоях приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// Options описывает вывод логгера.
type Options struct {
	Level     string // debug, info, warn, error
	File      string // путь к файлу; пусто: только stdout
	MaxSizeMB int
	MaxAge    int
	Backups   int
}

type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger создаёт JSON-логгер в stdout с уровнем info.
func NewSlogLogger() *SlogLogger {
	return NewSlogLoggerWithOptions(Options{Level: "info"})
}

// NewSlogLoggerWithOptions создаёт логгер; при заданном File пишет одновременно в stdout и в файл с ротацией.
func NewSlogLoggerWithOptions(opts Options) *SlogLogger {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxAge:     opts.MaxAge,
			MaxBackups: opts.Backups,
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(opts.Level)})
	return &SlogLogger{log: slog.New(handler)}
}

// With возвращает логгер с постоянными атрибутами (например, component=cache).
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{log: l.log.With(args...)}
}

func (l *SlogLogger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Infof(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Warnf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Errorf(err error, format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...), slog.Any("error", err))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Nop — логгер, который ничего не пишет. Используется в тестах.
type Nop struct{}

func (Nop) Debugf(string, ...any)        {}
func (Nop) Infof(string, ...any)         {}
func (Nop) Warnf(string, ...any)         {}
func (Nop) Errorf(error, string, ...any) {}
