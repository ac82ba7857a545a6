package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation параметры ротации файла логов
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger printf-логгер поверх slog: JSON в stdout и (опционально) в ротируемый файл
type Logger struct {
	slog *slog.Logger
	file io.Closer
}

// New создает логгер. Пустой file означает только stdout
func New(file, level string) (*Logger, error) {
	return NewWithRotation(file, level, Rotation{MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 30})
}

// NewWithRotation создает логгер с явными параметрами ротации
func NewWithRotation(file, level string, rotation Rotation) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	writers := []io.Writer{os.Stdout}
	var closer io.Closer

	if file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAgeDays,
			Compress:   rotation.Compress,
		}
		writers = append(writers, lj)
		closer = lj
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: lvl})

	return &Logger{slog: slog.New(handler), file: closer}, nil
}

// NewWriter создает логгер поверх произвольного writer (для тестов)
func NewWriter(w io.Writer, level string) *Logger {
	lvl, err := parseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return &Logger{slog: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))}
}

// Nop логгер, который ничего не пишет
func Nop() *Logger {
	return NewWriter(io.Discard, "error")
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(slog.LevelDebug, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.log(slog.LevelInfo, format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(slog.LevelWarn, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.log(slog.LevelError, format, v...)
}

// Fatal пишет ошибку и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(slog.LevelError, format, v...)
	_ = l.Close()
	os.Exit(1)
}

// Slog возвращает нижележащий *slog.Logger
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) log(level slog.Level, format string, v ...interface{}) {
	ctx := context.Background()
	if !l.slog.Enabled(ctx, level) {
		return
	}
	l.slog.Log(ctx, level, fmt.Sprintf(format, v...))
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", level)
	}
}
