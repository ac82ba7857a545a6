package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-DetailingService/internal/config"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "smc-detailing",
	Short: "SMC-DetailingService: агенда и запись на услуги детейлинга",
	Long: `SMC-DetailingService отдаёт свободные слоты на дату и принимает записи
без двойного бронирования одного слота.`,
	SilenceUsage: true,
}

// Execute запускает CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.toml", "путь к TOML файлу конфигурации")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
}

// loadConfig читает конфигурацию по пути из флага --config
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.NewWithRotation(cfg.Logs.File, cfg.Logs.Level, logger.Rotation{
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		Compress:   cfg.Logs.Compress,
	})
}

// openDB открывает пул соединений и проверяет доступность базы
func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
