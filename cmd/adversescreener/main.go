package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"AdverseScreener/internal/app"
	"AdverseScreener/internal/config"
	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/logging"
)

func main() {
	var (
		url  = flag.String("url", "", "screen a single article and exit instead of serving HTTP")
		name = flag.String("name", "", "full name of the person to screen (with -url)")
		dob  = flag.String("dob", "", "date of birth YYYY-MM-DD (optional, with -url)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.NewWithFormat(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}

	code := 0
	if strings.TrimSpace(*url) != "" {
		code = screenOnce(ctx, application, logger, *url, domain.QueryPerson{Name: *name, DateOfBirth: *dob})
	} else if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		code = 1
	}

	application.Close()
	os.Exit(code)
}

func screenOnce(ctx context.Context, application *app.Application, logger *slog.Logger, url string, query domain.QueryPerson) int {
	id, result, err := application.Screen(ctx, url, query)
	if err != nil {
		logger.Error("screening failed", "url", url, "error", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		ID     string                 `json:"id"`
		Result domain.ScreeningResult `json:"result"`
	}{ID: id, Result: result}); err != nil {
		logger.Error("write result", "error", err)
		return 1
	}
	return 0
}
