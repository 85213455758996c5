package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rollcall/internal/categorize"
	"rollcall/internal/config"
	"rollcall/internal/identify"
	"rollcall/internal/pipeline"
	"rollcall/internal/queue"
	"rollcall/internal/services/namestd"
	"rollcall/internal/services/weekinfer"
	"rollcall/internal/sources"
)

// buildRunner assembles the pipeline from configuration: alias table, name
// standardizer, week resolver, and the inbox source.
func buildRunner(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*pipeline.Runner, error) {
	aliases, err := loadAliases(cfg)
	if err != nil {
		return nil, fmt.Errorf("load alias table: %w", err)
	}

	standardizer, err := buildStandardizer(cfg)
	if err != nil {
		return nil, err
	}

	var weeks weekinfer.Resolver = weekinfer.Static{}
	if strings.TrimSpace(cfg.WeekInference.BaseURL) != "" {
		weeks = weekinfer.NewClient(weekinfer.Config{
			BaseURL:        cfg.WeekInference.BaseURL,
			TimeoutSeconds: cfg.WeekInference.TimeoutSeconds,
		})
	}

	return pipeline.NewRunner(cfg, pipeline.Deps{
		Source:      sources.NewDriveSource(cfg.Paths.InboxDir, logger),
		Store:       store,
		Resolver:    identify.NewResolver(aliases, standardizer, logger),
		Categorizer: categorize.New(aliases, categorize.WithTrivialFloor(cfg.Identity.TrivialMinMinutes)),
		Weeks:       weeks,
		Logger:      logger,
	})
}

func buildStandardizer(cfg *config.Config) (identify.Standardizer, error) {
	if strings.TrimSpace(cfg.Standardizer.BaseURL) == "" {
		if cfg.Identity.RequireStandardize {
			return nil, errors.New("require_standardizer is set but standardizer.base_url is not configured")
		}
		return namestd.Passthrough{}, nil
	}
	return namestd.NewClient(namestd.Config{
		BaseURL:        cfg.Standardizer.BaseURL,
		APIKey:         cfg.Standardizer.APIKey,
		TimeoutSeconds: cfg.Standardizer.TimeoutSeconds,
	}), nil
}

func loadAliases(cfg *config.Config) (*identify.AliasTable, error) {
	path := strings.TrimSpace(cfg.Identity.AliasFile)
	if path == "" {
		return identify.NewAliasTable(nil, nil, nil), nil
	}
	return identify.LoadAliasTable(path)
}
