package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/logger"
	"leadgen.ai/leadgen-api/config/environment_variables"
)

type DataInitializer struct {
	ProjectService *project.ProjectService
	SearchRegistry *provider.SearchRegistry
}

func (d *DataInitializer) Install(ctx context.Context) error {
	if err := d.checkProviders(); err != nil {
		return err
	}
	if err := d.ProjectService.RefreshAllStats(ctx); err != nil {
		return fmt.Errorf("failed to refresh project stats: %w", err)
	}
	return nil
}

// checkProviders fails fast when a configured default search provider is
// not registered and logs which credentials are present.
func (d *DataInitializer) checkProviders() error {
	env := environment_variables.EnvironmentVariables
	for _, name := range []string{env.DISCOVERY_SEARCH_PROVIDER, env.ENRICHMENT_SEARCH_PROVIDER} {
		if _, err := d.SearchRegistry.Get(name); err != nil {
			return fmt.Errorf("invalid search provider configuration: %w", err)
		}
	}
	keys := map[string]string{
		"OPENAI_API_KEY":      env.OPENAI_API_KEY,
		"TAVILY_API_KEY":      env.TAVILY_API_KEY,
		"SERP_API_KEY":        env.SERP_API_KEY,
		"JINA_API_KEY":        env.JINA_API_KEY,
		"GOOGLE_MAPS_API_KEY": env.GOOGLE_MAPS_API_KEY,
	}
	configured := []string{}
	for name, value := range keys {
		if value != "" {
			configured = append(configured, name)
		}
	}
	sort.Strings(configured)
	logger.GetLogger().WithFields(logrus.Fields{
		"search_providers":    d.SearchRegistry.Names(),
		"discovery_provider":  env.DISCOVERY_SEARCH_PROVIDER,
		"enrichment_provider": env.ENRICHMENT_SEARCH_PROVIDER,
		"configured_keys":     configured,
		"language_model":      env.OPENAI_MODEL,
	}).Info("providers configured")
	return nil
}
