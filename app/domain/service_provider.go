package domain

import (
	"github.com/google/wire"
	"leadgen.ai/leadgen-api/app/domain/cron"
	"leadgen.ai/leadgen-api/app/domain/dataset"
	"leadgen.ai/leadgen-api/app/domain/discovery"
	"leadgen.ai/leadgen-api/app/domain/enrichment"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/prompts"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/config/environment_variables"
)

var ServiceProvider = wire.NewSet(
	project.NewService,
	lead.NewService,
	dataset.NewService,
	ProvidePrompts,
	ProvideQueryGenerator,
	ProvideExtractor,
	ProvideDiscoverySettings,
	discovery.NewService,
	ProvideEnrichmentSettings,
	enrichment.NewEnricher,
	ProvideEnrichmentService,
	cron.NewCronService,
)

// ProvidePrompts loads PROMPTS_FILE over the built-in prompts.
func ProvidePrompts() (*prompts.Set, error) {
	return prompts.Load(environment_variables.EnvironmentVariables.PROMPTS_FILE)
}

func ProvideQueryGenerator(llm provider.LanguageModel, set *prompts.Set) *discovery.QueryGenerator {
	return discovery.NewQueryGenerator(llm, set, environment_variables.EnvironmentVariables.SEARCH_LOCATION)
}

func ProvideExtractor(llm provider.LanguageModel, set *prompts.Set) *discovery.Extractor {
	return discovery.NewExtractor(llm, set, discovery.DefaultExtractionWorkers)
}

func ProvideDiscoverySettings() discovery.Settings {
	env := environment_variables.EnvironmentVariables
	return discovery.Settings{
		DefaultProvider: env.DISCOVERY_SEARCH_PROVIDER,
		Location:        env.SEARCH_LOCATION,
		Country:         env.SEARCH_COUNTRY,
		Workers:         discovery.DefaultExtractionWorkers,
	}
}

func ProvideEnrichmentSettings() enrichment.Settings {
	env := environment_variables.EnvironmentVariables
	return enrichment.Settings{
		DefaultProvider: env.ENRICHMENT_SEARCH_PROVIDER,
		Location:        env.SEARCH_LOCATION,
		Country:         env.SEARCH_COUNTRY,
	}
}

func ProvideEnrichmentService(enricher *enrichment.Enricher, leads *lead.LeadService) *enrichment.EnrichmentService {
	return enrichment.NewService(enricher, leads, environment_variables.EnvironmentVariables.ENRICHMENT_CONCURRENCY)
}
