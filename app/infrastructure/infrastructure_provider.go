package infrastructure

import (
	"github.com/google/wire"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/infrastructure/cache"
	"leadgen.ai/leadgen-api/app/infrastructure/providers"
	"leadgen.ai/leadgen-api/app/infrastructure/providers/googlemaps"
	"leadgen.ai/leadgen-api/app/infrastructure/providers/jina"
	"leadgen.ai/leadgen-api/app/infrastructure/providers/openaillm"
	"leadgen.ai/leadgen-api/app/infrastructure/providers/serpapi"
	"leadgen.ai/leadgen-api/app/infrastructure/providers/tavily"
	"leadgen.ai/leadgen-api/app/infrastructure/providers/webpage"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
	"leadgen.ai/leadgen-api/config/environment_variables"
	"resty.dev/v3"
)

var InfrastructureProvider = wire.NewSet(
	cache.NewRedisFromEnv,
	cache.NewResponseCache,
	cache.NewJobLocker,
	ProvideLanguageModel,
	ProvidePlaceSearcher,
	ProvideContentFetcher,
	ProvideSearchRegistry,
)

func gate(name string) *provider.Gate {
	env := environment_variables.EnvironmentVariables
	policy := provider.NewRetryPolicy(env.PROVIDER_MAX_ATTEMPTS, env.ProviderTimeout())
	return provider.NewGate(name, policy, env.PROVIDER_REQUESTS_PER_SECOND)
}

func client(name string, baseURL string) *resty.Client {
	c := httpclients.NewClient(name, environment_variables.EnvironmentVariables.ProviderTimeout())
	if baseURL != "" {
		c.SetBaseURL(baseURL)
	}
	return c
}

func ProvideLanguageModel() provider.LanguageModel {
	env := environment_variables.EnvironmentVariables
	baseURL := env.OPENAI_BASE_URL
	if baseURL == "" {
		baseURL = openaillm.DefaultBaseURL
	}
	return openaillm.New(env.OPENAI_API_KEY, env.OPENAI_MODEL, gate("openai"), client("OpenAIClient", baseURL))
}

func ProvidePlaceSearcher() provider.PlaceSearcher {
	env := environment_variables.EnvironmentVariables
	return googlemaps.New(env.GOOGLE_MAPS_API_KEY, env.SEARCH_COUNTRY, gate("googlemaps"), client("GoogleMapsClient", googlemaps.DefaultBaseURL))
}

// ProvideContentFetcher reads pages through Jina Reader and falls back to a
// direct download converted locally.
func ProvideContentFetcher(responseCache provider.ResponseCache) provider.ContentFetcher {
	env := environment_variables.EnvironmentVariables
	reader := jina.NewReader(env.JINA_API_KEY, gate("jina-reader"), client("JinaReaderClient", jina.DefaultReaderBaseURL))
	direct := webpage.New(gate("webpage"), client("WebpageClient", ""))
	var fetcher provider.ContentFetcher = direct
	if env.JINA_API_KEY != "" {
		fetcher = providers.NewFallbackFetcher(reader, direct)
	}
	return provider.NewCachedFetcher(fetcher, responseCache, env.CacheTTL())
}

func ProvideSearchRegistry(responseCache provider.ResponseCache) *provider.SearchRegistry {
	env := environment_variables.EnvironmentVariables
	ttl := env.CacheTTL()
	return provider.NewSearchRegistry(
		provider.NewCachedSearcher(tavily.New(env.TAVILY_API_KEY, gate(tavily.Name), client("TavilyClient", tavily.DefaultBaseURL)), responseCache, ttl),
		provider.NewCachedSearcher(serpapi.New(env.SERP_API_KEY, gate(serpapi.Name), client("SerpAPIClient", serpapi.DefaultBaseURL)), responseCache, ttl),
		provider.NewCachedSearcher(jina.NewSearcher(env.JINA_API_KEY, gate(jina.Name), client("JinaSearchClient", jina.DefaultSearchBaseURL)), responseCache, ttl),
	)
}
