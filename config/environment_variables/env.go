package environment_variables

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"leadgen.ai/leadgen-api/app/utils/logger"
	"leadgen.ai/leadgen-api/config"
)

type EnvironmentVariable struct {
	// Database
	POSTGRESQL_HOST             string
	POSTGRESQL_PORT             int
	POSTGRESQL_USER             string
	POSTGRESQL_PASSWORD         string
	POSTGRESQL_DATABASE         string
	POSTGRESQL_INITIAL_DATABASE string
	DB_POSTGRESQL_READ1_DSN     string

	// Providers
	OPENAI_API_KEY      string
	OPENAI_MODEL        string
	OPENAI_BASE_URL     string
	TAVILY_API_KEY      string
	SERP_API_KEY        string
	JINA_API_KEY        string
	GOOGLE_MAPS_API_KEY string

	// Pipeline
	DISCOVERY_SEARCH_PROVIDER    string
	ENRICHMENT_SEARCH_PROVIDER   string
	ENRICHMENT_CONCURRENCY       int
	PROVIDER_MAX_ATTEMPTS        int
	PROVIDER_TIMEOUT_SECONDS     int
	PROVIDER_REQUESTS_PER_SECOND int
	SEARCH_LOCATION              string
	SEARCH_COUNTRY               string
	PROMPTS_FILE                 string

	// Redis response cache, optional
	REDIS_URL         string
	REDIS_PASSWORD    string
	REDIS_DB          int
	CACHE_TTL_MINUTES int

	// Server
	ALLOWED_CORS_HOSTS []string
	HTTP_PORT          int
	LOG_LEVEL          string
}

// optional keys are not reported as missing on load
var optionalKeys = map[string]bool{
	"DB_POSTGRESQL_READ1_DSN": true,
	"OPENAI_BASE_URL":         true,
	"PROMPTS_FILE":            true,
	"REDIS_URL":               true,
	"REDIS_PASSWORD":          true,
	"REDIS_DB":                true,
}

func (ev *EnvironmentVariable) LoadFromEnv() {
	v := reflect.ValueOf(ev).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envKey := field.Name
		envValue := os.Getenv(envKey)
		if envValue == "" && !optionalKeys[envKey] {
			logger.GetLogger().Warnf("Missing SYSENV: %s", envKey)
		}
		if envValue != "" {
			switch v.Field(i).Kind() {
			case reflect.String:
				v.Field(i).SetString(envValue)
			case reflect.Int:
				intV, err := strconv.Atoi(envValue)
				if err != nil {
					logger.GetLogger().Errorf("Invalid int value for %s: %s", envKey, envValue)
				} else {
					v.Field(i).SetInt(int64(intV))
				}
			case reflect.Bool:
				boolVal, err := strconv.ParseBool(envValue)
				if err != nil {
					logger.GetLogger().Errorf("Invalid boolean value for %s: %s", envKey, envValue)
				} else {
					v.Field(i).SetBool(boolVal)
				}
			case reflect.Slice:
				if v.Field(i).Type().Elem().Kind() == reflect.String {
					entries := strings.Split(envValue, ",")
					v.Field(i).Set(reflect.ValueOf(entries))
				} else {
					logger.GetLogger().Errorf("Unsupported slice type for %s", field.Name)
				}
			default:
				logger.GetLogger().Errorf("Unsupported field type: %s", field.Name)
			}
		}
	}
	ev.applyDefaults()
	config.EnvReloadedAt = time.Now()
}

func (ev *EnvironmentVariable) applyDefaults() {
	if ev.POSTGRESQL_HOST == "" {
		ev.POSTGRESQL_HOST = "localhost"
	}
	if ev.POSTGRESQL_PORT == 0 {
		ev.POSTGRESQL_PORT = 5432
	}
	if ev.POSTGRESQL_DATABASE == "" {
		ev.POSTGRESQL_DATABASE = "leadgen"
	}
	if ev.POSTGRESQL_INITIAL_DATABASE == "" {
		ev.POSTGRESQL_INITIAL_DATABASE = "postgres"
	}
	if ev.OPENAI_MODEL == "" {
		ev.OPENAI_MODEL = "gpt-4o-2024-08-06"
	}
	if ev.DISCOVERY_SEARCH_PROVIDER == "" {
		ev.DISCOVERY_SEARCH_PROVIDER = "serpapi"
	}
	if ev.ENRICHMENT_SEARCH_PROVIDER == "" {
		ev.ENRICHMENT_SEARCH_PROVIDER = "jina"
	}
	if ev.ENRICHMENT_CONCURRENCY <= 0 {
		ev.ENRICHMENT_CONCURRENCY = 4
	}
	if ev.PROVIDER_MAX_ATTEMPTS <= 0 {
		ev.PROVIDER_MAX_ATTEMPTS = 3
	}
	if ev.PROVIDER_TIMEOUT_SECONDS <= 0 {
		ev.PROVIDER_TIMEOUT_SECONDS = 60
	}
	if ev.PROVIDER_REQUESTS_PER_SECOND <= 0 {
		ev.PROVIDER_REQUESTS_PER_SECOND = 5
	}
	if ev.SEARCH_LOCATION == "" {
		ev.SEARCH_LOCATION = "Sydney, New South Wales, Australia"
	}
	if ev.SEARCH_COUNTRY == "" {
		ev.SEARCH_COUNTRY = "au"
	}
	if ev.CACHE_TTL_MINUTES <= 0 {
		ev.CACHE_TTL_MINUTES = 24 * 60
	}
	if ev.HTTP_PORT == 0 {
		ev.HTTP_PORT = 8080
	}
	if ev.LOG_LEVEL == "" {
		ev.LOG_LEVEL = "info"
	}
}

// PostgresDSN builds a connection string for the named database.
func (ev *EnvironmentVariable) PostgresDSN(database string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(ev.POSTGRESQL_USER, ev.POSTGRESQL_PASSWORD),
		Host:     fmt.Sprintf("%s:%d", ev.POSTGRESQL_HOST, ev.POSTGRESQL_PORT),
		Path:     "/" + database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (ev *EnvironmentVariable) ProviderTimeout() time.Duration {
	return time.Duration(ev.PROVIDER_TIMEOUT_SECONDS) * time.Second
}

func (ev *EnvironmentVariable) CacheTTL() time.Duration {
	return time.Duration(ev.CACHE_TTL_MINUTES) * time.Minute
}

// Singleton
var EnvironmentVariables = EnvironmentVariable{}
