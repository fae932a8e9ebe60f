package config

const (
	EnvPrefix = "SHOPGEN"

	AppEnvDev = "dev"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"

	EnvAppEnv       = "SHOPGEN_APP_ENV"
	EnvLogLevel     = "SHOPGEN_LOG_LEVEL"
	EnvLogFormat    = "SHOPGEN_LOG_FORMAT"
	EnvLogWarnStack = "SHOPGEN_LOG_WARN_STACK"

	EnvCatalogPath  = "SHOPGEN_CATALOG_PATH"
	EnvOutputPath   = "SHOPGEN_OUTPUT_PATH"
	EnvKeyPath      = "SHOPGEN_KEY_PATH"
	EnvNumCustomers = "SHOPGEN_NUM_CUSTOMERS"
	EnvProductCap   = "SHOPGEN_PRODUCT_CAP"
	EnvMinBaskets   = "SHOPGEN_MIN_BASKETS"
	EnvMaxBaskets   = "SHOPGEN_MAX_BASKETS"
	EnvMinProducts  = "SHOPGEN_MIN_PRODUCTS"
	EnvMaxProducts  = "SHOPGEN_MAX_PRODUCTS"
	EnvSeed         = "SHOPGEN_SEED"
	EnvCountry      = "SHOPGEN_COUNTRY"

	EnvMetricsPath = "SHOPGEN_METRICS_PATH"

	EnvEnrichInputPath  = "SHOPGEN_ENRICH_INPUT_PATH"
	EnvEnrichOutputPath = "SHOPGEN_ENRICH_OUTPUT_PATH"
	EnvEnrichSeed       = "SHOPGEN_ENRICH_SEED"
)
