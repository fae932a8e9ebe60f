package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
)

type Config struct {
	App       AppConfig
	Generator GeneratorConfig
	Metrics   MetricsConfig
	Enrich    EnrichConfig
}

// Load reads the SHOPGEN_* environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPGEN_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SHOPGEN_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOPGEN_LOG_FORMAT" validate:"omitempty,oneof=json console"`
	LogWarnStack bool   `envconfig:"SHOPGEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// ResolvedLogFormat returns LogFormat when set; otherwise dev runs get the
// console writer and every other environment gets JSON.
func (a AppConfig) ResolvedLogFormat() string {
	if a.LogFormat != "" {
		return a.LogFormat
	}
	if a.IsDev() {
		return LogFormatConsole
	}
	return LogFormatJSON
}

// GeneratorConfig holds every tunable of the nested customer generator.
type GeneratorConfig struct {
	CatalogPath  string `envconfig:"SHOPGEN_CATALOG_PATH" default:"FR.jsonl" validate:"required"`
	OutputPath   string `envconfig:"SHOPGEN_OUTPUT_PATH" default:"nested_customersFR.json" validate:"required"`
	KeyPath      string `envconfig:"SHOPGEN_KEY_PATH" default:"fernet.key" validate:"required"`
	NumCustomers int    `envconfig:"SHOPGEN_NUM_CUSTOMERS" default:"10000" validate:"min=1"`
	ProductCap   int    `envconfig:"SHOPGEN_PRODUCT_CAP" default:"5000" validate:"min=0"`
	MinBaskets   int    `envconfig:"SHOPGEN_MIN_BASKETS" default:"1" validate:"min=1"`
	MaxBaskets   int    `envconfig:"SHOPGEN_MAX_BASKETS" default:"50" validate:"gtefield=MinBaskets"`
	MinProducts  int    `envconfig:"SHOPGEN_MIN_PRODUCTS" default:"1" validate:"min=1"`
	MaxProducts  int    `envconfig:"SHOPGEN_MAX_PRODUCTS" default:"10" validate:"gtefield=MinProducts"`
	Seed         int64  `envconfig:"SHOPGEN_SEED" default:"42"`
	Country      string `envconfig:"SHOPGEN_COUNTRY" default:"FR" validate:"required,len=2"`
}

// BasketRange returns the inclusive basket-count range.
func (g GeneratorConfig) BasketRange() (int, int) {
	return g.MinBaskets, g.MaxBaskets
}

// ProductRange returns the inclusive per-basket product-count range.
func (g GeneratorConfig) ProductRange() (int, int) {
	return g.MinProducts, g.MaxProducts
}

type MetricsConfig struct {
	Path string `envconfig:"SHOPGEN_METRICS_PATH"`
}

// Enabled reports whether a metrics snapshot should be written.
func (m MetricsConfig) Enabled() bool {
	return strings.TrimSpace(m.Path) != ""
}

type EnrichConfig struct {
	InputPath  string `envconfig:"SHOPGEN_ENRICH_INPUT_PATH" default:"listings_f.json" validate:"required"`
	OutputPath string `envconfig:"SHOPGEN_ENRICH_OUTPUT_PATH" default:"listings_updatedf.json" validate:"required"`
	Seed       int64  `envconfig:"SHOPGEN_ENRICH_SEED" default:"0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := f.Tag.Get("envconfig")
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Validate checks ranges and required values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid configuration").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid configuration")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
