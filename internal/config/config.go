package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port  string
	Debug bool

	// Vector store (Weaviate)
	VectorStoreDriver  string
	WeaviateURL        string
	WeaviateAPIKey     string
	Collection         string
	VectorStoreTimeout time.Duration

	// Proveedor de IA
	OpenAIAPIKey string
	OpenAIModel  string

	// Shopify
	ShopifyStore         string
	ShopifyAccessKey     string
	ShopifyAPIVersion    string
	ShopifyWebhookSecret string
	TunnelURL            string
	WebhookPath          string

	// Ledger opcional en MongoDB
	MongoURI string
	MongoDB  string

	SearchCacheTTL time.Duration
}

var defaults = map[string]any{
	"port":                 "8080",
	"debug":                false,
	"vector_store_driver":  "weaviate",
	"weaviate_collection":  "ProductShopify",
	"vector_store_timeout": 10 * time.Second,
	"openai_model":         "gpt-4o-mini",
	"shopify_api_version":  "2025-07",
	"webhook_path":         "/webhook/products",
	"mongo_db":             "catalogSearch",
	"search_cache_ttl":     2 * time.Minute,
}

// LoadEnvFile carga .env solo cuando existe (desarrollo local)
func LoadEnvFile(log *zap.Logger) {
	if _, err := os.Stat(".env"); err != nil {
		log.Debug("using system environment variables")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Warn("error loading .env file", zap.Error(err))
		return
	}
	log.Debug(".env file loaded")
}

// NewViper devuelve una instancia con defaults y variables de entorno enlazadas
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig resuelve la configuración (flags > entorno > defaults)
func LoadConfig(v *viper.Viper) *Config {
	if v == nil {
		v = NewViper()
	}

	return &Config{
		Port:  v.GetString("port"),
		Debug: v.GetBool("debug"),

		VectorStoreDriver:  strings.ToLower(v.GetString("vector_store_driver")),
		WeaviateURL:        v.GetString("weaviate_url"),
		WeaviateAPIKey:     v.GetString("weaviate_api_key"),
		Collection:         v.GetString("weaviate_collection"),
		VectorStoreTimeout: v.GetDuration("vector_store_timeout"),

		OpenAIAPIKey: v.GetString("openai_api_key"),
		OpenAIModel:  v.GetString("openai_model"),

		ShopifyStore:         v.GetString("shopify_store"),
		ShopifyAccessKey:     v.GetString("shopify_access_key"),
		ShopifyAPIVersion:    v.GetString("shopify_api_version"),
		ShopifyWebhookSecret: v.GetString("shopify_webhook_secret"),
		TunnelURL:            strings.TrimRight(v.GetString("ngrok_url"), "/"),
		WebhookPath:          v.GetString("webhook_path"),

		MongoURI: v.GetString("mongo_uri"),
		MongoDB:  v.GetString("mongo_db"),

		SearchCacheTTL: v.GetDuration("search_cache_ttl"),
	}
}

// RequireShopify valida las credenciales necesarias para la API de Shopify
func (c *Config) RequireShopify() error {
	if c.ShopifyStore == "" {
		return errors.New("SHOPIFY_STORE is required")
	}
	if c.ShopifyAccessKey == "" {
		return errors.New("SHOPIFY_ACCESS_KEY is required")
	}
	return nil
}

// WebhookBaseURL arma la URL pública donde Shopify entrega los webhooks
func (c *Config) WebhookBaseURL() (string, error) {
	if c.TunnelURL == "" {
		return "", errors.New("NGROK_URL is required to register webhooks")
	}
	path := c.WebhookPath
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.TunnelURL + strings.TrimRight(path, "/"), nil
}
