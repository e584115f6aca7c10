package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"catalog-search/internal/database"
	"catalog-search/internal/generative"
	"catalog-search/internal/ledger"
	"catalog-search/internal/repository"
	"catalog-search/internal/shopify"
	"catalog-search/internal/vectorstore"
	"catalog-search/internal/vectorstore/memory"
)

const (
	driverWeaviate = "weaviate"
	driverMemory   = "memory"
)

// newProductStore elige la implementación del vector store según VECTOR_STORE_DRIVER
func newProductStore() (vectorstore.Provider, error) {
	switch cfg.VectorStoreDriver {
	case driverWeaviate:
		client := vectorstore.NewClient(vectorstore.Config{
			URL:          cfg.WeaviateURL,
			APIKey:       cfg.WeaviateAPIKey,
			OpenAIAPIKey: cfg.OpenAIAPIKey,
			Timeout:      cfg.VectorStoreTimeout,
		}, log.Named("weaviate"))
		return vectorstore.NewStore(client, vectorstore.ProductSchema(cfg.Collection)), nil
	case driverMemory:
		log.Warn("using in-memory vector store, data is lost on exit")
		return memory.NewStore(cfg.Collection), nil
	}
	return nil, fmt.Errorf("unknown vector store driver %q", cfg.VectorStoreDriver)
}

func newRepository(store vectorstore.Provider) *repository.ProductRepository {
	opts := []repository.Option{repository.WithTimeout(cfg.VectorStoreTimeout)}
	if cfg.OpenAIAPIKey != "" {
		opts = append(opts, repository.WithAnswerer(generative.NewOpenAIAnswerer(generative.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		}, log.Named("openai"))))
	}
	return repository.NewProductRepository(store, log.Named("repository"), opts...)
}

// newLedger conecta el ledger de Mongo; sin MONGO_URI devuelve uno que descarta
func newLedger(ctx context.Context) (ledger.Recorder, func(), error) {
	if cfg.MongoURI == "" {
		log.Debug("MONGO_URI not set, ledger disabled")
		return ledger.Nop{}, func() {}, nil
	}

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to MongoDB", zap.String("database", cfg.MongoDB))

	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect failed", zap.Error(err))
		}
	}
	return ledger.NewMongoRecorder(client.Database(cfg.MongoDB)), closeFn, nil
}

func newShopifyClient() (*shopify.Client, error) {
	if err := cfg.RequireShopify(); err != nil {
		return nil, err
	}
	return shopify.NewClient(shopify.Config{
		Store:       cfg.ShopifyStore,
		AccessToken: cfg.ShopifyAccessKey,
		APIVersion:  cfg.ShopifyAPIVersion,
	}, log.Named("shopify")), nil
}
