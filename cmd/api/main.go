package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-search/internal/config"
	"catalog-search/internal/logger"
)

var (
	v   = config.NewViper()
	cfg *config.Config
	log = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:           "catalog-search",
		Short:         "Shopify catalog sync and semantic product search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			boot, err := logger.New(v.GetBool("debug"))
			if err != nil {
				return err
			}
			config.LoadEnvFile(boot)
			_ = boot.Sync()

			cfg = config.LoadConfig(v)
			log, err = logger.New(cfg.Debug)
			return err
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = log.Sync()
		},
		RunE: runServe,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("port", "8080", "HTTP port")
	flags.Bool("debug", false, "development logging")
	flags.String("vector-store-driver", "weaviate", `vector store driver, "weaviate" or "memory"`)
	flags.String("collection", "ProductShopify", "vector collection (class) name")

	bind := map[string]string{
		"port":                "port",
		"debug":               "debug",
		"vector_store_driver": "vector-store-driver",
		"weaviate_collection": "collection",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(serveCmd, syncCmd, collectionCmd, webhooksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
