package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var webhooksCmd = &cobra.Command{
	Use:   "webhooks",
	Short: "Manage the Shopify product webhooks",
}

var webhooksSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Register products/create, update and delete webhooks on NGROK_URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		base, err := cfg.WebhookBaseURL()
		if err != nil {
			return err
		}
		client, err := newShopifyClient()
		if err != nil {
			return err
		}

		created, err := client.SetupProductWebhooks(cmd.Context(), base)
		for _, w := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s -> %s (id %d)\n", w.Topic, w.Address, w.ID)
		}
		if err != nil {
			return err
		}
		if len(created) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "All product webhooks are already registered")
		}
		return nil
	},
}

var webhooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the webhooks registered on the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newShopifyClient()
		if err != nil {
			return err
		}
		webhooks, err := client.ListWebhooks(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTOPIC\tADDRESS")
		for _, hook := range webhooks {
			fmt.Fprintf(w, "%d\t%s\t%s\n", hook.ID, hook.Topic, hook.Address)
		}
		return w.Flush()
	},
}

var webhooksCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every webhook registered on the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newShopifyClient()
		if err != nil {
			return err
		}
		deleted, err := client.DeleteAllWebhooks(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d webhooks\n", deleted)
		return err
	},
}

func init() {
	webhooksCmd.AddCommand(webhooksSetupCmd, webhooksListCmd, webhooksCleanupCmd)
}
