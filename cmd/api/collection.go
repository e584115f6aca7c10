package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage the vector collection",
}

var collectionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the product collection if it does not exist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := newProductStore()
		if err != nil {
			return err
		}
		if _, err := store.Collection(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Collection %s is ready\n", store.Name())
		return nil
	},
}

func init() {
	collectionCmd.AddCommand(collectionInitCmd)
}
