package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/listings-service/internal/app"
	"github.com/user/listings-service/internal/delivery/http/response"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and extract listings for an organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		org, _ := cmd.Flags().GetString("org")
		refresh, _ := cmd.Flags().GetBool("refresh")

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*cfg.FetchTimeout())
		defer cancel()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		if refresh {
			if err := a.Listings.Invalidate(ctx, org); err != nil {
				return fmt.Errorf("invalidate cache: %w", err)
			}
		}
		res, err := a.Listings.Listings(ctx, org)
		if err != nil {
			return err
		}
		if err := printJSON(cmd.OutOrStdout(), response.NewListingsResponse(res)); err != nil {
			return err
		}
		if !res.Snapshot.Result.OK {
			return errors.New("no listings extracted")
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("org", "", "organization id (default: DEFAULT_ORG_ID)")
	fetchCmd.Flags().Bool("refresh", false, "ignore the cached snapshot")
	rootCmd.AddCommand(fetchCmd)
}
