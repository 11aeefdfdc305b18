package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/listings-service/internal/app"
	"github.com/user/listings-service/internal/entity"
)

var carsCmd = &cobra.Command{
	Use:   "cars",
	Short: "Manage the curated car list",
}

var carsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the active cars",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			cars, err := a.Cars.ActiveCars(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cars)
		})
	},
}

var carsUpsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Create a car or update the given fields of an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		car, err := carFromFlags(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app.App) error {
			saved, err := a.Cars.Upsert(cmd.Context(), car)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		})
	},
}

var carsDeactivateCmd = &cobra.Command{
	Use:   "deactivate ORDERNO",
	Short: "Hide a car from the active list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			found, err := a.Cars.Deactivate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no car with order number %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deactivated %s\n", args[0])
			return nil
		})
	},
}

func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// carFromFlags builds an update from the flags that were set; unset flags
// stay zero so the stored values survive the merge.
func carFromFlags(cmd *cobra.Command) (entity.Car, error) {
	var car entity.Car
	f := cmd.Flags()
	var err error
	if car.OrderNo, err = f.GetString("order-no"); err != nil {
		return car, err
	}
	car.Title, _ = f.GetString("title")
	car.Make, _ = f.GetString("make")
	car.Model, _ = f.GetString("model")
	car.Year, _ = f.GetInt("year")
	car.Mileage, _ = f.GetInt("mileage")
	car.Price, _ = f.GetString("price")
	car.Image, _ = f.GetString("image")
	car.Link, _ = f.GetString("link")
	return car, nil
}

func init() {
	f := carsUpsertCmd.Flags()
	f.String("order-no", "", "unique order number")
	f.String("title", "", "display title")
	f.String("make", "", "manufacturer")
	f.String("model", "", "model name")
	f.Int("year", 0, "model year")
	f.Int("mileage", 0, "mileage in km")
	f.String("price", "", "formatted price")
	f.String("image", "", "image URL")
	f.String("link", "", "listing URL")
	_ = carsUpsertCmd.MarkFlagRequired("order-no")

	carsCmd.AddCommand(carsListCmd, carsUpsertCmd, carsDeactivateCmd)
	rootCmd.AddCommand(carsCmd)
}
