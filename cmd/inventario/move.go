package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func newMoveCmd(g *globalFlags) *cobra.Command {
	var user, notes string
	cmd := &cobra.Command{
		Use:     "move <producto> <entrada|salida> <cantidad>",
		Aliases: []string{"mov"},
		Short:   "Registrar una entrada o salida de stock",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("%w: cantidad %q no es un entero", domain.ErrInvalidInput, args[2])
			}
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			res, err := app.ledger.RegisterMovement(cmd.Context(), args[0], dto.RegisterMovementRequest{
				Type:     args[1],
				Quantity: qty,
				User:     user,
				Notes:    notes,
			}, "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s de %d para %q: stock %d -> %d\n",
				res.Movement.Type, res.Movement.Quantity, res.Product.Name,
				res.Movement.StockBefore, res.Movement.StockAfter)
			printWarning(out, res.Warning)
			if res.Product.MinStock != nil && res.Product.CurrentStock <= *res.Product.MinStock {
				fmt.Fprintf(out, "Alerta: %q está en o bajo su stock mínimo (%d).\n", res.Product.Name, *res.Product.MinStock)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "usuario responsable")
	cmd.Flags().StringVar(&notes, "notes", "", "observaciones")
	return cmd
}

func newAlertsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Productos con stock en o bajo su mínimo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			return printLowStock(cmd.OutOrStdout(), app.lowStock.Report())
		},
	}
}
