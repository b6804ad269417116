package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/csvexport"
)

func newMovementsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "movements",
		Aliases: []string{"movimientos"},
		Short:   "Historial de movimientos",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list [filtro]",
		Short: "Listar movimientos (más reciente primero), filtrando por producto, tipo, usuario, observaciones o fecha",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			res := app.ledger.ListMovements(query)
			if err := printMovements(cmd.OutOrStdout(), res.Items); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d movimiento(s).\n", res.Total)
			return err
		},
	})

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Exportar el historial completo a CSV (UTF-8 con BOM)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := csvexport.WriteMovements(&buf, app.ledger.Movements()); err != nil {
				return err
			}
			path := out
			if path == "" {
				path = fmt.Sprintf("movimientos_%s.csv", time.Now().Format("20060102_150405"))
			}
			return writeOutput(app.fs, cmd.OutOrStdout(), path, buf.Bytes())
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", `archivo destino ("-" = salida estándar)`)
	cmd.AddCommand(export)
	return cmd
}
