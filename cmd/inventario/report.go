package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

func newChartCmd(g *globalFlags) *cobra.Command {
	var xlsx string
	cmd := &cobra.Command{
		Use:       "chart [stock|value|category|low-stock]",
		Short:     "Datos de los gráficos; --xlsx genera un libro con los gráficos",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: dto.ChartKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			if xlsx != "" {
				data, err := app.charts.Workbook(cmd.Context())
				if err != nil {
					return err
				}
				return writeOutput(app.fs, cmd.OutOrStdout(), xlsx, data)
			}
			charts := app.charts.All()
			if len(args) == 1 {
				c, err := app.charts.Chart(args[0])
				if err != nil {
					return err
				}
				charts = []dto.ChartDTO{*c}
			}
			for _, c := range charts {
				if err := printChart(cmd.OutOrStdout(), c); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "archivo .xlsx destino con todos los gráficos")
	return cmd
}

func newReportCmd(g *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generar el reporte de inventario en PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			data, filename, err := app.reports.InventoryPDF(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = filename
			}
			return writeOutput(app.fs, cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `archivo destino (por defecto inventario_<fecha>.pdf; "-" = salida estándar)`)
	return cmd
}
