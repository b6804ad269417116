package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version se sobrescribe en build: -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags opciones comunes a todos los comandos.
type globalFlags struct {
	configFile string
	file       string
	verbose    bool
}

// newRootCmd crea el comando raíz con todos los subcomandos.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "inventario",
		Short:         "Libro de inventario sobre Excel",
		Long:          `Inventario de productos con historial de movimientos, persistido en un libro .xlsx con backups automáticos.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "archivo .env de configuración")
	rootCmd.PersistentFlags().StringVarP(&g.file, "file", "f", "", "libro de inventario (sobrescribe INVENTORY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "logs detallados")

	rootCmd.AddCommand(newServeCmd(g))
	rootCmd.AddCommand(newProductCmd(g))
	rootCmd.AddCommand(newMoveCmd(g))
	rootCmd.AddCommand(newAlertsCmd(g))
	rootCmd.AddCommand(newMovementsCmd(g))
	rootCmd.AddCommand(newBackupCmd(g))
	rootCmd.AddCommand(newChartCmd(g))
	rootCmd.AddCommand(newReportCmd(g))
	rootCmd.AddCommand(newTokenCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}
