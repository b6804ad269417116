package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func newProductCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"producto"},
		Short:   "Alta, edición, baja y consulta de productos",
	}
	cmd.AddCommand(newProductAddCmd(g))
	cmd.AddCommand(newProductEditCmd(g))
	cmd.AddCommand(newProductDeleteCmd(g))
	cmd.AddCommand(newProductFindCmd(g))
	cmd.AddCommand(newProductListCmd(g))
	return cmd
}

// productFlags campos editables de un producto.
type productFlags struct {
	category string
	supplier string
	stock    int
	minStock int
	clearMin bool
	price    string
	user     string
	notes    string
}

func (f *productFlags) register(fs *pflag.FlagSet, withStock bool) {
	fs.StringVar(&f.category, "category", "", "categoría")
	fs.StringVar(&f.supplier, "supplier", "", "proveedor")
	if withStock {
		fs.IntVar(&f.stock, "stock", 0, "stock inicial")
	}
	fs.IntVar(&f.minStock, "min", 0, "stock mínimo (alerta)")
	fs.StringVar(&f.price, "price", "", "precio unitario (acepta coma decimal)")
	fs.StringVar(&f.user, "user", "", "usuario responsable")
	fs.StringVar(&f.notes, "notes", "", "observaciones")
}

// parsePrice acepta "2.50" o "2,50". Vacío = cero.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: precio %q no es un número", domain.ErrInvalidInput, s)
	}
	return d, nil
}

func newProductAddCmd(g *globalFlags) *cobra.Command {
	f := &productFlags{}
	cmd := &cobra.Command{
		Use:   "add <nombre>",
		Short: "Agregar un producto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parsePrice(f.price)
			if err != nil {
				return err
			}
			req := dto.CreateProductRequest{
				Name:         args[0],
				Category:     f.category,
				Supplier:     f.supplier,
				InitialStock: f.stock,
				UnitPrice:    price,
				User:         f.user,
				Notes:        f.notes,
			}
			if cmd.Flags().Changed("min") {
				req.MinStock = &f.minStock
			}

			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			res, err := app.ledger.AddProduct(cmd.Context(), req, "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Producto %q agregado.\n", res.Product.Name)
			printWarning(out, res.Warning)
			return printProduct(out, res.Product)
		},
	}
	f.register(cmd.Flags(), true)
	return cmd
}

func newProductEditCmd(g *globalFlags) *cobra.Command {
	f := &productFlags{}
	cmd := &cobra.Command{
		Use:   "edit <nombre>",
		Short: "Editar un producto (solo cambian los campos indicados)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var req dto.UpdateProductRequest
			if flags.Changed("category") {
				req.Category = &f.category
			}
			if flags.Changed("supplier") {
				req.Supplier = &f.supplier
			}
			if flags.Changed("price") {
				price, err := parsePrice(f.price)
				if err != nil {
					return err
				}
				req.UnitPrice = &price
			}
			if flags.Changed("min") {
				req.MinStock = &f.minStock
			}
			req.ClearMinStock = f.clearMin
			if flags.Changed("user") {
				req.User = &f.user
			}
			if flags.Changed("notes") {
				req.Notes = &f.notes
			}

			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			res, err := app.ledger.EditProduct(cmd.Context(), args[0], req, "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Producto %q actualizado.\n", res.Product.Name)
			printWarning(out, res.Warning)
			return printProduct(out, res.Product)
		},
	}
	f.register(cmd.Flags(), false)
	cmd.Flags().BoolVar(&f.clearMin, "clear-min", false, "quitar el stock mínimo")
	return cmd
}

func newProductDeleteCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <nombre>",
		Short: "Eliminar un producto (su historial de movimientos se conserva)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			res, err := app.ledger.DeleteProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Producto %q eliminado.\n", res.Name)
			printWarning(out, res.Warning)
			return nil
		},
	}
}

func newProductFindCmd(g *globalFlags) *cobra.Command {
	var exact bool
	cmd := &cobra.Command{
		Use:   "find <nombre>",
		Short: "Buscar un producto por nombre (exacto primero, luego parcial)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			res := app.ledger.FindProducts(args[0], !exact)
			if res.Total == 1 {
				return printProduct(cmd.OutOrStdout(), res.Items[0])
			}
			return printProducts(cmd.OutOrStdout(), res.Items)
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "solo coincidencia exacta")
	return cmd
}

func newProductListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [filtro]",
		Short: "Listar productos, opcionalmente filtrando por nombre, categoría o proveedor",
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
			res := app.ledger.ListProducts(query)
			if err := printProducts(cmd.OutOrStdout(), res.Items); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d producto(s).\n", res.Total)
			return err
		},
	}
}
