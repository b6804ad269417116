package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackupCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copias de seguridad del libro",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Listar backups (más reciente primero)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			res, err := app.backups.List(cmd.Context())
			if err != nil {
				return err
			}
			return printBackups(cmd.OutOrStdout(), res.Items)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Crear un backup del libro actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			b, err := app.backups.Create(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Backup creado: %s\n", b.Name)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <nombre>",
		Short: "Eliminar un backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			if err := app.backups.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Backup eliminado: %s\n", args[0])
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "restore <nombre>",
		Short: "Restaurar un backup (el libro actual se respalda antes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			res, err := app.backups.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Restaurado %s: %d producto(s), %d movimiento(s).\n", res.Backup, res.Products, res.Movements)
			for _, name := range res.Duplicates {
				fmt.Fprintf(out, "Fila repetida descartada: %s\n", name)
			}
			for _, name := range res.Recomputed {
				fmt.Fprintf(out, "Derivados recalculados: %s\n", name)
			}
			return nil
		},
	})

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Conservar solo los N backups más recientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), g, false)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = app.cfg.Backup.Retention
			}
			res, err := app.backups.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d backup(s) eliminado(s).\n", len(res.Removed))
			return err
		},
	}
	prune.Flags().IntVar(&keep, "keep", 0, "backups a conservar (por defecto BACKUP_RETENTION)")
	cmd.AddCommand(prune)
	return cmd
}
