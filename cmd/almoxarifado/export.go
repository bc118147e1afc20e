package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/almoxarifado/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta o estoque em JSON ou XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !export.ValidFormat(format) {
				return fmt.Errorf("unknown export format %q", format)
			}

			ctx := cmd.Context()
			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			records, err := export.LoadStock(ctx, database)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				return export.Write(cmd.OutOrStdout(), format, records)
			}
			if err := writeExportFile(out, format, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d itens exportados para %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "formato: json ou xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "arquivo de saída (padrão: saída padrão)")
	return cmd
}

func writeExportFile(path, format string, records []export.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := export.Write(f, format, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}
