package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/almoxarifado/internal/auth"
)

func newPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Gera uma nova senha do operador",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			password, err := auth.ResetPassword(ctx, database)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), passwordNotice(password))
			return nil
		},
	}
}
