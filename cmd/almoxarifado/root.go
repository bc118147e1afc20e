package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/erazemk/almoxarifado/internal/config"
	"github.com/erazemk/almoxarifado/internal/db"
)

// app carries the resolved configuration between the cobra hooks and the
// command bodies.
type app struct {
	envFile string
	flags   config.Config
	cfg     config.Config

	closeLog func()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	defaults := config.Defaults()

	root := &cobra.Command{
		Use:          "almoxarifado",
		Short:        "Controle de estoque e ferramentas com registro de retiradas",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeLog != nil {
				a.closeLog()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env", ".env", "arquivo .env opcional")
	pf.StringVarP(&a.flags.DBPath, "db", "d", defaults.DBPath, "caminho do banco SQLite (ALMOX_DB)")
	pf.StringVarP(&a.flags.LogPath, "log", "l", "", "arquivo de log adicional (ALMOX_LOG)")
	addServeFlags(root.Flags(), &a.flags)

	root.AddCommand(
		newServeCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
		newPasswordCmd(a),
	)
	return root
}

func addServeFlags(fs *pflag.FlagSet, c *config.Config) {
	defaults := config.Defaults()
	fs.StringVarP(&c.Addr, "addr", "a", defaults.Addr, "endereço de escuta (ALMOX_ADDR)")
	fs.BoolVar(&c.RequireLogin, "require-login", false, "exigir senha do operador (ALMOX_REQUIRE_LOGIN)")
	fs.StringVar(&c.BackupDir, "backup-dir", "", "diretório para cópias periódicas do estoque (ALMOX_BACKUP_DIR)")
	fs.StringVar(&c.BackupSchedule, "backup-schedule", defaults.BackupSchedule, "agenda cron das cópias (ALMOX_BACKUP_SCHEDULE)")
}

// setup resolves configuration from the .env file, the environment and the
// flags, in increasing precedence, and installs the logger.
func (a *app) setup(fs *pflag.FlagSet) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	override := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	override("db", &cfg.DBPath, a.flags.DBPath)
	override("log", &cfg.LogPath, a.flags.LogPath)
	override("addr", &cfg.Addr, a.flags.Addr)
	override("backup-dir", &cfg.BackupDir, a.flags.BackupDir)
	override("backup-schedule", &cfg.BackupSchedule, a.flags.BackupSchedule)
	if fs.Changed("require-login") {
		cfg.RequireLogin = a.flags.RequireLogin
	}
	a.cfg = cfg

	a.closeLog, err = setupLogger(cfg.LogPath)
	return err
}

// openDB opens the configured database and brings its schema up to date.
func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	database, err := db.Open(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return database, nil
}
