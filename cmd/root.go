package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pgschema/schemadump/cmd/util"
	"github.com/pgschema/schemadump/internal/catalog"
	"github.com/pgschema/schemadump/internal/dump"
	"github.com/pgschema/schemadump/internal/ignore"
	"github.com/pgschema/schemadump/internal/layout"
	"github.com/pgschema/schemadump/internal/logger"
	"github.com/pgschema/schemadump/internal/version"
	"github.com/spf13/cobra"
)

const usageLine = "Usage: schemadump '<out_dir>' '<url>' '<username>' '<password>'"

var (
	Debug      bool
	driver     string
	ignoreFile string
	jobs       int
)

var RootCmd = &cobra.Command{
	Use:   "schemadump <out_dir> <url> <username> <password>",
	Short: "Dump PostgreSQL schemas as re-runnable SQL files",
	Long: `schemadump reads the system catalog of a PostgreSQL database and writes every
user schema as one SQL file per table, composite type and function, together with
shell scripts that replay the whole set inside a single transaction.

Output layout:
  <out_dir>/create_all.sh
  <out_dir>/util.sh
  <out_dir>/<schema>/create.sql
  <out_dir>/<schema>/create.sh
  <out_dir>/<schema>/tables/<table>.sql
  <out_dir>/<schema>/types/<type>.sql
  <out_dir>/<schema>/functions/<name>[_<argtypes>].sql`,
	Version:       version.String(),
	Args:          validateArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
	RunE: runDump,
}

func init() {
	// Everything from <out_dir> on is positional, even values starting with "-".
	RootCmd.Flags().SetInterspersed(false)
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.Flags().StringVar(&driver, "driver", util.DriverPgx, "Database driver (pgx or pq)")
	RootCmd.Flags().StringVar(&ignoreFile, "ignore-file", ignore.FileName, "Path to the ignore file (optional)")
	RootCmd.Flags().IntVar(&jobs, "jobs", 1, "Number of schemas read from the catalog concurrently")
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("expected 4 arguments, got %d\n%s", len(args), usageLine)
	}
	return nil
}

func setupLogger() {
	logger.SetGlobal(logger.New(os.Stderr, Debug), Debug)
}

func runDump(cmd *cobra.Command, args []string) error {
	outDir, url, user, password := args[0], args[1], args[2], args[3]
	log := logger.Get()

	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}

	ignoreConfig, err := ignore.Load(ignoreFile)
	if err != nil {
		return err
	}

	config := &util.ConnectionConfig{
		URL:             url,
		User:            user,
		Password:        password,
		Driver:          driver,
		ApplicationName: util.GetEnvWithDefault("PGAPPNAME", "schemadump"),
		MaxConns:        jobs,
	}

	conn, err := util.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer conn.Close()

	reader := catalog.NewReader(&util.LoggingQuerier{DB: conn}, ignoreConfig)

	serverVersion, err := reader.ServerVersion(ctx)
	if err != nil {
		return err
	}
	log.Info("Connected", "server_version", serverVersion, "driver", driver)

	writer, err := layout.NewWriter(outDir)
	if err != nil {
		return err
	}

	summary, err := dump.New(reader, writer, jobs).Run(ctx)
	if err != nil {
		return err
	}

	log.Info("Dump complete", "output", summary.Root, "schemas", len(summary.Schemas))
	return nil
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(RootCmd.ErrOrStderr(), "Error:", err)
		exit(1)
	}
}

var exit = os.Exit
