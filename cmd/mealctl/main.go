package main

import (
	"context"
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/logging"
	"github.com/fdg312/meal-planner/internal/planner"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/storage/backend"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	out     io.Writer
	cfg     *config.Config
	logger  zerolog.Logger
	storage storage.PlannerStorage
	svc     *planner.Service

	dataDir     string
	storageMode string
	verbose     bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "mealctl",
		Short: "Plan the week's meals and build the shopping list",
		Long: `mealctl manages the meal catalog, the weekly plan and the shopping list
stored by the meal planner. By default it works on the file store in DATA_DIR,
or on PostgreSQL when STORAGE_MODE=postgres.

Examples:
  mealctl meals add Pasta -i tomato -i pasta
  mealctl plan assign monday Pasta
  mealctl shopping generate
  mealctl shopping print --output list.pdf`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory of the file store (default: DATA_DIR)")
	root.PersistentFlags().StringVar(&a.storageMode, "storage", "", "Storage mode: file|postgres|memory (default: STORAGE_MODE, memory becomes file)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(newMealsCmd(a), newPlanCmd(a), newShoppingCmd(a))
	return root
}

// open loads configuration and the persisted state before any subcommand.
func (a *app) open(cmd *cobra.Command, args []string) error {
	a.cfg = config.Load()
	if a.dataDir != "" {
		a.cfg.DataDir = a.dataDir
	}
	if a.storageMode != "" {
		a.cfg.StorageMode = a.storageMode
	}
	// A CLI run is one process per command; memory would forget everything.
	if a.cfg.ResolvedStorageMode() == config.StorageModeMemory && a.storageMode != config.StorageModeMemory {
		a.cfg.StorageMode = config.StorageModeFile
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr}, level)

	ctx := cmd.Context()
	a.storage, _ = backend.Open(ctx, a.cfg, a.logger)
	a.svc = planner.NewService(a.storage, a.logger)
	report := a.svc.Load(ctx)
	if report.Errors > 0 {
		a.logger.Warn().Int("errors", report.Errors).Msg("some saved data could not be read and was reset")
	}
	return nil
}

func (a *app) close(cmd *cobra.Command, args []string) error {
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
