package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
	"github.com/sumedhd1118/chargback-export/pkg/runtime/report"
	"github.com/sumedhd1118/chargback-export/pkg/runtime/terminal/export"
	"github.com/sumedhd1118/chargback-export/pkg/server"
	"github.com/sumedhd1118/chargback-export/pkg/services/config"
	exportsvc "github.com/sumedhd1118/chargback-export/pkg/services/export"
	"github.com/sumedhd1118/chargback-export/pkg/services/schedule"
	"github.com/sumedhd1118/chargback-export/pkg/store/chargeback"
	"github.com/sumedhd1118/chargback-export/pkg/store/warehouse"
)

const usageGuidance = "Please provide either --cron or --month or --startDate & --endDate"

// Mode is how one process invocation was triggered
type Mode int

const (
	ModeNone Mode = iota
	ModeOneShot
	ModeScheduled
)

func (m Mode) String() string {
	switch m {
	case ModeOneShot:
		return "one-shot"
	case ModeScheduled:
		return "scheduled"
	default:
		return "none"
	}
}

// Flags are the raw invocation arguments
type Flags struct {
	Month      string
	StartDate  string
	EndDate    string
	Cron       bool
	ConfigPath string
	OutputDir  string
}

// ResolveMode picks the trigger path. --cron wins over period flags.
func ResolveMode(f Flags) Mode {
	switch {
	case f.Cron:
		return ModeScheduled
	case f.Month != "" || (f.StartDate != "" && f.EndDate != ""):
		return ModeOneShot
	default:
		return ModeNone
	}
}

// CLI represents the command-line interface
type CLI struct {
	flags    Flags
	logger   zerolog.Logger
	output   io.Writer
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Logger *zerolog.Logger
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	cli := &CLI{
		logger:   logger,
		output:   opts.Output,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chargeback-export",
		Short:         "Export chargeback totals per merchant and sub-merchant to a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cli.run,
	}

	cmd.Flags().StringVar(&cli.flags.Month, "month", "", "Calendar month to export (YYYY-MM)")
	cmd.Flags().StringVar(&cli.flags.StartDate, "startDate", "", "First day of the range to export (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cli.flags.EndDate, "endDate", "", "Last day of the range to export, inclusive (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&cli.flags.Cron, "cron", false, "Stay resident and export the previous month on the 1st of every month")
	cmd.Flags().StringVarP(&cli.flags.ConfigPath, "config", "c", "", "Optional YAML or JSON configuration file")
	cmd.Flags().StringVar(&cli.flags.OutputDir, "output-dir", "", "Directory for the report (default: working directory)")

	return cmd
}

func (cli *CLI) run(cmd *cobra.Command, _ []string) error {
	mode := ResolveMode(cli.flags)
	if mode == ModeNone {
		_, err := fmt.Fprintln(cli.output, usageGuidance)
		return err
	}

	cfg, err := config.Load(cli.flags.ConfigPath)
	if err != nil {
		return err
	}
	if cli.flags.OutputDir != "" {
		cfg.Report.OutputDir = cli.flags.OutputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cli.logger.Level(cfg.LogLevel()).With().Str("mode", mode.String()).Logger()
	ctx := logger.WithContext(cmd.Context())

	if mode == ModeScheduled {
		return cli.runScheduled(ctx, cfg)
	}
	return cli.runOnce(ctx, cfg)
}

func (cli *CLI) runOnce(ctx context.Context, cfg *config.Config) error {
	period, err := domain.ResolvePeriod(cli.flags.Month, cli.flags.StartDate, cli.flags.EndDate)
	if err != nil {
		return err
	}

	wh, exporter, err := openExporter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeWarehouse(ctx, wh)

	if err := wh.Ping(ctx); err != nil {
		return err
	}

	summary, err := exporter.Run(ctx, period)
	if err != nil {
		return err
	}

	return cli.reporter.Handle(summary)
}

func (cli *CLI) runScheduled(ctx context.Context, cfg *config.Config) error {
	logger := zerolog.Ctx(ctx)

	loc, err := cfg.Location()
	if err != nil {
		return domain.NewConfigurationError("", fmt.Sprintf("invalid timezone %q", cfg.Schedule.Timezone))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	wh, exporter, err := openExporter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeWarehouse(ctx, wh)

	if err := wh.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("analytical store unreachable at startup, staying resident for the next run")
	}

	scheduler, err := schedule.NewScheduler(ctx, schedule.Config{
		Spec:     cfg.Schedule.Spec,
		Location: loc,
	}, exporter)
	if err != nil {
		return err
	}
	scheduler.Start()

	var (
		status     *server.StatusServer
		serverErrs <-chan error
	)
	if cfg.Status.Addr != "" {
		status = server.NewStatusServer(*logger, server.Config{
			Addr:         cfg.Status.Addr,
			Dependencies: server.Dependencies{Schedule: scheduler},
		})
		serverErrs = status.Start()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrs:
		if ok && err != nil {
			runErr = fmt.Errorf("status server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduled export still running at shutdown deadline")
	}

	if status != nil {
		if err := status.Shutdown(shutdownCtx); err != nil && runErr == nil {
			runErr = err
		}
	}

	logger.Info().Msg("scheduler stopped")
	return runErr
}

func openExporter(ctx context.Context, cfg *config.Config) (*warehouse.Warehouse, exportsvc.Exporter, error) {
	wh, err := warehouse.Connect(ctx, cfg.WarehouseSettings())
	if err != nil {
		return nil, nil, err
	}

	store, err := chargeback.NewStore(wh)
	if err != nil {
		closeWarehouse(ctx, wh)
		return nil, nil, err
	}

	exporter, err := exportsvc.NewExporter(store, report.NewWriter(cfg.Report.OutputDir))
	if err != nil {
		closeWarehouse(ctx, wh)
		return nil, nil, err
	}

	return wh, exportsvc.WithTimeout(exporter, cfg.Warehouse.QueryTimeout), nil
}

func closeWarehouse(ctx context.Context, wh *warehouse.Warehouse) {
	if err := wh.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close warehouse connection")
	}
}
