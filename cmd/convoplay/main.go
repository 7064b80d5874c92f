package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"convoplay/internal/app"
	"convoplay/internal/demo"
	"convoplay/internal/playback"
	"convoplay/internal/preview"
	"convoplay/internal/scaffold"
)

var version = "dev"

func main() {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "convoplay", Level: clog.InfoLevel})

	cfg, err := app.FromEnv()
	if err != nil {
		logger.Fatal(err)
	}

	root := &cobra.Command{
		Use:           "convoplay",
		Short:         "Turn conversation scripts into self-playing HTML demos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for history and logs")
	root.PersistentFlags().StringVar(&cfg.LogPath, "log", cfg.LogPath, "telemetry log file (JSON lines)")
	root.PersistentFlags().BoolVar(&cfg.History, "history", cfg.History, "record builds in the local history database")

	root.AddCommand(
		newBuildCmd(&cfg, logger),
		newPreviewCmd(&cfg),
		newValidateCmd(logger),
		newInitCmd(logger),
		newHistoryCmd(&cfg),
		newVersionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Fatal(err)
	}
}

func newBuildCmd(cfg *app.Config, logger *clog.Logger) *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "build <demo.yaml | directory>",
		Short: "Generate self-contained HTML documents from demo files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.OutputPath = outputPath
			if err := cfg.Validate(); err != nil {
				return err
			}
			builder, err := app.NewBuilder(*cfg)
			if err != nil {
				return err
			}
			defer builder.Close()

			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if info.IsDir() {
				results, err := builder.BuildAll(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, res := range results {
					logger.Info("built", "output", res.OutputPath, "size", humanize.Bytes(uint64(res.Bytes)))
				}
				return nil
			}
			res, err := builder.Build(cmd.Context(), args[0], cfg.OutputPath)
			if err != nil {
				return err
			}
			logger.Info("built", "output", res.OutputPath, "size", humanize.Bytes(uint64(res.Bytes)), "took", res.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default: source with .html extension)")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent builds for directory input")
	return cmd
}

func newPreviewCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <demo.yaml>",
		Short: "Play a demo in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			d, err := demo.NewLoader().Load(args[0])
			if err != nil {
				return err
			}
			return preview.Run(d, playback.Options{
				Speed:         cfg.Speed,
				ReducedMotion: cfg.Motion == "reduced",
			})
		},
	}
	cmd.Flags().Float64Var(&cfg.Speed, "speed", cfg.Speed, "initial playback speed multiplier")
	cmd.Flags().StringVar(&cfg.Motion, "motion", cfg.Motion, "motion level: full or reduced")
	return cmd
}

func newValidateCmd(logger *clog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <demo.yaml>...",
		Short: "Check demo files without generating anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := demo.NewLoader()
			failed := 0
			for _, path := range args {
				d, err := loader.Load(path)
				if err != nil {
					logger.Error("invalid", "file", path, "err", err)
					failed++
					continue
				}
				steps := 0
				for _, sc := range d.Scenarios {
					steps += len(sc.Steps)
				}
				logger.Info("ok", "file", path, "scenarios", len(d.Scenarios), "steps", steps)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}
}

func newInitCmd(logger *clog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter demo file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "demo.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := scaffold.Write(path); err != nil {
				return err
			}
			logger.Info("created", "file", path)
			return nil
		},
	}
}

func newHistoryCmd(cfg *app.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.History = true
			builder, err := app.NewBuilder(*cfg)
			if err != nil {
				return err
			}
			defer builder.Close()

			builds, err := builder.Store().RecentBuilds(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(builds) == 0 {
				fmt.Println("no builds recorded yet")
				return nil
			}
			for _, b := range builds {
				fmt.Printf("%-20s %-40s %3d scenarios %4d steps %8s  %s\n",
					humanize.Time(b.CreatedTS), b.OutputPath, b.Scenarios, b.Steps,
					humanize.Bytes(uint64(b.Bytes)), b.BuildID[:8])
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of builds to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the convoplay version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("convoplay " + version)
		},
	}
}
