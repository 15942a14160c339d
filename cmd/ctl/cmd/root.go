package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/config"
	"github.com/jpfielding/dicomlut.go/pkg/logging"
	"github.com/jpfielding/dicomlut.go/pkg/render"
	"github.com/spf13/cobra"
)

// state is shared by every command once the root pre-run loaded the config
type state struct {
	cfg *config.Config
	rd  *render.Renderer
	log io.Closer
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	st := &state{cfg: config.DefaultConfig(), rd: render.NewRenderer(nil)}
	cmd := &cobra.Command{
		Use:   "lutctl",
		Short: "a CLI to window and render DICOM pixel data",
		Long:  "Reads DICOM files, builds the Modality, VOI and Presentation LUTs and renders 8 bit images.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Log.File, _ = cmd.Flags().GetString("log-file")
			}
			st.cfg = cfg

			var w io.Writer = os.Stderr
			if cfg.Log.File != "" {
				rw := logging.RotatingWriter(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
				st.log = rw
				w = io.MultiWriter(os.Stderr, rw)
			}
			slog.SetDefault(logging.Logger(w, cfg.Log.JSON, cfg.LogLevel()))

			if !strings.EqualFold(cfg.LogLevel().String(), cfg.Log.Level) {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st.log != nil {
				return st.log.Close()
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewDecodeCmd(ctx),
		NewRenderCmd(ctx, st),
		NewLUTCmd(ctx, st),
		NewStatsCmd(ctx, st),
		NewSeriesCmd(ctx, st),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "also write logs to this rotated file")
	pf.StringP("config", "c", "", "YAML config file")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
	return cmd
}
