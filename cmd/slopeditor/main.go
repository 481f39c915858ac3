package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/slopeditor/internal/config"
	"github.com/kikiluvv/slopeditor/internal/gui"
	"github.com/kikiluvv/slopeditor/internal/logging"
	"github.com/kikiluvv/slopeditor/internal/media"
	"github.com/kikiluvv/slopeditor/internal/project"
	"github.com/kikiluvv/slopeditor/internal/server"
	"github.com/kikiluvv/slopeditor/pkg/util"
)

var (
	cfgFile string
	verbose bool
	envFile string
	force   bool
	thumbAt string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slopeditor",
	Short: "slopeditor - short-form video editor",
	Long:  "A timeline editor for short-form vertical video: clips, overlays, effects, undo/redo and viral-potential scoring.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	serveCmd.Flags().StringVar(&envFile, "env", ".env", "dotenv file loaded before serving")
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	probeCmd.Flags().StringVar(&thumbAt, "thumbnail", "", "also print a thumbnail data URL taken at this timestamp (SS, MM:SS or HH:MM:SS)")

	rootCmd.AddCommand(serveCmd, guiCmd, scoreCmd, libraryCmd, projectCmd, configCmd, probeCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
}

func openLibrary(cfg *config.Config) *project.Library {
	return project.OpenLibrary(log.Logger, cfg.Library.Path, cfg.Library.StorageKey)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP editor API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}

		cfg := config.FromContext(cmd.Context())
		cfg.ApplyEnv()

		var opts []server.Option
		if prober, err := media.NewProber(log.Logger, cfg.Media); err != nil {
			log.Warn().Err(err).Msg("thumbnails disabled")
		} else {
			opts = append(opts, server.WithProber(prober))
		}

		srv, err := server.New(log.Logger, cfg, openLibrary(cfg), opts...)
		if err != nil {
			return err
		}
		defer srv.Close()

		return srv.Run(cmd.Context())
	},
}

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		return gui.Run(cmd.Context(), log.Logger, cfg, openLibrary(cfg))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		cfg.ApplyEnv()
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if util.FileExists(path) && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [media file]",
	Short: "Report duration and dimensions of a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			info, err := media.InspectPDF(path)
			if err != nil {
				return err
			}
			log.Info().
				Str("file", path).
				Int("pages", info.TotalPages).
				Float64("width", info.Width).
				Float64("height", info.Height).
				Msg("pdf")
			return nil
		}

		cfg := config.FromContext(cmd.Context())
		prober, err := media.NewProber(log.Logger, cfg.Media)
		if err != nil {
			return err
		}

		info, err := prober.Probe(cmd.Context(), path)
		if errors.Is(err, media.ErrNoVideoStream) {
			d, err := prober.Duration(cmd.Context(), path)
			if err != nil {
				return err
			}
			log.Info().Str("file", path).Str("duration", util.FormatTimestamp(d)).Msg("audio")
			return nil
		}
		if err != nil {
			return err
		}

		log.Info().
			Str("file", path).
			Str("duration", util.FormatTimestamp(info.Duration)).
			Int("width", info.Width).
			Int("height", info.Height).
			Float64("fps", info.FPS).
			Str("codec", info.VideoCodec).
			Bool("audio", info.HasAudio).
			Msg("video")

		if thumbAt == "" {
			return nil
		}
		at, err := util.ParseTimestamp(thumbAt)
		if err != nil {
			return err
		}
		thumb, err := prober.Thumbnail(cmd.Context(), path, at)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), thumb)
		return err
	},
}
