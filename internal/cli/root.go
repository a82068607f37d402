package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tapsync/internal/config"
	"github.com/mgpai22/tapsync/internal/ffmpeg"
	"github.com/mgpai22/tapsync/internal/logging"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tapsync",
	Short: "Tap along to a song to time its lyrics, then sing along",
	Long: `tapsync turns a plain-text lyrics file into a timed SRT subtitle track.

Play the song, press a key when each line starts and again when it ends, and
tapsync writes the track. The play command shows the timed lines in sync with
the music, karaoke style.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger = logging.NewLogger(verbose, logging.WithLevel(cfg.Logging.Level))
		if exists {
			logger.Debugw("Loaded config", "path", path)
		}

		ffmpeg.Configure(ffmpeg.BinaryPaths{
			FFmpeg:  cfg.FFmpeg.FFmpegPath,
			FFprobe: cfg.FFmpeg.FFprobePath,
		})
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && logger != nil {
		_ = logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", fmt.Sprintf("Config file (default ~/.config/tapsync/config.toml, or $%s)", config.EnvConfigPath))
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
