package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chandl/pkg/config"
	"chandl/pkg/logger"
	"chandl/pkg/syncer"
	"chandl/pkg/ui"
)

var (
	// Download command flags
	outputDir  string
	concurrent int
	rateLimit  int
	reload     bool
	interval   int
	budget     int
	useNames   bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <thread-url>",
	Short: "Download all media files referenced in a thread",
	Long: `Download every media file referenced in a thread page into
<output>/<board>/<thread-id>/. Files already present on disk or saved
earlier in the same run are skipped.

With --reload the thread is re-fetched on a fixed interval and newly posted
files are picked up, until the total time budget is exhausted. The budget is
checked after each cycle, so a cycle already running always completes.`,
	Example: `  # One-shot download
  chandl download https://boards.4chan.org/wg/thread/6872254

  # Keep watching the thread every 5 minutes for up to 2 hours
  chandl download https://boards.4chan.org/wg/thread/6872254 --reload

  # Custom polling and output settings
  chandl download https://boards.4chan.org/wg/thread/6872254 \
    --reload --interval 2 --budget 60 --output ./archive --concurrent 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runDownload(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output root directory (default: downloads)")
	downloadCmd.Flags().IntVar(&concurrent, "concurrent", 2, "number of concurrent downloads")
	downloadCmd.Flags().IntVar(&rateLimit, "rate-limit", 60, "media requests per minute (0 disables)")
	downloadCmd.Flags().BoolVarP(&reload, "reload", "r", false, "re-fetch the thread on a fixed interval")
	downloadCmd.Flags().IntVar(&interval, "interval", 5, "minutes between cycle starts in reload mode")
	downloadCmd.Flags().IntVar(&budget, "budget", 120, "total minutes before reload mode stops")
	downloadCmd.Flags().BoolVarP(&useNames, "names", "n", false, "use the custom-name URL segment as the thread directory")
}

func runDownload(cmd *cobra.Command, args []string) {
	threadURL := strings.TrimSpace(args[0])

	if !ui.IsQuietMode() {
		ui.PrintInfo("Thread", threadURL)
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if concurrent != 2 {
		flags["concurrent"] = concurrent
	}
	if rateLimit != 60 {
		flags["rate-limit"] = rateLimit
	}
	if reload {
		flags["reload"] = true
	}
	if interval != 5 {
		flags["interval"] = interval
	}
	if cmd.Flags().Changed("budget") {
		flags["budget"] = budget
	}
	if useNames {
		flags["names"] = true
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Info("chandl starting")

	s, err := syncer.New(threadURL, cfg)
	if err != nil {
		logger.WithError(err).Error("invalid thread URL")
		ui.PrintError("Invalid thread URL", err.Error())
		os.Exit(1)
	}

	s.Run()

	ui.PrintSuccess("Done")
}

// Make download the default command when no subcommand is specified
func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && !isKnownCommand(args[0]) {
			// A bare thread URL argument means download
			return downloadCmd.RunE(downloadCmd, args)
		}
		return cmd.Help()
	}

	rootCmd.Args = cobra.ArbitraryArgs
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
