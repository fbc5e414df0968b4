package cli

import (
	"github.com/serenlabs/lucid/internal/config"
	"github.com/serenlabs/lucid/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	cfg   config.Config
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lucid",
		Short: "Lucid is a local-first experience journal with pattern analytics",
		Long: "Lucid journals substance-use experiences locally and runs capability " +
			"plugins over the log to surface interaction warnings, tolerance trends, " +
			"and safety findings.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}
			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			log = logging.NewStyled(cfg.Logging.ConsoleStyle, level)
			for _, issue := range config.Validate(&cfg) {
				log.Warn().Str("path", issue.Path).Msg(issue.Message)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.lucid/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newPluginCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newAskCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
