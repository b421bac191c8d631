// cmd/root.go
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/bcoles/jira-scan/internal/core"
	"github.com/bcoles/jira-scan/internal/core/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	// Register the check catalog
	_ "github.com/bcoles/jira-scan/internal/modules/enumeration"
	_ "github.com/bcoles/jira-scan/internal/modules/exposure"
	_ "github.com/bcoles/jira-scan/internal/modules/fingerprint"
	_ "github.com/bcoles/jira-scan/internal/modules/misconfiguration"
)

var (
	verbose    bool
	insecure   bool
	configPath string
	logFile    string
	config     *core.Config

	infoColor = color.New(color.FgCyan)
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jira-scan",
	Short: "JiraScan: a remote scanner for Atlassian Jira.",
	Long: `JiraScan fingerprints an Atlassian Jira instance and checks it for
known misconfigurations and information disclosure issues: anonymous user
enumeration, exposed internals, open sign up and leaky REST resources.
It only issues anonymous GET requests against a single host.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("%w: %v", core.ErrFileWrite, err)
			}
			logger.SetOutput(f)
		}
		if verbose {
			logger.SetupLogger("debug")
		} else {
			logger.SetupLogger(config.LogLevel)
		}
		if cmd.Flags().Changed("insecure") {
			config.Insecure = insecure
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfigOrExit() {
	if configPath == "" {
		config = core.DefaultConfig()
		return
	}
	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	config = cfg
}

func printBanner(w io.Writer) {
	banner := `
       _ _           ____
      | (_)_ __ __ _/ ___|  ___ __ _ _ __
   _  | | | '__/ _' \___ \ / __/ _' | '_ \
  | |_| | | | | (_| |___) | (_| (_| | | | |
   \___/|_|_|  \__,_|____/ \___\__,_|_| |_|
`
	infoColor.Fprint(w, banner)
	color.New(color.FgMagenta).Fprintf(w, "JiraScan v%s\n", core.Version)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging.")
	rootCmd.PersistentFlags().BoolVarP(&insecure, "insecure", "k", false, "Skip TLS certificate verification.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write log lines to this file instead of stderr")

	rootCmd.Version = core.Version
	rootCmd.SetVersionTemplate("{{.Version}}\r\n")

	cobra.OnInitialize(loadConfigOrExit)
}
