package cmd

import (
	"fmt"
	"os"

	"golang-collections-engine/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "collections",
	Short: "Late payment interest and debt collection tool",
	Long: `Collections is a command-line tool for UK small businesses chasing
overdue invoices. It computes statutory late payment interest under the
Late Payment of Commercial Debts (Interest) Act 1998, recommends
escalation paths with cost projections, schedules collection actions by
subscription tier, and estimates payment probability.

Examples:
  collections interest --amount 1500 --due-date 2024-08-15
  collections interest --amount 1500 --due-date 2024-08-15 --project 30 --output-format json
  collections escalate --amount 3000 --days-overdue 95 --disputed --debtor-type business
  collections schedule --days-overdue 25 --tier growth
  collections evaluate --invoices invoices.csv --output-format csv
  collections rates check`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)

		// If a config file is specified, read it in.
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	// Read environment variables that match
	viper.SetEnvPrefix("COLLECTIONS")
	viper.AutomaticEnv()

	logLevel := logger.WarnLevel
	if viper.GetBool("verbose") {
		logLevel = logger.DebugLevel
	}
	log, err := logger.NewLogger(&logger.Config{Level: logLevel, Format: logger.TextFormat})
	if err == nil {
		logger.SetGlobalLogger(log)
	}
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
