package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/haggle/internal/config"
	"github.com/example/haggle/internal/version"
	"github.com/example/haggle/internal/wire"
)

// RootCmd returns the haggle root command with every subcommand attached.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "haggle",
		Short:   "Haggle - automated buyer/seller price negotiation",
		Version: version.String(),
		Long: `Haggle runs price negotiations between a buyer agent and a seller agent,
with a mediator that proposes a middle price when talks stall. Offer
messages are written by Gemini when an API key is configured and fall
back to built-in text otherwise.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return wire.Close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/haggle/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("env_file", rootCmd.PersistentFlags().Lookup("env-file"))

	// Add subcommands
	rootCmd.AddCommand(NegotiateCmd())
	rootCmd.AddCommand(ContinueCmd())
	rootCmd.AddCommand(HistoryCmd())
	rootCmd.AddCommand(ShowCmd())
	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(ConfigCmd())

	return rootCmd
}

func initConfig() error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if err := config.LoadDotEnv(viper.GetString("env_file")); err != nil {
		return err
	}

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("HAGGLE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., HAGGLE_GENERATION_MODEL for generation.model
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists (ignore error if not found)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if viper.GetString("config") != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	return nil
}
