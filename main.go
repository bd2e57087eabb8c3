// Package main provides the entry point for the nurtra CLI application.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string

	rootCmd = &cobra.Command{
		Use:           "nurtra",
		Short:         "A binge-eating recovery companion on the CLI",
		Long:          "\nTrack binge-free time, ride out cravings with spoken motivational quotes, and keep distracting apps locked away while a craving passes.",
		SilenceErrors: false,
		SilenceUsage:  true,
	}
)

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))

	viper.SetDefault("user.id", "local")
	viper.SetDefault("user.name", "")
	viper.SetDefault("user.subscribed", false)
	viper.SetDefault("storage.path", "")

	// Speech synthesis defaults
	viper.SetDefault("speech.api_key", "")
	viper.SetDefault("speech.voice_id", "")
	viper.SetDefault("speech.model", "eleven_multilingual_v2")
	viper.SetDefault("speech.requests_per_minute", 0)
	viper.SetDefault("speech.cache.dir", "")

	// Quote generation defaults
	viper.SetDefault("quotes.api_key", "")
	viper.SetDefault("quotes.model", "gpt-3.5-turbo")

	rootCmd.AddCommand(sessionCmd, timerCmd, quotesCmd, cacheCmd, restrictCmd, surveyCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "nurtra")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "nurtra")}, dirs...)
	}

	if c := os.Getenv("NURTRA_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("nurtra")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("nurtra")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "nurtra.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
