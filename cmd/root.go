// Package cmd implements the command-line interface for newsharvest.
// It provides the root command and subcommands for running harvests,
// inspecting the store, and serving the HTTP API.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmddocs "github.com/jonesrussell/newsharvest/cmd/docs"
	"github.com/jonesrussell/newsharvest/cmd/harvest"
	"github.com/jonesrussell/newsharvest/cmd/httpd"
	cmdlinks "github.com/jonesrussell/newsharvest/cmd/links"
	"github.com/jonesrussell/newsharvest/cmd/schedule"
	"github.com/jonesrussell/newsharvest/internal/extract"
	"github.com/jonesrussell/newsharvest/internal/fetch"
	"github.com/jonesrussell/newsharvest/internal/sink"
	"github.com/jonesrussell/newsharvest/internal/store"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands.
	Debug bool

	// rootCmd represents the root command for the newsharvest CLI.
	rootCmd = &cobra.Command{
		Use:   "newsharvest",
		Short: "An incremental news harvester",
		Long: `An incremental news harvester: discovers article links, extracts content,
deduplicates against previously seen articles, persists the results durably,
and forwards new content to the embedding sink.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")
	rootCmd.PersistentFlags().String("store", "", "path to the JSON state file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newsharvest version %s\n", viper.GetString("app.version"))
		},
	})

	rootCmd.AddCommand(harvest.Command())
	rootCmd.AddCommand(cmdlinks.Command())
	rootCmd.AddCommand(cmddocs.Command())
	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(schedule.Command())
}

// initConfig reads in the config file and environment variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional: defaults and environment variables cover
	// everything.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: config file not loaded: %v\n", err)
		}
	}

	if err := bindFlags(); err != nil {
		return err
	}
	if err := bindEnvVars(); err != nil {
		return err
	}

	if Debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
	}

	return nil
}

// bindFlags binds command-line flags to viper.
func bindFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := viper.BindPFlag("harvester.store_path", rootCmd.PersistentFlags().Lookup("store")); err != nil {
		return fmt.Errorf("failed to bind store flag: %w", err)
	}
	return nil
}

// bindEnvVars maps well-known environment variables to config keys.
func bindEnvVars() error {
	if err := viper.BindEnv("harvester.user_agent", "USER_AGENT"); err != nil {
		return fmt.Errorf("failed to bind USER_AGENT: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("elasticsearch.addresses", "ELASTICSEARCH_HOSTS", "ELASTICSEARCH_ADDRESSES"); err != nil {
		return fmt.Errorf("failed to bind Elasticsearch addresses: %w", err)
	}
	if err := viper.BindEnv("elasticsearch.api_key", "ELASTICSEARCH_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind Elasticsearch API key: %w", err)
	}
	if err := viper.BindEnv("elasticsearch.password", "ELASTIC_PASSWORD", "ELASTICSEARCH_PASSWORD"); err != nil {
		return fmt.Errorf("failed to bind Elasticsearch password: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "newsharvest",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "console",
	})

	viper.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "15s",
		"idle_timeout":  "60s",
	})

	viper.SetDefault("harvester", map[string]any{
		"user_agent":          fetch.DefaultUserAgent,
		"store_path":          store.DefaultPath,
		"request_timeout":     "30s",
		"allowed_domains":     extract.DefaultAllowedDomains,
		"topic_keywords":      extract.DefaultTopicKeywords,
		"article_markers":     extract.DefaultArticleMarkers,
		"shallow_path_domain": extract.DefaultShallowPathDomain,
		"excluded_segments":   extract.DefaultExcludedSegments,
		"log_buffer_size":     500,
	})

	viper.SetDefault("elasticsearch", map[string]any{
		"addresses":     []string{"http://127.0.0.1:9200"},
		"enabled":       false,
		"index_name":    sink.DefaultIndexName,
		"chunk_size":    sink.DefaultChunkSize,
		"chunk_overlap": sink.DefaultChunkOverlap,
	})
}
