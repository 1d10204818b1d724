package main

import (
	"fmt"
	"log"
	"os"

	"housekeeper/internal/config"
	"housekeeper/internal/confluence"
	"housekeeper/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "housekeeper",
		Short: "Personal automation: Confluence pages, photo dates, schema validation",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(validateCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// initPageSync builds the Confluence client from config and wraps it for editing.
func initPageSync() (*pipeline.PageSync, *config.Config) {
	cfg := loadConfig()
	if err := cfg.Confluence.Validate(); err != nil {
		log.Fatalf("Invalid Confluence config: %v", err)
	}

	client := confluence.NewClient(cfg.Confluence.BaseURL, confluence.Credentials{
		Mode:  confluence.AuthMode(cfg.Confluence.Auth),
		Email: cfg.Confluence.Email,
		Token: cfg.Confluence.APIToken,
	}, cfg.Confluence.Timeout())

	return pipeline.NewPageSync(client, cfg.Confluence.SpaceKey, cfg.Confluence.ParentPageID), cfg
}
