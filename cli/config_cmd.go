package cli

import (
	"fmt"

	"github.com/binhbb2204/manga-catalog/cli/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify the mangactl configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: mangactl init")
			return err
		}
		if cfg.User.Token != "" {
			cfg.User.Token = "********"
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long:  `Set a configuration value. Keys: server.url, server.timeout_seconds, output.format.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not initialized")
			return err
		}
		if err := config.Set(cfg, args[0], args[1]); err != nil {
			printError(err.Error())
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Set %s = %s", args[0], args[1]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
