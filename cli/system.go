package cli

import (
	"fmt"
	"runtime"

	"github.com/binhbb2204/manga-catalog/cli/config"
	"github.com/spf13/cobra"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "System information",
	Long:  `Display client information and server diagnostics.`,
}

var systemInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show system info",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("System Information:")
		fmt.Println("-------------------")
		fmt.Printf("OS: %s\n", runtime.GOOS)
		fmt.Printf("Architecture: %s\n", runtime.GOARCH)
		fmt.Printf("Go Version: %s\n", runtime.Version())
		fmt.Printf("CLI Version: %s\n", rootCmd.Version)

		path, _ := config.GetConfigPath()
		cfg, err := config.Load()
		if err != nil {
			fmt.Println("\nConfiguration: Not initialized")
			return nil
		}
		fmt.Println("\nConfiguration:")
		fmt.Printf("  Config Path: %s\n", path)
		fmt.Printf("  Server: %s\n", cfg.Server.URL)
		if cfg.User.Username != "" {
			fmt.Printf("  Logged in as: %s\n", cfg.User.Username)
		}

		fmt.Println("\nServer Connectivity:")
		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.do("GET", "/health", nil)
		if err != nil {
			fmt.Printf("  Status: ✗ Unreachable (%s)\n", err.Error())
			return nil
		}
		var health struct {
			Store             string `json:"store"`
			UptimeSeconds     int64  `json:"uptime_seconds"`
			ActiveConnections int64  `json:"active_connections"`
		}
		res.decode(&health)
		if res.Success {
			fmt.Printf("  Status: ✓ Online (HTTP %d)\n", res.status)
		} else {
			fmt.Printf("  Status: ⚠ Issues (HTTP %d) %s\n", res.status, res.Message)
		}
		fmt.Printf("  Store: %s\n", health.Store)
		fmt.Printf("  Uptime: %ds\n", health.UptimeSeconds)
		fmt.Printf("  Live feed connections: %d\n", health.ActiveConnections)
		return nil
	},
}

var systemMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Dump server counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.do("GET", "/metrics", nil)
		if err != nil {
			return err
		}
		var out map[string]int64
		if err := res.decode(&out); err != nil {
			return fmt.Errorf("unexpected metrics body: %w", err)
		}
		printJSON(out)
		return nil
	},
}

func init() {
	systemCmd.AddCommand(systemInfoCmd, systemMetricsCmd)
}
