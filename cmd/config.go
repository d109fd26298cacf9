package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/fitsloom-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set FitsLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("previews_dir: %s\n", cfg.PreviewsDir)
		fmt.Printf("pretty: %t\n", cfg.Pretty)
		fmt.Printf("analyze_max_rows: %d\n", cfg.AnalyzeMaxRows)
		fmt.Printf("outlier_threshold: %.2f\n", cfg.OutlierThreshold)
		fmt.Printf("correlations: %t\n", cfg.Correlations)
		fmt.Printf("regressions: %t\n", cfg.Regressions)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "previews_dir":
			cfg.PreviewsDir = val
		case "pretty":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %q", key, val)
			}
			cfg.Pretty = b
		case "analyze_max_rows":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %q", key, val)
			}
			cfg.AnalyzeMaxRows = n
		case "outlier_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %q", key, val)
			}
			cfg.OutlierThreshold = f
		case "correlations":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %q", key, val)
			}
			cfg.Correlations = b
		case "regressions":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %q", key, val)
			}
			cfg.Regressions = b
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
