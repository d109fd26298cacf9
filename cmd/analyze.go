package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/fitsloom-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	anaHDUIndex   int
	anaOutputPath string
	anaMaxRows    int
	anaCorr       bool
	anaRegress    bool
	anaOutliers   bool
	anaOutlierThr float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a FITS table HDU and produce a concise statistics summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := analysis.DefaultOptions()
		if cfg != nil {
			if cfg.AnalyzeMaxRows > 0 {
				opt.MaxRows = cfg.AnalyzeMaxRows
			}
			if cfg.OutlierThreshold > 0 {
				opt.OutlierThreshold = cfg.OutlierThreshold
			}
			opt.Correlations = cfg.Correlations
			opt.Regressions = cfg.Regressions
		}
		if anaMaxRows > 0 {
			opt.MaxRows = anaMaxRows
		}
		if cmd.Flags().Changed("correlations") {
			opt.Correlations = anaCorr
		}
		if cmd.Flags().Changed("regressions") {
			opt.Regressions = anaRegress
		}
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = anaOutliers
		}
		if anaOutlierThr > 0 {
			opt.OutlierThreshold = anaOutlierThr
		}

		rep, err := analysis.AnalyzeTable(path, anaHDUIndex, opt)
		if err != nil {
			return err
		}
		rep.Name = filepath.Base(path)
		md := rep.Markdown()

		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&anaHDUIndex, "hdu", -1, "HDU index to analyze (-1 = first table HDU)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "maximum rows to process (0 = config default)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", true, "compute Pearson/Spearman correlations among numeric columns")
	analyzeCmd.Flags().BoolVar(&anaRegress, "regressions", true, "fit linear regressions for strongly correlated pairs")
	analyzeCmd.Flags().BoolVar(&anaOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	analyzeCmd.Flags().Float64Var(&anaOutlierThr, "outlier-threshold", 0, "robust |z| threshold for outliers (0 = config default)")
}
