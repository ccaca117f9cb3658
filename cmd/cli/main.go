package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	domainAnalysis "insightengine/domain/analysis"
	domainDataset "insightengine/domain/dataset"
	"insightengine/internal/analysis"
	"insightengine/internal/dataset"
	"insightengine/internal/insights"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "insightengine-cli",
		Short: "InsightEngine CLI for analyzing CSV and XLSX files offline",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newInsightsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run the full analysis pipeline on a local file and print JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyzeFile(args[0])
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			if pretty {
				encoder.SetIndent("", "  ")
			}
			return encoder.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")

	return cmd
}

func newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights [file]",
		Short: "Print the templated markdown insights for a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyzeFile(args[0])
			if err != nil {
				return err
			}
			fmt.Print(insights.Generate(result))
			return nil
		},
	}
}

func analyzeFile(path string) (*domainAnalysis.Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var table *domainDataset.Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		table, err = dataset.ReadXLSX(file)
	case ".csv":
		table, err = dataset.ReadCSV(file)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return analysis.NewEngine().Analyze(table)
}
