// Package batch handles batch processing of statement files
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appContable/statement-core/cmd/root"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/service"
)

var (
	inputDir  string
	outputDir string
	workers   int
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statement files from a directory",
	Long: `Batch process all .txt statement exports in a directory.

Each file is parsed and categorized independently through a bounded worker
pool; one failing statement does not abort the others. Every successful
parse is written as <name>.json in the output directory.

Example:
  statement-core batch -u maria -b produbanco -i exports/ --out-dir parsed/`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Input directory with .txt exports")
	Cmd.Flags().StringVar(&outputDir, "out-dir", "", "Output directory for JSON statements")
	Cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (default from config)")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	if err := root.RequireUserAndBank(); err != nil {
		return err
	}
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("--input and --out-dir directories must be specified")
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	requests, err := collectRequests(inputDir)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		root.Log.Warn("No .txt files found in input directory")
		return nil
	}

	poolSize := workers
	if poolSize < 1 {
		poolSize = root.Cfg.Batch.Workers
	}
	root.Log.Info("Batch command called",
		logging.Field{Key: "files", Value: len(requests)},
		logging.Field{Key: "workers", Value: poolSize})

	results, err := root.GetContainer().Service.ProcessBatch(cmd.Context(), requests, poolSize)
	if err != nil {
		return err
	}

	converted := 0
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if err := writeResult(res); err != nil {
			root.Log.WithError(err).Error("Failed to write statement",
				logging.Field{Key: "name", Value: res.Name})
			continue
		}
		converted++
	}

	root.Log.Info(fmt.Sprintf("Batch processing completed. %d of %d statements converted.", converted, len(requests)))
	return nil
}

// collectRequests builds one request per .txt file in the directory.
func collectRequests(dir string) ([]service.BatchRequest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var requests []service.BatchRequest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path) // #nosec G304 -- CLI tool requires user-provided file paths
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		requests = append(requests, service.BatchRequest{
			Name:   strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			UserID: root.SharedFlags.User,
			Bank:   root.SharedFlags.Bank,
			Text:   string(data),
		})
	}
	return requests, nil
}

func writeResult(res service.BatchResult) error {
	outputPath := filepath.Join(outputDir, res.Name+".json")
	f, err := os.Create(outputPath) // #nosec G304 -- CLI tool requires user-provided output paths
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			root.Log.WithError(cerr).Warn("Failed to close output file")
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Result.Statement)
}
