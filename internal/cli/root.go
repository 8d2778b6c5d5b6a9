package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/pkg/ai"
)

// App holds the collaborators used by CLI commands. Model and store access are
// opened lazily so offline commands need no credential or database.
type App struct {
	Encoder      service.UploadEncoder
	Assembler    *ai.Assembler
	NewEvaluator func() (service.Evaluator, error)
	OpenReports  func(ctx context.Context) (service.ReportService, func(), error)
}

// NewRootCmd creates the top-level "asapctl" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "asapctl",
		Short:         "Evaluate academic projects with a generative model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newEvaluateCmd(app),
		newPromptCmd(app),
		newSchemaCmd(),
		newCatalogCmd(),
		newReportsCmd(app),
	)

	return root
}

func readConfigFile(path string) (ai.EvaluationConfig, error) {
	if path == "" {
		return ai.EvaluationConfig{}, fmt.Errorf("--config is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ai.EvaluationConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg ai.EvaluationConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return ai.EvaluationConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func (app *App) readFiles(cmd *cobra.Command, paths []string) ([]ai.UploadedFile, error) {
	files := make([]ai.UploadedFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		file, err := app.Encoder.Encode(cmd.Context(), filepath.Base(path), "", content)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func writeJSON(w io.Writer, value interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
