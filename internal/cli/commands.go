package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/pkg/ai"
)

func newEvaluateCmd(app *App) *cobra.Command {
	var configPath string
	var files []string
	var save bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run a full evaluation and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfigFile(configPath)
			if err != nil {
				return err
			}
			uploaded, err := app.readFiles(cmd, files)
			if err != nil {
				return err
			}

			evaluator, err := app.NewEvaluator()
			if err != nil {
				return err
			}
			partial, err := evaluator.Evaluate(cmd.Context(), cfg, uploaded)
			if err != nil {
				return err
			}

			assembler := app.Assembler
			if assembler == nil {
				assembler = ai.NewAssembler(nil)
			}
			report := assembler.Finalize(partial)

			if save {
				reports, closeFn, err := app.OpenReports(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()
				if err := reports.Record(cmd.Context(), report); err != nil {
					return fmt.Errorf("saving report: %w", err)
				}
			}

			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the evaluation config JSON")
	cmd.Flags().StringArrayVar(&files, "file", nil, "Project file to include (repeatable)")
	cmd.Flags().BoolVar(&save, "save", false, "Record the report in the local history")
	return cmd
}

func newPromptCmd(app *App) *cobra.Command {
	var configPath string
	var files []string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfigFile(configPath)
			if err != nil {
				return err
			}
			uploaded, err := app.readFiles(cmd, files)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), ai.ComposePrompt(cfg, uploaded))
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the evaluation config JSON")
	cmd.Flags().StringArrayVar(&files, "file", nil, "Project file to include (repeatable)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	var originality bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the structured-output schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), ai.BuildSchema(originality))
		},
	}

	cmd.Flags().BoolVar(&originality, "originality", false, "Include the originality report property")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List disciplines, default criteria and academic levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), service.Catalog())
		},
	}
}

func newReportsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List saved reports, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, closeFn, err := app.OpenReports(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			history, err := reports.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewReportSummaries(history))
		},
	}
}
