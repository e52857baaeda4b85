package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/druidq/internal/condition"
	"github.com/roach88/druidq/internal/filter"
	"github.com/roach88/druidq/internal/loader"
)

// PlanValidation holds validation results.
type PlanValidation struct {
	Plan     string   `json:"plan"`
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <plan>",
		Short: "Check the filter a plan builds",
		Long: `Build the filter described by a plan and report anything Druid is likely
to reject or that matches nothing: javascript without javascript enabled,
empty in or search lists, malformed spatial bounds.

Exits 1 when there are warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	plan, err := loader.LoadFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoadFailed, "failed to load plan", err)
	}

	b := condition.New(condition.WithLogger(opts.logger()))
	if err := plan.Apply(b); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidStep, "failed to build filter", err)
	}

	result := filter.Validate(b.Filter())
	out := PlanValidation{Plan: plan.Name, Valid: result.Clean, Warnings: result.Warnings}

	if formatter.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else if result.Clean {
		fmt.Fprintf(formatter.Writer, "✓ Plan %s valid\n", plan.Name)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ Plan %s has %d warning(s)\n", plan.Name, len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(formatter.Writer, "  %s\n", w)
		}
	}

	if !result.Clean {
		// Warnings = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation produced %d warning(s)", len(result.Warnings)))
	}
	return nil
}
