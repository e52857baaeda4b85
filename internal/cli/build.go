package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/druidq/internal/condition"
	"github.com/roach88/druidq/internal/filter"
	"github.com/roach88/druidq/internal/filtersql"
	"github.com/roach88/druidq/internal/ir"
	"github.com/roach88/druidq/internal/loader"
	"github.com/roach88/druidq/internal/query"
	"github.com/roach88/druidq/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	Output string
	Query  bool
	SQL    bool
	DB     string
	Save   string
}

// BuildResult is the JSON payload of a successful build.
type BuildResult struct {
	Name     string          `json:"name"`
	Hash     string          `json:"hash"` // Filter content hash
	Document json.RawMessage `json:"document"`
	SQL      string          `json:"sql,omitempty"`
	Params   []any           `json:"params,omitempty"`
	Saved    *SavedInfo      `json:"saved,omitempty"`
}

// SavedInfo identifies the stored version after --db.
type SavedInfo struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build <plan>",
		Short: "Build the Druid filter described by a plan",
		Long: `Build the Druid filter described by a YAML or CUE plan and print its JSON.

With --query the complete scan query is printed instead. With --sql the
filter is also rendered as a parameterized Druid SQL WHERE fragment.
With --db the filter is saved in the registry under --save, or under the
plan name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the document to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.Query, "query", false, "print the complete scan query")
	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "also render the filter as Druid SQL")
	cmd.Flags().StringVar(&opts.DB, "db", "", "save the filter in this registry database")
	cmd.Flags().StringVar(&opts.Save, "save", "", "name to save the filter under (default: plan name)")

	return cmd
}

func runBuild(rootOpts *RootOptions, opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  rootOpts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: rootOpts.Verbose,
	}
	logger := rootOpts.logger()

	if opts.Save != "" && opts.DB == "" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--save requires --db", nil)
	}

	plan, err := loader.LoadFile(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoadFailed, "failed to load plan", err)
	}
	logger.Debug("plan loaded", "path", path, "name", plan.Name, "steps", len(plan.Where))

	var (
		node filter.Node
		doc  ir.IRObject
	)
	if opts.Query {
		q, err := plan.Query(query.WithLogger(logger))
		if err != nil {
			return formatter.Fail(ExitCommandError, stepErrorCode(err), "failed to build query", err)
		}
		doc, err = q.ToIR()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeQuery, "failed to render query", err)
		}
		node = q.Filters().Filter()
	} else {
		b := condition.New(condition.WithLogger(logger))
		if err := plan.Apply(b); err != nil {
			return formatter.Fail(ExitCommandError, stepErrorCode(err), "failed to build filter", err)
		}
		node = b.Filter()
		if node != nil {
			doc = node.ToIR()
		}
	}
	if node == nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidStep, "plan produced no filter", nil)
	}

	hash, err := filter.Hash(node)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to hash filter", err)
	}
	data, err := indentJSON(doc)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to marshal document", err)
	}

	result := BuildResult{Name: plan.Name, Hash: hash, Document: json.RawMessage(data)}

	if opts.SQL {
		sql, params, err := filtersql.NewCompiler().Compile(node)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeSQL, "failed to render SQL", err)
		}
		result.SQL, result.Params = sql, params
	}

	if opts.DB != "" {
		name := opts.Save
		if name == "" {
			name = plan.Name
		}
		s, err := store.Open(opts.DB, store.WithLogger(logger))
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
		}
		defer s.Close()

		saved, err := s.SaveFilter(cmd.Context(), name, node)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to save filter", err)
		}
		result.Saved = &SavedInfo{Name: saved.Name, Version: saved.Version}
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0o644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write output", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if opts.Output == "" {
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "✓ Wrote %s\n", opts.Output)
	}
	if opts.SQL {
		fmt.Fprintf(w, "SQL: %s\n", result.SQL)
		fmt.Fprintf(w, "Params: %v\n", result.Params)
	}
	if result.Saved != nil {
		fmt.Fprintf(w, "✓ Saved %s version %d\n", result.Saved.Name, result.Saved.Version)
	}
	return nil
}

// stepErrorCode separates bad plan steps from other build failures.
func stepErrorCode(err error) string {
	if loader.IsStepError(err) {
		return ErrCodeInvalidStep
	}
	return ErrCodeQuery
}

// indentJSON renders v with sorted keys, indented by two spaces.
func indentJSON(v ir.IRValue) ([]byte, error) {
	data, err := ir.MarshalSorted(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
