package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/druidq/internal/store"
)

// SavedView is the JSON form of a saved filter.
type SavedView struct {
	Name    string          `json:"name"`
	Version int             `json:"version"`
	Hash    string          `json:"hash"`
	Filter  json.RawMessage `json:"filter,omitempty"`
}

func newSavedView(f store.SavedFilter, withFilter bool) SavedView {
	v := SavedView{Name: f.Name, Version: f.Version, Hash: f.Hash}
	if withFilter {
		v.Filter = json.RawMessage(f.JSON)
	}
	return v
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	DB       string
	Versions bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:           "show <name>",
		Short:         "Print a saved filter",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "registry database path (required)")
	cmd.Flags().BoolVar(&opts.Versions, "versions", false, "print every saved version")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(rootOpts *RootOptions, opts *ShowOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  rootOpts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: rootOpts.Verbose,
	}

	s, err := store.Open(opts.DB, store.WithLogger(rootOpts.logger()))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer s.Close()

	var saved []store.SavedFilter
	if opts.Versions {
		saved, err = s.FilterVersions(cmd.Context(), name)
		if err == nil && len(saved) == 0 {
			err = fmt.Errorf("filter versions %q: %w", name, store.ErrNotFound)
		}
	} else {
		var f store.SavedFilter
		f, err = s.GetFilter(cmd.Context(), name)
		saved = []store.SavedFilter{f}
	}
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no filter saved as %q", name), err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read filter", err)
	}

	if formatter.Format == "json" {
		views := make([]SavedView, len(saved))
		for i, f := range saved {
			views[i] = newSavedView(f, true)
		}
		if opts.Versions {
			return formatter.Success(views)
		}
		return formatter.Success(views[0])
	}

	for _, f := range saved {
		value, err := f.Value()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "stored filter is corrupt", err)
		}
		data, err := indentJSON(value)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to marshal filter", err)
		}
		fmt.Fprintf(formatter.Writer, "# %s version %d %s\n", f.Name, f.Version, f.Hash)
		fmt.Fprintln(formatter.Writer, string(data))
	}
	return nil
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	DB string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved filters",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "registry database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(rootOpts *RootOptions, opts *ListOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  rootOpts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: rootOpts.Verbose,
	}

	s, err := store.Open(opts.DB, store.WithLogger(rootOpts.logger()))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer s.Close()

	saved, err := s.ListFilters(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to list filters", err)
	}

	if formatter.Format == "json" {
		views := make([]SavedView, len(saved))
		for i, f := range saved {
			views[i] = newSavedView(f, false)
		}
		return formatter.Success(views)
	}

	if len(saved) == 0 {
		fmt.Fprintln(formatter.Writer, "No saved filters")
		return nil
	}
	for _, f := range saved {
		fmt.Fprintf(formatter.Writer, "%s\tv%d\t%s\n", f.Name, f.Version, f.Hash)
	}
	return nil
}
