package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/takt/internal/compiler"
)

// ValidationIssue is one problem found in a network definition.
type ValidationIssue struct {
	Position string `json:"position,omitempty"` // file:line:col when known
	Message  string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Nodes  int               `json:"nodes,omitempty"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <network-dir>",
		Short: "Validate a network definition without simulating",
		Long: `Validate a CUE network definition.

Compiles the definition and runs full graph validation (duplicate ids,
dangling edges, malformed node data), reporting every problem found.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, networkDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := compiler.LoadNetwork(networkDir, compiler.LoadModeCollectAll)
	if loadResult != nil {
		formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, networkDir)
	}

	result := ValidationResult{Valid: len(loadErrors) == 0}
	if loadResult != nil {
		result.Files = loadResult.FileCount
		if loadResult.Graph != nil {
			result.Nodes = loadResult.Graph.NodeCount()
		}
	}
	for _, err := range loadErrors {
		result.Issues = append(result.Issues, toIssue(err))
	}

	if !result.Valid {
		if opts.Format == "json" {
			if err := formatter.Success(result); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Invalid: %d issue(s)\n", len(result.Issues))
			for _, issue := range result.Issues {
				if issue.Position != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", issue.Position, issue.Message)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue.Message)
				}
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation issue(s)", len(result.Issues)))
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %d node(s) across %d file(s)\n", result.Nodes, result.Files)
	return nil
}

// toIssue flattens load/compile errors into a printable issue.
func toIssue(err error) ValidationIssue {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) && compileErr.Pos.IsValid() {
		return ValidationIssue{
			Position: fmt.Sprintf("%s:%d:%d", compileErr.Pos.Filename(), compileErr.Pos.Line(), compileErr.Pos.Column()),
			Message:  fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
		}
	}
	return ValidationIssue{Message: err.Error()}
}
