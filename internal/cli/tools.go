package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alif/naia/pkg/apitools"
	"github.com/alif/naia/pkg/toolexecutor"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools available to the agent",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	executor := toolexecutor.New()
	client := apitools.NewClient(apitools.Options{})
	if err := apitools.RegisterAPITools(executor, client); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, name := range executor.ListTools() {
		printTool(out, executor.GetTool(name))
	}
	return nil
}

func printTool(out io.Writer, def *toolexecutor.ToolDefinition) {
	if def == nil {
		return
	}

	fmt.Fprintf(out, "%s\n  %s\n", def.Name, def.Description)
	for _, param := range def.Parameters {
		required := "optional"
		if param.Required {
			required = "required"
		}
		fmt.Fprintf(out, "  - %s (%s, %s): %s\n", param.Name, param.Type, required, param.Description)
	}
	fmt.Fprintln(out)
}
