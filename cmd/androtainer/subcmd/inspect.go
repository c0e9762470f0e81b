package subcmd

import (
	"fmt"
	"time"

	"github.com/dokeraj/androtainer/kernel/render"
	"github.com/spf13/cobra"
)

func init() {
	register(NewInspectCommand)
}

func NewInspectCommand(options *GlobalOptions) *cobra.Command {
	inspectCmd := &InspectCommand{options: options}

	cmd := &cobra.Command{
		Use:   "inspect <container>",
		Short: "Show container details as markdown, or a single field",
		Example: `  androtainer inspect web
  androtainer inspect web --field '$.ports[0].publicPort'`,
		Args: cobra.ExactArgs(1),
		RunE: inspectCmd.run,
	}

	cmd.Flags().StringVarP(&inspectCmd.Field, "field", "f", "", "jsonpath expression to print instead of details")
	cmd.Flags().DurationVar(&inspectCmd.Timeout, "timeout", 30*time.Second, "request timeout")

	return cmd
}

type InspectCommand struct {
	options *GlobalOptions
	Field   string
	Timeout time.Duration
}

func (i *InspectCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := i.options.runtime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(cmd, i.Timeout)
	defer cancel()

	snapshot, err := rt.Load(ctx)
	if err != nil {
		return err
	}
	index, err := Resolve(snapshot, args[0])
	if err != nil {
		return err
	}

	if i.Field != "" {
		v, err := render.Field(snapshot[index], i.Field)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), render.Details(snapshot[index]))
	return nil
}
