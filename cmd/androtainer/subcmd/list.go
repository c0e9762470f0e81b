package subcmd

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/dokeraj/androtainer/kernel/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	register(NewListCommand)
}

func NewListCommand(options *GlobalOptions) *cobra.Command {
	listCmd := &ListCommand{options: options}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all containers on the endpoint",
		Args:    cobra.NoArgs,
		RunE:    listCmd.run,
	}

	cmd.Flags().BoolVar(&listCmd.Json, "json", false, "print the list as JSON")
	cmd.Flags().DurationVar(&listCmd.Timeout, "timeout", 30*time.Second, "request timeout")

	return cmd
}

type ListCommand struct {
	options *GlobalOptions
	Json    bool
	Timeout time.Duration
}

func (l *ListCommand) run(cmd *cobra.Command, _ []string) error {
	rt, err := l.options.runtime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(cmd, l.Timeout)
	defer cancel()

	snapshot, err := rt.Load(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if l.Json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	}
	render.Table(out, snapshot, isTerminal(out))
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
