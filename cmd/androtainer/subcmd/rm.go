package subcmd

import (
	"fmt"
	"time"

	"github.com/dokeraj/androtainer/kernel/engine"
	"github.com/dokeraj/androtainer/kernel/render"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	register(NewRemoveCommand)
}

func NewRemoveCommand(options *GlobalOptions) *cobra.Command {
	rmCmd := &RemoveCommand{options: options}

	cmd := &cobra.Command{
		Use:     "rm <container>",
		Aliases: []string{"delete"},
		Short:   "Force-remove a container and its anonymous volumes",
		Args:    cobra.ExactArgs(1),
		RunE:    rmCmd.run,
	}

	cmd.Flags().BoolVarP(&rmCmd.Yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().DurationVar(&rmCmd.Timeout, "timeout", 60*time.Second, "request timeout")

	return cmd
}

type RemoveCommand struct {
	options *GlobalOptions
	Yes     bool
	Timeout time.Duration
}

func (r *RemoveCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := r.options.runtime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(cmd, r.Timeout)
	defer cancel()

	snapshot, err := rt.Load(ctx)
	if err != nil {
		return err
	}
	index, err := Resolve(snapshot, args[0])
	if err != nil {
		return err
	}
	target := snapshot[index]

	if !r.Yes && !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Remove container %s (%s)?", target.Name, render.ShortId(target.Id))) {
		return errors.New("aborted")
	}

	done, err := rt.Engine.Dispatch(ctx, engine.Delete{Session: rt.Session, Target: target})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), render.Message(engine.DeleteLoading{Target: target}, ""))

	o, err := await(ctx, done)
	if err != nil {
		return err
	}
	switch out := o.(type) {
	case engine.DeleteSuccess:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Message(out, target.Name))
		return nil
	case engine.Error:
		return errors.New(render.DeleteFailed(target.Name, out.Cause))
	default:
		return errors.Errorf("unexpected outcome [%s]", o.Kind())
	}
}
