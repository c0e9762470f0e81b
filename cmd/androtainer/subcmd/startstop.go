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
	register(func(options *GlobalOptions) *cobra.Command { return NewStartStopCommand(options, engine.Start) })
	register(func(options *GlobalOptions) *cobra.Command { return NewStartStopCommand(options, engine.Stop) })
}

func NewStartStopCommand(options *GlobalOptions, direction engine.Direction) *cobra.Command {
	ssCmd := &StartStopCommand{options: options, Direction: direction}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <container>", direction),
		Short: fmt.Sprintf("%s a container by id, id prefix, name or list index", direction),
		Args:  cobra.ExactArgs(1),
		RunE:  ssCmd.run,
	}

	cmd.Flags().DurationVar(&ssCmd.Timeout, "timeout", 60*time.Second, "request timeout")

	return cmd
}

type StartStopCommand struct {
	options   *GlobalOptions
	Direction engine.Direction
	Timeout   time.Duration
}

func (s *StartStopCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := s.options.runtime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(cmd, s.Timeout)
	defer cancel()

	snapshot, err := rt.Load(ctx)
	if err != nil {
		return err
	}
	index, err := Resolve(snapshot, args[0])
	if err != nil {
		return err
	}

	done, err := rt.Engine.Dispatch(ctx, engine.StartStop{Session: rt.Session, Index: index, Id: snapshot[index].Id, Direction: s.Direction})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", snapshot[index].Name, provisional(s.Direction))

	o, err := await(ctx, done)
	if err != nil {
		return err
	}
	switch out := o.(type) {
	case engine.ItemSuccess:
		r := out.Snapshot[out.Index]
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Name, r.Status)
		return nil
	case engine.ItemError:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Message(out, ""))
		return errors.Wrapf(out.Cause, "unable to %s %s", s.Direction, snapshot[index].Name)
	default:
		return errors.Errorf("unexpected outcome [%s]", o.Kind())
	}
}

func provisional(direction engine.Direction) string {
	if direction == engine.Start {
		return engine.StatusStarting
	}
	return engine.StatusExiting
}
