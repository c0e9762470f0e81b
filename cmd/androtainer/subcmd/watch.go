package subcmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dokeraj/androtainer/kernel/engine"
	"github.com/dokeraj/androtainer/kernel/metrics"
	"github.com/dokeraj/androtainer/kernel/render"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	register(NewWatchCommand)
}

func NewWatchCommand(options *GlobalOptions) *cobra.Command {
	watchCmd := &WatchCommand{options: options}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh periodically and print every state change",
		Long: `Refresh the container list on an interval and print each outcome as it is
emitted. Refreshes are skipped while a start or stop is still in flight.

With --metrics, every outcome is also written to the InfluxDB server from
the metrics section of the config.`,
		Args: cobra.NoArgs,
		RunE: watchCmd.run,
	}

	cmd.Flags().DurationVarP(&watchCmd.Interval, "interval", "i", 5*time.Second, "refresh interval")
	cmd.Flags().DurationVar(&watchCmd.For, "for", 0, "stop after this long (default: until interrupted)")
	cmd.Flags().BoolVar(&watchCmd.Metrics, "metrics", false, "write outcomes to the configured InfluxDB")

	return cmd
}

type WatchCommand struct {
	options  *GlobalOptions
	Interval time.Duration
	For      time.Duration
	Metrics  bool
}

func (w *WatchCommand) run(cmd *cobra.Command, _ []string) error {
	if w.Interval <= 0 {
		return errors.New("interval must be positive")
	}

	rt, err := w.options.runtime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := signal.NotifyContext(commandBase(cmd), os.Interrupt)
	defer cancel()
	if w.For > 0 {
		var cancelFor context.CancelFunc
		ctx, cancelFor = context.WithTimeout(ctx, w.For)
		defer cancelFor()
	}

	if w.Metrics {
		sink, err := metrics.NewInfluxSink(w.options.config.Metrics, rt.ProfileName)
		if err != nil {
			return err
		}
		detach := sink.Attach(rt.Engine)
		defer sink.Close()
		defer detach()
	}

	updates := rt.Engine.Updates(ctx)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for o := range updates {
			printOutcome(cmd.OutOrStdout(), o)
		}
	}()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		if _, dispatched, err := rt.Engine.Refresh(ctx, rt.Session); err != nil {
			return err
		} else if !dispatched {
			pfxlog.Logger().Debug("skipping refresh, operations in flight")
		}

		select {
		case <-ctx.Done():
			rt.Engine.Wait()
			<-printed
			return nil
		case <-ticker.C:
		}
	}
}

func printOutcome(out io.Writer, o engine.Outcome) {
	line := fmt.Sprintf("%s %-14s", time.Now().Format("15:04:05"), o.Kind())
	if snapshot, ok := engine.SnapshotOf(o); ok {
		line += " " + render.StatsOf(snapshot).String()
	}
	if msg := render.Message(o, ""); msg != "" {
		line += "  " + msg
	}
	_, _ = fmt.Fprintln(out, line)
}

func commandBase(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
