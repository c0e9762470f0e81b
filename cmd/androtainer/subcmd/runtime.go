package subcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dokeraj/androtainer/kernel/engine"
	"github.com/dokeraj/androtainer/kernel/gateway"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/dokeraj/androtainer/kernel/store"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Runtime is the engine and session a command works against.
type Runtime struct {
	ProfileName string
	Profile     *model.ProfileConfig
	Session     model.Session
	Gateway     gateway.Gateway
	Engine      *engine.Engine
}

func (o *GlobalOptions) runtime(cmd *cobra.Command) (*Runtime, error) {
	name, profile, err := o.profile()
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(profile)
	if err != nil {
		return nil, err
	}

	token := ""
	if profile.Backend == "" || profile.Backend == gateway.DefaultBackend {
		if token, err = resolveToken(o.Token, profile.TokenEnv, cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
			return nil, err
		}
	}

	rt := &Runtime{
		ProfileName: name,
		Profile:     profile,
		Session:     profile.Session(token),
		Gateway:     gw,
		Engine:      engine.NewEngine(gw, store.NewMemoryStore(), engine.OptionsFromConfig(o.config)),
	}
	pfxlog.Logger().WithField("profile", name).Debugf("using session [%s]", rt.Session)
	return rt, nil
}

func (rt *Runtime) Close() {
	rt.Engine.Close()
	if closer, ok := rt.Gateway.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			pfxlog.Logger().WithError(err).Warn("error closing gateway")
		}
	}
}

// Load fetches the container list and fails if the server could not be read.
func (rt *Runtime) Load(ctx context.Context) (model.Snapshot, error) {
	done, err := rt.Engine.Dispatch(ctx, engine.ListAll{Session: rt.Session})
	if err != nil {
		return nil, err
	}
	o, err := await(ctx, done)
	if err != nil {
		return nil, err
	}
	if out, failed := o.(engine.Error); failed {
		return nil, errors.Wrap(out.Cause, "unable to list containers")
	}
	return rt.Engine.Snapshot(), nil
}

// Resolve finds a container by id, unique id prefix, name or list index.
func Resolve(s model.Snapshot, ref string) (int, error) {
	if i, found := s.Lookup(ref); found {
		return i, nil
	}
	if index, err := strconv.Atoi(ref); err == nil {
		if index >= 0 && index < len(s) {
			return index, nil
		}
		return -1, errors.Errorf("index %d out of range (%d containers)", index, len(s))
	}
	return -1, errors.Errorf("container [%s] not found", ref)
}

func await(ctx context.Context, done <-chan engine.Outcome) (engine.Outcome, error) {
	select {
	case o, ok := <-done:
		if !ok {
			return nil, errors.New("superseded by a newer operation")
		}
		return o, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := commandBase(cmd)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// resolveToken returns the flag value, then the named environment variable,
// then prompts without echo when in is a terminal.
func resolveToken(flag, envName string, in io.Reader, out io.Writer) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if envName != "" {
		if token := os.Getenv(envName); token != "" {
			return token, nil
		}
	}

	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no token: use --token or set the profile's token_env")
	}
	_, _ = fmt.Fprint(out, "Token: ")
	token, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", errors.Wrap(err, "unable to read token")
	}
	return strings.TrimSpace(string(token)), nil
}

// confirm asks a yes/no question on in; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
