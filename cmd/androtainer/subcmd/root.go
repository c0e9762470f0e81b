/*
	(c) Copyright NetFoundry Inc. Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

	https://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package subcmd

import (
	"github.com/dokeraj/androtainer/kernel/loader"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Profile    string
	Token      string
	LogLevel   string
	BaseURL    string
	EndpointId int
	Backend    string

	config *model.Config
}

var subcommands []func(*GlobalOptions) *cobra.Command

func register(factory func(*GlobalOptions) *cobra.Command) {
	subcommands = append(subcommands, factory)
}

func Execute() error {
	return NewRootCommand().Execute()
}

func NewRootCommand() *cobra.Command {
	options := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:               "androtainer",
		Short:             "Manage the containers behind a Portainer endpoint",
		SilenceUsage:      true,
		PersistentPreRunE: options.init,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&options.ConfigPath, "config", "c", "", "path to config file (default $HOME/.androtainer/config.yml)")
	flags.StringVarP(&options.Profile, "profile", "p", "", "profile to use (default: current profile)")
	flags.StringVar(&options.Token, "token", "", "API token (default: profile token_env, then prompt)")
	flags.StringVar(&options.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&options.BaseURL, "url", "", "server url, overrides the profile")
	flags.IntVar(&options.EndpointId, "endpoint", 0, "endpoint id, overrides the profile")
	flags.StringVar(&options.Backend, "backend", "", "gateway backend, overrides the profile")

	for _, factory := range subcommands {
		cmd.AddCommand(factory(options))
	}
	return cmd
}

func (o *GlobalOptions) init(cmd *cobra.Command, _ []string) error {
	path := o.ConfigPath
	if path == "" {
		var err error
		if path, err = model.ConfigPath(); err != nil {
			return err
		}
	}
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		return err
	}
	o.config = cfg

	levelName := o.LogLevel
	if levelName == "" {
		levelName = cfg.LogLevel
	}
	level := logrus.InfoLevel
	if levelName != "" {
		if level, err = logrus.ParseLevel(levelName); err != nil {
			return errors.Wrap(err, "invalid log level")
		}
	}
	pfxlog.GlobalInit(level, pfxlog.DefaultOptions().SetTrimPrefix("github.com/dokeraj/"))
	logrus.SetOutput(cmd.ErrOrStderr())
	return nil
}

// profile merges the selected profile with command line overrides.
func (o *GlobalOptions) profile() (string, *model.ProfileConfig, error) {
	merged := &model.ProfileConfig{}
	name := o.Profile
	if name != "" || o.config.Current != "" {
		p, err := o.config.GetProfile(name)
		if err != nil {
			return "", nil, err
		}
		if name == "" {
			name = o.config.Current
		}
		*merged = *p
	}

	if o.BaseURL != "" {
		merged.BaseURL = o.BaseURL
	}
	if o.EndpointId != 0 {
		merged.EndpointId = o.EndpointId
	}
	if o.Backend != "" {
		merged.Backend = o.Backend
	}
	if name == "" {
		name = "default"
	}
	return name, merged, nil
}
