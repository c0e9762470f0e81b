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
	"time"

	"github.com/dokeraj/androtainer/kernel/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	register(NewMCPServerCommand)
}

func NewMCPServerCommand(options *GlobalOptions) *cobra.Command {
	mcpCmd := &MCPServerCommand{options: options}

	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Start MCP server for AI-driven container management",
		Long: `Start an MCP (Model Context Protocol) server on stdio that exposes the
containers of the selected profile to AI assistants.

The server provides tools for:
  - list_containers: Refresh and list all containers
  - get_container: Show details of a container
  - start_container: Start a container
  - stop_container: Stop a container
  - delete_container: Force-remove a container

And resources:
  - androtainer://snapshot: The current container list`,
		Args: cobra.NoArgs,
		RunE: mcpCmd.run,
	}

	cmd.Flags().BoolVar(&mcpCmd.Lazy, "lazy", false, "do not load the container list before serving")
	cmd.Flags().DurationVar(&mcpCmd.Timeout, "timeout", 30*time.Second, "timeout for the initial load")

	return cmd
}

type MCPServerCommand struct {
	options *GlobalOptions
	Lazy    bool
	Timeout time.Duration
}

func (m *MCPServerCommand) run(cmd *cobra.Command, _ []string) error {
	rt, err := m.options.runtime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !m.Lazy {
		ctx, cancel := commandContext(cmd, m.Timeout)
		snapshot, err := rt.Load(ctx)
		cancel()
		if err != nil {
			logrus.WithError(err).Warn("initial load failed, serving an empty snapshot")
		} else {
			logrus.Infof("loaded %d container(s) from profile [%s]", len(snapshot), rt.ProfileName)
		}
	}

	logrus.Info("starting MCP server on stdio...")
	server := mcp.NewContainerMCPServer(rt.Engine, rt.Session, Version)
	return server.ServeStdio()
}
