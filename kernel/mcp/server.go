package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dokeraj/androtainer/kernel/engine"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/dokeraj/androtainer/kernel/render"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
)

const SnapshotURI = "androtainer://snapshot"

type ContainerMCPServer struct {
	server  *server.MCPServer
	engine  *engine.Engine
	session model.Session
}

func NewContainerMCPServer(e *engine.Engine, sess model.Session, version string) *ContainerMCPServer {
	srv := server.NewMCPServer(
		"Androtainer",
		version,
		server.WithResourceCapabilities(true, true),
		server.WithToolCapabilities(true),
	)

	cs := &ContainerMCPServer{
		server:  srv,
		engine:  e,
		session: sess,
	}

	cs.registerTools()
	cs.registerResources()

	return cs
}

func (cs *ContainerMCPServer) ServeStdio() error {
	return server.ServeStdio(cs.server)
}

func (cs *ContainerMCPServer) registerTools() {
	cs.server.AddTool(mcp.NewTool("list_containers",
		mcp.WithDescription("Refresh and list all containers on the endpoint"),
	), cs.listContainersHandler)

	cs.server.AddTool(mcp.NewTool("get_container",
		mcp.WithDescription("Show details of one container as markdown"),
		mcp.WithString("container",
			mcp.Description("Container id, unique id prefix or name"),
			mcp.Required(),
		),
	), cs.getContainerHandler)

	cs.server.AddTool(mcp.NewTool("start_container",
		mcp.WithDescription("Start a stopped container"),
		mcp.WithString("container",
			mcp.Description("Container id, unique id prefix or name"),
			mcp.Required(),
		),
	), cs.startStopHandler(engine.Start))

	cs.server.AddTool(mcp.NewTool("stop_container",
		mcp.WithDescription("Stop a running container"),
		mcp.WithString("container",
			mcp.Description("Container id, unique id prefix or name"),
			mcp.Required(),
		),
	), cs.startStopHandler(engine.Stop))

	cs.server.AddTool(mcp.NewTool("delete_container",
		mcp.WithDescription("Force-remove a container and its anonymous volumes"),
		mcp.WithString("container",
			mcp.Description("Container id, unique id prefix or name"),
			mcp.Required(),
		),
	), cs.deleteContainerHandler)
}

func (cs *ContainerMCPServer) registerResources() {
	resource := mcp.NewResource(SnapshotURI, "Container Snapshot",
		mcp.WithResourceDescription("The client's current view of all containers"),
		mcp.WithMIMEType("application/json"),
	)
	cs.server.AddResource(resource, cs.snapshotHandler)
}

type listResponse struct {
	Count      int                     `json:"count"`
	Running    int                     `json:"running"`
	Stopped    int                     `json:"stopped"`
	Busy       bool                    `json:"busy"`
	Containers []model.ContainerRecord `json:"containers"`
}

func newListResponse(s model.Snapshot) listResponse {
	stats := render.StatsOf(s)
	return listResponse{
		Count:      stats.Total,
		Running:    stats.Running,
		Stopped:    stats.Stopped,
		Busy:       stats.Busy,
		Containers: s,
	}
}

func (cs *ContainerMCPServer) listContainersHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done, dispatched, err := cs.engine.Refresh(ctx, cs.session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if dispatched {
		o, err := await(ctx, done)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if _, failed := o.(engine.Error); failed {
			return mcp.NewToolResultError(render.MsgSessionInvalid), nil
		}
	}
	return jsonResult(newListResponse(cs.engine.Snapshot()))
}

func (cs *ContainerMCPServer) getContainerHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, _, errResult := cs.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(render.Details(record)), nil
}

func (cs *ContainerMCPServer) startStopHandler(direction engine.Direction) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		record, index, errResult := cs.lookup(request)
		if errResult != nil {
			return errResult, nil
		}

		done, err := cs.engine.Dispatch(ctx, engine.StartStop{Session: cs.session, Index: index, Id: record.Id, Direction: direction})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		o, err := await(ctx, done)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		switch out := o.(type) {
		case engine.ItemSuccess:
			return jsonResult(out.Snapshot[out.Index])
		case engine.ItemError:
			return mcp.NewToolResultError(fmt.Sprintf("%s %s failed: %v", direction, record.Name, out.Cause)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unexpected outcome '%s'", o.Kind())), nil
		}
	}
}

func (cs *ContainerMCPServer) deleteContainerHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, _, errResult := cs.lookup(request)
	if errResult != nil {
		return errResult, nil
	}

	done, err := cs.engine.Dispatch(ctx, engine.Delete{Session: cs.session, Target: record})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	o, err := await(ctx, done)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch out := o.(type) {
	case engine.DeleteSuccess:
		return mcp.NewToolResultText(render.Message(out, record.Name)), nil
	case engine.Error:
		return mcp.NewToolResultError(render.DeleteFailed(record.Name, out.Cause)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unexpected outcome '%s'", o.Kind())), nil
	}
}

func (cs *ContainerMCPServer) snapshotHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(newListResponse(cs.engine.Snapshot()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SnapshotURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (cs *ContainerMCPServer) lookup(request mcp.CallToolRequest) (model.ContainerRecord, int, *mcp.CallToolResult) {
	ref, err := request.RequireString("container")
	if err != nil {
		return model.ContainerRecord{}, -1, mcp.NewToolResultError("container argument is required")
	}
	snapshot := cs.engine.Snapshot()
	index, found := snapshot.Lookup(ref)
	if !found {
		return model.ContainerRecord{}, -1, mcp.NewToolResultError(fmt.Sprintf("container '%s' not found, try list_containers", ref))
	}
	return snapshot[index], index, nil
}

// await waits for an intent to resolve. A closed channel means a newer
// operation superseded it.
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

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
