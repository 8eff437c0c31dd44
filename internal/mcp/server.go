// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

// Package mcp exposes the reason shell as an MCP server, so agents can run
// command lines against the same paper store as the interactive shell.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marcelocantos/reason/internal/command"
)

const (
	serverName = "reason"

	toolExecute  = "reason_execute"
	toolCommands = "reason_commands"
)

// Session runs command lines. *shell.Session satisfies it.
type Session interface {
	Execute(ctx context.Context, line string) (string, error)
	Registry() *command.Registry
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *server.MCPServer
}

// ExecuteInput is the argument of the reason_execute tool.
type ExecuteInput struct {
	Line string `json:"line"`
}

// New creates an MCP server whose tools run against sess.
func New(sess Session, version string) *Server {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
	)
	s.AddTool(executeTool(), executeHandler(sess))
	s.AddTool(commandsTool(), commandsHandler(sess.Registry()))
	return &Server{mcpServer: s}
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve() error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func executeTool() mcp.Tool {
	return mcp.NewTool(
		toolExecute,
		mcp.WithDescription("Run one reason command line, e.g. \"ls by Chung | tag energy\". "+
			"Commands are chained with |; quote arguments with '...'. "+
			"Call reason_commands for the list of commands."),
		mcp.WithString("line",
			mcp.Required(),
			mcp.Description("The command line to run"),
		),
	)
}

func executeHandler(sess Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input ExecuteInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
		}
		if strings.TrimSpace(input.Line) == "" {
			return mcp.NewToolResultError("line must not be empty"), nil
		}

		out, err := sess.Execute(ctx, input.Line)
		if errors.Is(err, command.ErrExitRequested) {
			return mcp.NewToolResultError("exit and quit are not available over MCP"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func commandsTool() mcp.Tool {
	return mcp.NewTool(
		toolCommands,
		mcp.WithDescription("List the commands reason_execute accepts, with usage"),
	)
}

func commandsHandler(reg *command.Registry) server.ToolHandlerFunc {
	return func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var b strings.Builder
		for _, c := range reg.All() {
			fmt.Fprintf(&b, "%s: %s\n", strings.TrimSpace(c.Name()+" "+c.Usage()), c.Description())
		}
		return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
	}
}
