// Package mcp exposes the note store as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/dirnotes/internal/buildinfo"
	"github.com/go-ports/dirnotes/internal/notes"
	"github.com/go-ports/dirnotes/internal/service"
)

const (
	addDescription    = `Attach a note to a directory (default: the server's working directory) or to the global namespace. Returns the id assigned to the note.`
	removeDescription = `Remove a note by id from a directory or from the global namespace. Ids are never reused.`
	listDescription   = `List the notes attached to a directory (default: the server's working directory) or to the global namespace, in id order.`
)

// NewServer creates an MCP server with all note tools registered.
// Tests obtain it directly and drive it through an in-process client.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("dirnotes", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve runs the stdio transport until stdin closes.
func Serve(_ context.Context, svc *service.Service) error {
	return mcpserver.ServeStdio(NewServer(svc))
}

func scopeOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("global",
			mcp.Description("Use the global namespace instead of a directory."),
		),
		mcp.WithString("directory",
			mcp.Description("Absolute directory path to use as the context. Defaults to the server's working directory."),
		),
	}
}

func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	addOpts := append([]mcp.ToolOption{
		mcp.WithDescription(addDescription),
		mcp.WithString("text",
			mcp.Description("Note text. Stored as given."),
			mcp.Required(),
		),
	}, scopeOptions()...)
	s.AddTool(mcp.NewTool("notes_add", addOpts...),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAdd(svc, req)
		})

	removeOpts := append([]mcp.ToolOption{
		mcp.WithDescription(removeDescription),
		mcp.WithNumber("id",
			mcp.Description("Id of the note to remove."),
			mcp.Required(),
		),
	}, scopeOptions()...)
	s.AddTool(mcp.NewTool("notes_remove", removeOpts...),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemove(svc, req)
		})

	listOpts := append([]mcp.ToolOption{mcp.WithDescription(listDescription)}, scopeOptions()...)
	s.AddTool(mcp.NewTool("notes_list", listOpts...),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleList(svc, req)
		})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleAdd(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := scopeFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := svc.Add(scope, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"id":      res.ID,
		"context": res.Key,
	})
}

func handleRemove(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := scopeFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	key, err := svc.Remove(scope, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"removed": id,
		"context": key,
	})
}

func handleList(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := scopeFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	listing, err := svc.List(scope)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]map[string]any, 0, len(listing.Notes))
	for _, n := range listing.Notes {
		out = append(out, map[string]any{"id": n.ID, "text": n.Text})
	}
	return jsonResult(map[string]any{
		"context": listing.Key,
		"notes":   out,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// scopeFrom reads the shared global/directory arguments.
func scopeFrom(req mcp.CallToolRequest) (notes.Scope, error) {
	scope := notes.Scope{
		Global: req.GetBool("global", false),
		Dir:    req.GetString("directory", ""),
	}
	if scope.Dir != "" && !filepath.IsAbs(scope.Dir) {
		return scope, fmt.Errorf("directory must be an absolute path, got %q", scope.Dir)
	}
	return scope, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
