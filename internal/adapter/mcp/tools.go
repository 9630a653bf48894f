package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/basenames/internal/domain"
	"github.com/Strob0t/basenames/internal/domain/basename"
)

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.checkNameTool(),
		s.namehashTool(),
		s.getCollectionTool(),
	)
}

func (s *Server) checkNameTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("check_name_availability",
		mcplib.WithDescription("Check whether a .base.eth name can be registered and quote its one-year price in ETH"),
		mcplib.WithString("name",
			mcplib.Required(),
			mcplib.Description("The label to check, without the .base.eth suffix"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleCheckName}
}

func (s *Server) namehashTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("compute_namehash",
		mcplib.WithDescription("Compute the ENS namehash of a .base.eth name"),
		mcplib.WithString("name",
			mcplib.Required(),
			mcplib.Description("The label to hash, without the .base.eth suffix"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleNamehash}
}

func (s *Server) getCollectionTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_collection",
		mcplib.WithDescription("Get a demo NFT collection by its address"),
		mcplib.WithString("address",
			mcplib.Required(),
			mcplib.Description("The collection's 0x-prefixed demo address"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleGetCollection}
}

func (s *Server) handleCheckName(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Names == nil {
		return mcplib.NewToolResultError("name checker not configured"), nil
	}
	name, ok := stringArg(req, "name")
	if !ok {
		return mcplib.NewToolResultError("name is required"), nil
	}
	return toolResultJSON(s.deps.Names.Check(ctx, name))
}

func (s *Server) handleNamehash(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	raw, ok := stringArg(req, "name")
	if !ok {
		return mcplib.NewToolResultError("name is required"), nil
	}
	name, err := basename.Validate(raw)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	full := name.FullName()
	return toolResultJSON(map[string]string{
		"name": full,
		"node": basename.Namehash(full).Hex(),
	})
}

func (s *Server) handleGetCollection(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Collections == nil {
		return mcplib.NewToolResultError("collections not configured"), nil
	}
	address, ok := stringArg(req, "address")
	if !ok {
		return mcplib.NewToolResultError("address is required"), nil
	}
	col, err := s.deps.Collections.Get(ctx, address)
	if errors.Is(err, domain.ErrNotFound) {
		return mcplib.NewToolResultError(fmt.Sprintf("collection %s not found", address)), nil
	}
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(fmt.Sprintf("failed to get collection %s", address), err), nil
	}
	return toolResultJSON(col)
}

func stringArg(req mcplib.CallToolRequest, key string) (string, bool) { //nolint:gocritic // hugeParam: mcp-go request type
	v, ok := req.GetArguments()[key].(string)
	return v, ok && v != ""
}

func toolResultJSON(v any) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal result", err), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}
