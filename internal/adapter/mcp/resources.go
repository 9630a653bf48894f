package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

const contractsURI = "basenames://contracts"

// registerResources registers all MCP resources on the server.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(
			contractsURI,
			"Base name contracts",
			mcplib.WithResourceDescription("Chain id and contract addresses used for availability checks and registrations"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleContractsResource,
	)
}

func (s *Server) handleContractsResource(_ context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	data, err := json.Marshal(s.deps.Contracts)
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
