package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// injectgraphMCPEntry is the MCP server configuration for the injectgraph binary.
var injectgraphMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "injectgraph",
  "args": ["-serve-mcp"]
}`)

// runInit registers the injectgraph MCP server in the project's .mcp.json,
// keeping any other servers already configured there.
func runInit(projectRoot string, stdout io.Writer) error {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	mcpPath := filepath.Join(abs, ".mcp.json")

	var cfg mcpConfig

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]json.RawMessage)
	}

	if _, exists := cfg.MCPServers["injectgraph"]; exists {
		fmt.Fprintln(stdout, "  skipped .mcp.json injectgraph entry (exists)")
		return nil
	}

	cfg.MCPServers["injectgraph"] = injectgraphMCPEntry

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}

	if err := os.WriteFile(mcpPath, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	action := "created"
	if data != nil {
		action = "updated"
	}
	fmt.Fprintf(stdout, "  %s .mcp.json with injectgraph MCP server\n", action)
	return nil
}
