package mcptools

import (
	"net/http"

	"github.com/kulbasnet/launchwatch/internal/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "LaunchWatch MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// NewServer builds the MCP server with the four launch/weather tools
// registered. The correlator is injected already constructed; this layer
// owns no upstream state of its own.
func NewServer(correlator *services.Correlator) *mcp.Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, GetNextLaunchTool(), GetNextLaunchHandler(correlator))
	mcp.AddTool(mcpServer, GeocodeLocationTool(), GeocodeLocationHandler(correlator))
	mcp.AddTool(mcpServer, GetWeatherDataTool(), GetWeatherDataHandler(correlator))
	mcp.AddTool(mcpServer, GetNearbyLaunchesTool(), GetNearbyLaunchesHandler(correlator))

	return mcpServer
}

// Handler wraps the MCP server in the streamable HTTP transport.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
