// Package tools exposes the same operations as the HTTP API through a
// named-tool dispatch surface for an AI agent front-end. The registry is
// transport-agnostic: callers hand in the resolved owner id and raw JSON
// arguments and get JSON-shaped results back. A thin gin front-end in this
// package serves discovery and dispatch under /agent/tools; MCP framing
// over stdio lives outside the repo.
//
// Both front-ends share the same services, so link ordering rules cannot
// drift between the web API and the agent tools.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linkflowhq/linkflow/pkg/linkflow/links"
	"gorm.io/gorm"
)

// ErrUnknownTool is returned when no tool matches the requested name
var ErrUnknownTool = errors.New("unknown tool")

// NewRegistry builds the full tool set on top of the shared services
func NewRegistry(db *gorm.DB, linkService *links.Service) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	r.registerLinkTools(linkService)
	r.registerProfileTools(db)
	return r
}

// HandlerFunc executes a tool call for the given owner
type HandlerFunc func(ownerID string, args json.RawMessage) (interface{}, error)

// Tool describes one callable tool
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`

	handler HandlerFunc
}

// Registry holds the tool set and dispatches calls by name
type Registry struct {
	tools map[string]Tool
	order []string
}

func (r *Registry) register(t Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// List returns every registered tool in registration order
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Call dispatches a tool call by name
func (r *Registry) Call(ownerID, name string, args json.RawMessage) (interface{}, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	return tool.handler(ownerID, args)
}

func decodeArgs(args json.RawMessage, into interface{}) error {
	if err := json.Unmarshal(args, into); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}
