package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gouniverse/poststore"
)

type MCP struct {
	store poststore.StoreInterface
}

func NewMCP(store poststore.StoreInterface) *MCP {
	return &MCP{store: store}
}

// Handler is an HTTP handler intended to be mounted at a dedicated route.
//
// The protocol is JSON-RPC 2.0 compatible and supports:
// - MCP standard methods: initialize, notifications/initialized, tools/list, tools/call
// - legacy aliases: list_tools, call_tool
func (m *MCP) Handler(w http.ResponseWriter, r *http.Request) {
	if m == nil || m.store == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse(nil, codeInternalError, "store is not initialized"))
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(nil, codeInvalidParams, "failed to read request body"))
		return
	}
	defer r.Body.Close()

	var req jsonRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusOK, errorResponse(nil, codeParseError, "parse error"))
		return
	}

	switch req.Method {
	case "initialize":
		m.handleInitialize(w, req.ID, req.Params)
	case "notifications/initialized":
		w.WriteHeader(http.StatusOK)
	case "tools/list", "list_tools":
		writeJSON(w, http.StatusOK, resultResponse(req.ID, map[string]any{"tools": toolDefinitions()}))
	case "tools/call", "call_tool":
		m.handleToolsCall(w, r.Context(), req.ID, req.Params)
	default:
		writeJSON(w, http.StatusOK, errorResponse(req.ID, codeMethodNotFound, "method not found"))
	}
}

func (m *MCP) handleInitialize(w http.ResponseWriter, id any, params json.RawMessage) {
	var p struct {
		ProtocolVersion string `json:"protocolVersion"`
		ClientInfo      any    `json:"clientInfo"`
	}
	_ = json.Unmarshal(params, &p)

	result := map[string]any{
		"protocolVersion": "2025-06-18",
		"serverInfo": map[string]any{
			"name":    "poststore",
			"version": "0.1.0",
		},
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"echo": map[string]any{
			"clientProtocolVersion": p.ProtocolVersion,
			"clientInfo":            p.ClientInfo,
		},
	}

	writeJSON(w, http.StatusOK, resultResponse(id, result))
}

func (m *MCP) handleToolsCall(w http.ResponseWriter, ctx context.Context, id any, params json.RawMessage) {
	var p struct {
		Name      string          `json:"name"`
		ToolName  string          `json:"tool_name"`
		Arguments json.RawMessage `json:"arguments"`
		Params    json.RawMessage `json:"params"`
	}
	_ = json.Unmarshal(params, &p)

	toolName := strings.TrimSpace(p.Name)
	if toolName == "" {
		toolName = strings.TrimSpace(p.ToolName)
	}

	argsRaw := p.Arguments
	if len(argsRaw) == 0 {
		argsRaw = p.Params
	}

	raw := map[string]any{}
	if len(argsRaw) > 0 {
		dec := json.NewDecoder(strings.NewReader(string(argsRaw)))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			writeJSON(w, http.StatusOK, errorResponse(id, codeInvalidParams, "invalid tool arguments"))
			return
		}
	}

	text, err := m.dispatchTool(ctx, toolName, newToolArgs(raw))
	if err != nil {
		code := codeInternalError
		if errors.Is(err, errInvalidArgument) || errors.Is(err, poststore.ErrValidation) || errors.Is(err, poststore.ErrInvalidTheme) {
			code = codeInvalidParams
		}
		writeJSON(w, http.StatusOK, errorResponse(id, code, err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, resultResponse(id, textContent(text)))
}
