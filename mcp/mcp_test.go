package mcp_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gouniverse/poststore"
	"github.com/gouniverse/poststore/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initMCPServerWithStore(t *testing.T) (*httptest.Server, poststore.StoreInterface) {
	t.Helper()

	store, err := poststore.NewStore(poststore.NewStoreOptions{
		Storage:        poststore.NewMemoryStorage(),
		AutoInitialize: true,
	})
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(mcp.NewMCP(store).Handler))
	t.Cleanup(server.Close)

	return server, store
}

func rpcCall(t *testing.T, url string, method string, params any) map[string]any {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var rpcResp map[string]any
	require.NoError(t, json.Unmarshal(body, &rpcResp), "body=%s", string(body))
	return rpcResp
}

func callTool(t *testing.T, url string, name string, args map[string]any) map[string]any {
	t.Helper()
	return rpcCall(t, url, "tools/call", map[string]any{"name": name, "arguments": args})
}

// toolResult decodes the JSON text carried in result.content[0].text.
func toolResult(t *testing.T, rpcResp map[string]any) map[string]any {
	t.Helper()

	result, ok := rpcResp["result"].(map[string]any)
	require.True(t, ok, "expected result in %v", rpcResp)

	content, ok := result["content"].([]any)
	require.True(t, ok && len(content) > 0, "expected result.content in %v", rpcResp)

	text, ok := content[0].(map[string]any)["text"].(string)
	require.True(t, ok, "expected result.content[0].text in %v", rpcResp)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	return out
}

func rpcErrorCode(t *testing.T, rpcResp map[string]any) int {
	t.Helper()

	rpcErr, ok := rpcResp["error"].(map[string]any)
	require.True(t, ok, "expected error in %v", rpcResp)
	return int(rpcErr["code"].(float64))
}

func Test_MCP_Initialize(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	resp := rpcCall(t, server.URL, "initialize", map[string]any{"protocolVersion": "2025-06-18"})

	result := resp["result"].(map[string]any)
	assert.Equal(t, "poststore", result["serverInfo"].(map[string]any)["name"])
}

func Test_MCP_MethodNotAllowed(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func Test_MCP_ParseError(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	resp, err := http.Post(server.URL, "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var rpcResp map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpcResp))
	assert.Equal(t, -32700, rpcErrorCode(t, rpcResp))
}

func Test_MCP_UnknownMethod(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	resp := rpcCall(t, server.URL, "resources/list", nil)
	assert.Equal(t, -32601, rpcErrorCode(t, resp))
}

func Test_MCP_ToolsList(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	for _, method := range []string{"tools/list", "list_tools"} {
		resp := rpcCall(t, server.URL, method, nil)
		tools := resp["result"].(map[string]any)["tools"].([]any)

		names := []string{}
		for _, tool := range tools {
			names = append(names, tool.(map[string]any)["name"].(string))
		}

		assert.ElementsMatch(t, []string{
			"post_list", "post_get", "post_create", "post_delete",
			"post_toggle_expanded", "theme_get", "theme_set",
		}, names)
	}
}

func Test_MCP_PostList(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	out := toolResult(t, callTool(t, server.URL, "post_list", nil))

	items := out["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, float64(1), items[0].(map[string]any)["id"])
	assert.Equal(t, "blog-post-1", items[0].(map[string]any)["slug"])
	assert.Nil(t, out["expanded_id"])
}

func Test_MCP_PostCreateAndGet(t *testing.T) {
	server, store := initMCPServerWithStore(t)

	out := toolResult(t, callTool(t, server.URL, "post_create", map[string]any{
		"title":        "A",
		"description":  "B",
		"full_content": "C",
		"image_base64": base64.StdEncoding.EncodeToString([]byte("GIF89a")),
	}))

	assert.Equal(t, float64(3), out["id"])
	assert.Contains(t, out["image_url"], poststore.TRANSIENT_IMAGE_PREFIX)
	assert.Nil(t, out["warning"])
	assert.Equal(t, 3, store.PostCount())

	got := toolResult(t, callTool(t, server.URL, "post_get", map[string]any{"id": 3}))
	assert.Equal(t, "C", got["full_content"])
}

func Test_MCP_PostCreateValidation(t *testing.T) {
	server, store := initMCPServerWithStore(t)

	resp := callTool(t, server.URL, "post_create", map[string]any{"title": "", "description": "B", "full_content": "C"})

	assert.Equal(t, -32602, rpcErrorCode(t, resp))
	assert.Equal(t, 2, store.PostCount())
}

func Test_MCP_PostCreateBadImage(t *testing.T) {
	server, store := initMCPServerWithStore(t)

	resp := callTool(t, server.URL, "post_create", map[string]any{
		"title": "A", "description": "B", "full_content": "C", "image_base64": "%%%",
	})

	assert.Equal(t, -32602, rpcErrorCode(t, resp))
	assert.Equal(t, 2, store.PostCount())
}

func Test_MCP_PostGetNotFound(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	resp := callTool(t, server.URL, "post_get", map[string]any{"id": 99})
	assert.Equal(t, -32603, rpcErrorCode(t, resp))

	resp = callTool(t, server.URL, "post_get", map[string]any{"id": "one"})
	assert.Equal(t, -32602, rpcErrorCode(t, resp))
}

func Test_MCP_PostDelete(t *testing.T) {
	server, store := initMCPServerWithStore(t)

	out := toolResult(t, callTool(t, server.URL, "post_delete", map[string]any{"id": 2}))
	assert.Equal(t, true, out["deleted"])
	assert.Equal(t, 1, store.PostCount())

	// unknown ids are not an error
	toolResult(t, callTool(t, server.URL, "post_delete", map[string]any{"id": 2}))
	assert.Equal(t, 1, store.PostCount())
}

func Test_MCP_PostToggleExpanded(t *testing.T) {
	server, store := initMCPServerWithStore(t)

	out := toolResult(t, callTool(t, server.URL, "post_toggle_expanded", map[string]any{"id": 1}))
	assert.Equal(t, float64(1), out["expanded_id"])
	assert.True(t, store.ExpandedState().IsExpanded(1))

	out = toolResult(t, callTool(t, server.URL, "post_toggle_expanded", map[string]any{"id": 1}))
	assert.Nil(t, out["expanded_id"])
}

func Test_MCP_Theme(t *testing.T) {
	server, store := initMCPServerWithStore(t)

	out := toolResult(t, callTool(t, server.URL, "theme_get", nil))
	assert.Equal(t, "system", out["theme"])

	out = toolResult(t, callTool(t, server.URL, "theme_set", map[string]any{"theme": "dark"}))
	assert.Equal(t, "dark", out["theme"])
	assert.Equal(t, poststore.THEME_DARK, store.ThemeGet(context.Background()))

	resp := callTool(t, server.URL, "theme_set", map[string]any{"theme": "neon"})
	assert.Equal(t, -32602, rpcErrorCode(t, resp))
}

func Test_MCP_LegacyCallTool(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	resp := rpcCall(t, server.URL, "call_tool", map[string]any{
		"tool_name": "post_get",
		"params":    map[string]any{"id": 2},
	})

	assert.Equal(t, "Blog Post 2", toolResult(t, resp)["title"])
}

func Test_MCP_UnknownTool(t *testing.T) {
	server, _ := initMCPServerWithStore(t)

	resp := callTool(t, server.URL, "post_update", map[string]any{"id": 1})
	assert.Equal(t, -32603, rpcErrorCode(t, resp))
}
