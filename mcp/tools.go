package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gouniverse/poststore"
	"github.com/samber/lo"
)

var errInvalidArgument = errors.New("invalid argument")

func toolDefinitions() []map[string]any {
	idOnly := map[string]any{
		"type":     "object",
		"required": []string{"id"},
		"properties": map[string]any{
			"id": map[string]any{"type": "integer"},
		},
	}

	return []map[string]any{
		{
			"name":        "post_list",
			"description": "List blog posts in insertion order together with the expanded post",
			"inputSchema": map[string]any{"type": "object", "properties": map[string]any{}},
		},
		{
			"name":        "post_get",
			"description": "Get a blog post by ID",
			"inputSchema": idOnly,
		},
		{
			"name":        "post_create",
			"description": "Create a blog post",
			"inputSchema": map[string]any{
				"type":     "object",
				"required": []string{"title", "description", "full_content"},
				"properties": map[string]any{
					"title":              map[string]any{"type": "string"},
					"description":        map[string]any{"type": "string"},
					"full_content":       map[string]any{"type": "string"},
					"image_base64":       map[string]any{"type": "string"},
					"image_content_type": map[string]any{"type": "string"},
				},
			},
		},
		{
			"name":        "post_delete",
			"description": "Delete a blog post",
			"inputSchema": idOnly,
		},
		{
			"name":        "post_toggle_expanded",
			"description": "Expand a blog post, or collapse it when it is already expanded",
			"inputSchema": idOnly,
		},
		{
			"name":        "theme_get",
			"description": "Get the theme preference",
			"inputSchema": map[string]any{"type": "object", "properties": map[string]any{}},
		},
		{
			"name":        "theme_set",
			"description": "Set the theme preference",
			"inputSchema": map[string]any{
				"type":     "object",
				"required": []string{"theme"},
				"properties": map[string]any{
					"theme": map[string]any{"type": "string", "enum": []string{"light", "dark", "system"}},
				},
			},
		},
	}
}

func (m *MCP) dispatchTool(ctx context.Context, toolName string, args toolArgs) (string, error) {
	switch toolName {
	case "post_list":
		return m.toolPostList()
	case "post_get":
		return m.toolPostGet(args)
	case "post_create":
		return m.toolPostCreate(ctx, args)
	case "post_delete":
		return m.toolPostDelete(ctx, args)
	case "post_toggle_expanded":
		return m.toolPostToggleExpanded(args)
	case "theme_get":
		return toJSONText(map[string]any{"theme": m.store.ThemeGet(ctx)})
	case "theme_set":
		return m.toolThemeSet(ctx, args)
	default:
		return "", errors.New("unknown tool")
	}
}

func postToMap(post poststore.Post, expanded poststore.ExpandedState) map[string]any {
	return map[string]any{
		"id":           post.ID(),
		"title":        post.Title(),
		"slug":         post.Slug(),
		"description":  post.Description(),
		"full_content": post.FullContent(),
		"image_url":    post.ImageUrl(),
		"expanded":     expanded.IsExpanded(post.ID()),
	}
}

func expandedToMap(expanded poststore.ExpandedState) any {
	return lo.Ternary[any](expanded.Expanded, expanded.PostID, nil)
}

func toJSONText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func requiredID(args toolArgs) (int, error) {
	id, ok := args.Int("id")
	if !ok {
		return 0, fmt.Errorf("%w: id is required and must be an integer", errInvalidArgument)
	}
	return id, nil
}

func (m *MCP) toolPostList() (string, error) {
	expanded := m.store.ExpandedState()

	items := lo.Map(m.store.PostList(), func(post poststore.Post, _ int) map[string]any {
		return postToMap(post, expanded)
	})

	return toJSONText(map[string]any{
		"items":       items,
		"expanded_id": expandedToMap(expanded),
	})
}

func (m *MCP) toolPostGet(args toolArgs) (string, error) {
	id, err := requiredID(args)
	if err != nil {
		return "", err
	}

	post := m.store.PostFindByID(id)
	if post == nil {
		return "", errors.New("post not found")
	}

	return toJSONText(postToMap(*post, m.store.ExpandedState()))
}

func (m *MCP) toolPostCreate(ctx context.Context, args toolArgs) (string, error) {
	input := poststore.PostCreateInput{
		Title:            args.String("title"),
		Description:      args.String("description"),
		FullContent:      args.String("full_content"),
		ImageContentType: args.String("image_content_type"),
	}

	if encoded := args.String("image_base64"); encoded != "" {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return "", fmt.Errorf("%w: image_base64 is not valid base64", errInvalidArgument)
		}
		input.ImageData = data
	}

	post, err := m.store.PostCreate(ctx, input)
	if post == nil {
		return "", err
	}

	// the post exists even when persisting failed; report both
	result := map[string]any{"id": post.ID(), "title": post.Title(), "image_url": post.ImageUrl()}
	if err != nil {
		result["warning"] = err.Error()
	}

	return toJSONText(result)
}

func (m *MCP) toolPostDelete(ctx context.Context, args toolArgs) (string, error) {
	id, err := requiredID(args)
	if err != nil {
		return "", err
	}

	if err := m.store.PostDeleteByID(ctx, id); err != nil {
		return "", err
	}

	return toJSONText(map[string]any{"deleted": true, "id": id})
}

func (m *MCP) toolPostToggleExpanded(args toolArgs) (string, error) {
	id, err := requiredID(args)
	if err != nil {
		return "", err
	}

	state := m.store.ToggleExpanded(id)

	return toJSONText(map[string]any{"expanded_id": expandedToMap(state)})
}

func (m *MCP) toolThemeSet(ctx context.Context, args toolArgs) (string, error) {
	theme, err := poststore.ParseTheme(args.String("theme"))
	if err != nil {
		return "", err
	}

	if err := m.store.ThemeSet(ctx, theme); err != nil {
		return "", err
	}

	return toJSONText(map[string]any{"theme": theme})
}
