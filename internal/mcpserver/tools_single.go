package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/postservice"
)

func (s *Server) getFrontmatter(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	post, err := s.posts.GetFrontmatter(path)
	if err != nil {
		return errResult(err.Error(), path), nil
	}
	return jsonResult(map[string]any{
		"file_path":   path,
		"frontmatter": post.Meta,
	}), nil
}

func (s *Server) getField(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("field_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, exists, err := s.posts.GetField(path, name)
	if err != nil {
		return errResult(err.Error(), path), nil
	}
	return jsonResult(map[string]any{
		"file_path": path,
		"field":     name,
		"value":     value,
		"exists":    exists,
	}), nil
}

// setString handles the shared flow of the string-field setters.
func (s *Server) setString(req mcp.CallToolRequest, field, argName string) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireString(argName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	update, err := s.posts.SetField(path, field, value, models.KindString)
	if err != nil {
		return errResult(err.Error(), path), nil
	}
	return jsonResult(update), nil
}

func (s *Server) setTitle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setString(req, "title", "title")
}

func (s *Server) setDate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setString(req, "date", "date_value")
}

func (s *Server) setPublishDate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setString(req, "publishDate", "publish_date_value")
}

func (s *Server) setDescription(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setString(req, "description", "description")
}

func (s *Server) setDraftStatus(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	draft, err := req.RequireBool("draft_status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	update, err := s.posts.SetField(path, "draft", draft, models.KindBool)
	if err != nil {
		return errResult(err.Error(), path), nil
	}
	return jsonResult(update), nil
}

// modifyList handles the shared flow of the tag and image list tools.
func (s *Server) modifyList(req mcp.CallToolRequest, action postservice.ListAction, field, argName string) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := req.RequireString(argName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	change, err := s.posts.ModifyList(action, path, field, item)
	if err != nil {
		return errResult(err.Error(), path), nil
	}
	return jsonResult(change.Payload()), nil
}

func (s *Server) addTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.modifyList(req, postservice.ActionAdd, "tags", "tag_to_add")
}

func (s *Server) removeTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.modifyList(req, postservice.ActionRemove, "tags", "tag_to_remove")
}

func (s *Server) addImage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.modifyList(req, postservice.ActionAdd, "images", "image_path_to_add")
}

func (s *Server) removeImage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.modifyList(req, postservice.ActionRemove, "images", "image_path_to_remove")
}
