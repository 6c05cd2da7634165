package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) listTags(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("directory_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recursive := req.GetBool("recursive", true)

	res, err := s.batch.ListTags(dir, recursive)
	if err != nil {
		return dirErrResult(err.Error(), dir), nil
	}
	return jsonResult(res), nil
}

func (s *Server) findPostsByTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("directory_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := req.RequireString("tag_to_find")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(tag) == "" {
		return errResult("Tag to find must be a non-empty string.", ""), nil
	}
	recursive := req.GetBool("recursive", true)

	res, err := s.batch.FindByTag(dir, tag, recursive)
	if err != nil {
		return dirErrResult(err.Error(), dir), nil
	}
	return jsonResult(res), nil
}

func (s *Server) renameTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("directory_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	oldTag, err := req.RequireString("old_tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newTag, err := req.RequireString("new_tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(oldTag) == "" {
		return errResult("Old tag must be a non-empty string.", ""), nil
	}
	if strings.TrimSpace(newTag) == "" {
		return errResult("New tag must be a non-empty string.", ""), nil
	}
	recursive := req.GetBool("recursive", true)

	res, err := s.batch.RenameTag(dir, oldTag, newTag, recursive)
	if err != nil {
		return dirErrResult(err.Error(), dir), nil
	}
	if res.NoOp {
		return jsonResult(map[string]any{
			"message": res.Message,
			"old_tag": res.OldTag,
			"new_tag": res.NewTag,
		}), nil
	}
	return jsonResult(res), nil
}

func (s *Server) validateDates(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("directory_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field := req.GetString("field_name", "date")
	format := req.GetString("expected_format", "%Y-%m-%d")
	recursive := req.GetBool("recursive", true)

	res, err := s.batch.ValidateDates(dir, field, format, recursive)
	if err != nil {
		return dirErrResult(err.Error(), dir), nil
	}
	return jsonResult(res), nil
}

func (s *Server) getContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FrontmatterContract), nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "fehu://frontmatter-format",
			MIMEType: "text/markdown",
			Text:     FrontmatterContract,
		},
	}, nil
}
