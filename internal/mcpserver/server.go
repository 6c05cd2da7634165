// Package mcpserver exposes the Fehu frontmatter operations as MCP tools
// over stdio transport.
package mcpserver

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fehu/internal/batch"
	"github.com/starford/fehu/internal/postservice"
)

// Server wraps the MCP server with the frontmatter tools.
type Server struct {
	mcp   *server.MCPServer
	posts *postservice.Service
	batch *batch.Service
}

// New creates a new MCP server with all tools registered. Every tool
// expects absolute paths; relative paths are rejected, never resolved.
func New(posts *postservice.Service, batchSvc *batch.Service) *Server {
	s := &Server{posts: posts, batch: batchSvc}

	s.mcp = server.NewMCPServer(
		"Fehu",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_frontmatter",
		mcp.WithDescription("Read the entire YAML frontmatter of a Markdown file. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
	), s.getFrontmatter)

	s.mcp.AddTool(mcp.NewTool("get_field",
		mcp.WithDescription("Read one frontmatter field from a Markdown file. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("field_name", mcp.Required(), mcp.Description("Frontmatter field to read")),
	), s.getField)

	s.mcp.AddTool(mcp.NewTool("set_title",
		mcp.WithDescription("Set the 'title' (string) in the frontmatter. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("title", mcp.Required(), mcp.Description("New title")),
	), s.setTitle)

	s.mcp.AddTool(mcp.NewTool("set_date",
		mcp.WithDescription("Set the 'date' (string, e.g. YYYY-MM-DD) in the frontmatter. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("date_value", mcp.Required(), mcp.Description("New date string")),
	), s.setDate)

	s.mcp.AddTool(mcp.NewTool("set_publish_date",
		mcp.WithDescription("Set the 'publishDate' (string, e.g. YYYY-MM-DD) in the frontmatter. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("publish_date_value", mcp.Required(), mcp.Description("New publish date string")),
	), s.setPublishDate)

	s.mcp.AddTool(mcp.NewTool("set_description",
		mcp.WithDescription("Set the 'description' (string) in the frontmatter. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("description", mcp.Required(), mcp.Description("New description")),
	), s.setDescription)

	s.mcp.AddTool(mcp.NewTool("set_draft_status",
		mcp.WithDescription("Set the 'draft' status (boolean) in the frontmatter. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithBoolean("draft_status", mcp.Required(), mcp.Description("New draft status")),
	), s.setDraftStatus)

	s.mcp.AddTool(mcp.NewTool("add_tag",
		mcp.WithDescription("Add a tag to the 'tags' list in the frontmatter. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("tag_to_add", mcp.Required(), mcp.Description("Tag to add (non-empty string)")),
	), s.addTag)

	s.mcp.AddTool(mcp.NewTool("remove_tag",
		mcp.WithDescription("Remove a tag from the 'tags' list in the frontmatter. Expects an absolute file path."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("tag_to_remove", mcp.Required(), mcp.Description("Tag to remove (non-empty string)")),
	), s.removeTag)

	s.mcp.AddTool(mcp.NewTool("add_image",
		mcp.WithDescription("Add an image path to the 'images' list in the frontmatter. Expects an absolute file path for the post."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("image_path_to_add", mcp.Required(), mcp.Description("Image path to add (non-empty string)")),
	), s.addImage)

	s.mcp.AddTool(mcp.NewTool("remove_image",
		mcp.WithDescription("Remove an image path from the 'images' list in the frontmatter. Expects an absolute file path for the post."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Absolute path to the Markdown file")),
		mcp.WithString("image_path_to_remove", mcp.Required(), mcp.Description("Image path to remove (non-empty string)")),
	), s.removeImage)

	s.mcp.AddTool(mcp.NewTool("list_tags_in_directory",
		mcp.WithDescription("Scan .md files in a directory for 'tags' and return per-tag counts. Expects an absolute directory path."),
		mcp.WithString("directory_path", mcp.Required(), mcp.Description("Absolute path to the directory")),
		mcp.WithBoolean("recursive", mcp.Description("Descend into subdirectories (default true)")),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("find_posts_by_tag",
		mcp.WithDescription("Find all posts carrying a specific tag. Expects an absolute directory path."),
		mcp.WithString("directory_path", mcp.Required(), mcp.Description("Absolute path to the directory")),
		mcp.WithString("tag_to_find", mcp.Required(), mcp.Description("Tag to search for (non-empty string)")),
		mcp.WithBoolean("recursive", mcp.Description("Descend into subdirectories (default true)")),
	), s.findPostsByTag)

	s.mcp.AddTool(mcp.NewTool("rename_tag_in_directory",
		mcp.WithDescription("Rename a tag in every post under a directory. Expects an absolute directory path and non-empty tags."),
		mcp.WithString("directory_path", mcp.Required(), mcp.Description("Absolute path to the directory")),
		mcp.WithString("old_tag", mcp.Required(), mcp.Description("Tag to replace")),
		mcp.WithString("new_tag", mcp.Required(), mcp.Description("Replacement tag")),
		mcp.WithBoolean("recursive", mcp.Description("Descend into subdirectories (default true)")),
	), s.renameTag)

	s.mcp.AddTool(mcp.NewTool("validate_date_formats",
		mcp.WithDescription("Audit a frontmatter date field against a strftime format. Read-only. Expects an absolute directory path."),
		mcp.WithString("directory_path", mcp.Required(), mcp.Description("Absolute path to the directory")),
		mcp.WithString("field_name", mcp.Description("Field to validate (default \"date\")")),
		mcp.WithString("expected_format", mcp.Description("strftime format (default \"%Y-%m-%d\")")),
		mcp.WithBoolean("recursive", mcp.Description("Descend into subdirectories (default true)")),
	), s.validateDates)

	s.mcp.AddTool(mcp.NewTool("get_frontmatter_contract",
		mcp.WithDescription("Returns the canonical post frontmatter contract. Call this before setting fields to ensure correct shapes."),
	), s.getContract)

	// Resource: frontmatter format contract.
	s.mcp.AddResource(
		mcp.NewResource("fehu://frontmatter-format", "Frontmatter Format Contract",
			mcp.WithResourceDescription("Canonical frontmatter shape for posts managed by Fehu."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// jsonResult marshals v into an indented JSON text result.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// errResult renders a structured error payload. Callers inspect the
// presence of the "error" key rather than relying on transport faults.
func errResult(msg, filePath string) *mcp.CallToolResult {
	body := map[string]any{"error": msg}
	if filePath != "" {
		body["file_path"] = filePath
	}
	out, _ := json.Marshal(body)
	return mcp.NewToolResultError(string(out))
}

// dirErrResult is the directory-operation variant of errResult; its error
// body carries directory_path instead of file_path.
func dirErrResult(msg, dir string) *mcp.CallToolResult {
	body := map[string]any{"error": msg}
	if dir != "" {
		body["directory_path"] = dir
	}
	out, _ := json.Marshal(body)
	return mcp.NewToolResultError(string(out))
}
