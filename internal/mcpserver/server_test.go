package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/fehu/internal/batch"
	"github.com/starford/fehu/internal/postservice"
	"github.com/starford/fehu/internal/store"
	"github.com/starford/fehu/internal/testutil"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()

	fs := store.NewFS()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := New(postservice.NewService(fs), batch.NewService(fs, logger))
	return srv, t.TempDir()
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_frontmatter":
		result, err = srv.getFrontmatter(ctx, req)
	case "get_field":
		result, err = srv.getField(ctx, req)
	case "set_title":
		result, err = srv.setTitle(ctx, req)
	case "set_date":
		result, err = srv.setDate(ctx, req)
	case "set_draft_status":
		result, err = srv.setDraftStatus(ctx, req)
	case "add_tag":
		result, err = srv.addTag(ctx, req)
	case "remove_tag":
		result, err = srv.removeTag(ctx, req)
	case "add_image":
		result, err = srv.addImage(ctx, req)
	case "remove_image":
		result, err = srv.removeImage(ctx, req)
	case "list_tags_in_directory":
		result, err = srv.listTags(ctx, req)
	case "find_posts_by_tag":
		result, err = srv.findPostsByTag(ctx, req)
	case "rename_tag_in_directory":
		result, err = srv.renameTag(ctx, req)
	case "validate_date_formats":
		result, err = srv.validateDates(ctx, req)
	case "get_frontmatter_contract":
		result, err = srv.getContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func resultJSON(t *testing.T, r *mcp.CallToolResult) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal([]byte(resultText(r)), &body); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, resultText(r))
	}
	return body
}

func TestGetFrontmatter(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ntitle: Hello\ndraft: true\n---\nbody\n")

	r := callTool(t, srv, "get_frontmatter", map[string]interface{}{"file_path": path})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	body := resultJSON(t, r)
	fm, ok := body["frontmatter"].(map[string]any)
	if !ok {
		t.Fatalf("frontmatter = %v", body["frontmatter"])
	}
	if fm["title"] != "Hello" || fm["draft"] != true {
		t.Errorf("frontmatter = %v", fm)
	}
}

func TestGetFrontmatterRelativePath(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_frontmatter", map[string]interface{}{"file_path": "relative/post.md"})
	if !r.IsError {
		t.Fatal("expected error for relative path")
	}
	body := resultJSON(t, r)
	if body["error"] == "" || body["file_path"] != "relative/post.md" {
		t.Errorf("error payload = %v", body)
	}
}

func TestGetField(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ntitle: Hello\n---\n")

	r := callTool(t, srv, "get_field", map[string]interface{}{"file_path": path, "field_name": "title"})
	body := resultJSON(t, r)
	if body["value"] != "Hello" || body["exists"] != true {
		t.Errorf("payload = %v", body)
	}

	r = callTool(t, srv, "get_field", map[string]interface{}{"file_path": path, "field_name": "nope"})
	body = resultJSON(t, r)
	if body["exists"] != false {
		t.Errorf("absent field payload = %v", body)
	}
}

func TestSetTitle(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ntitle: Old\n---\nbody\n")

	r := callTool(t, srv, "set_title", map[string]interface{}{"file_path": path, "title": "New"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	body := resultJSON(t, r)
	fm := body["updated_frontmatter"].(map[string]any)
	if fm["title"] != "New" {
		t.Errorf("updated_frontmatter = %v", fm)
	}
	if !strings.Contains(testutil.ReadFile(t, path), "title: New") {
		t.Error("file not rewritten")
	}
}

func TestSetDraftStatus(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ndraft: true\n---\n")

	r := callTool(t, srv, "set_draft_status", map[string]interface{}{"file_path": path, "draft_status": false})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if !strings.Contains(testutil.ReadFile(t, path), "draft: false") {
		t.Error("draft not updated")
	}
}

func TestAddTag(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ntitle: x\n---\n")

	r := callTool(t, srv, "add_tag", map[string]interface{}{"file_path": path, "tag_to_add": "go"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	body := resultJSON(t, r)
	if body["action"] != "add" || body["item_value"] != "go" {
		t.Errorf("payload = %v", body)
	}

	// Adding again is a no-op keyed under the field name.
	r = callTool(t, srv, "add_tag", map[string]interface{}{"file_path": path, "tag_to_add": "go"})
	body = resultJSON(t, r)
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "No changes made") {
		t.Errorf("no-op message = %q", msg)
	}
	if _, ok := body["tags"]; !ok {
		t.Errorf("no-op payload missing tags key: %v", body)
	}
}

func TestRemoveTagAllOccurrences(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ntags:\n  - a\n  - b\n  - a\n---\n")

	r := callTool(t, srv, "remove_tag", map[string]interface{}{"file_path": path, "tag_to_remove": "a"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	content := testutil.ReadFile(t, path)
	if strings.Contains(content, "- a") || !strings.Contains(content, "- b") {
		t.Errorf("file content = %q", content)
	}
}

func TestAddTagBlankRejected(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ntitle: x\n---\n")

	r := callTool(t, srv, "add_tag", map[string]interface{}{"file_path": path, "tag_to_add": "   "})
	if !r.IsError {
		t.Fatal("expected error for blank tag")
	}
}

func TestAddTagNotAList(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ntags: 42\n---\n")

	r := callTool(t, srv, "add_tag", map[string]interface{}{"file_path": path, "tag_to_add": "go"})
	if !r.IsError {
		t.Fatal("expected error for non-list tags field")
	}
	body := resultJSON(t, r)
	if body["file_path"] != path {
		t.Errorf("error payload = %v", body)
	}
}

func TestAddRemoveImage(t *testing.T) {
	srv, dir := testServer(t)
	path := testutil.WritePost(t, dir, "post.md", "---\ntitle: x\n---\n")

	r := callTool(t, srv, "add_image", map[string]interface{}{"file_path": path, "image_path_to_add": "/img/a.png"})
	if r.IsError {
		t.Fatalf("add_image: %s", resultText(r))
	}
	r = callTool(t, srv, "remove_image", map[string]interface{}{"file_path": path, "image_path_to_remove": "/img/a.png"})
	if r.IsError {
		t.Fatalf("remove_image: %s", resultText(r))
	}
	if strings.Contains(testutil.ReadFile(t, path), "a.png") {
		t.Error("image not removed")
	}
}

func TestListTagsInDirectory(t *testing.T) {
	srv, dir := testServer(t)
	testutil.WritePost(t, dir, "a.md", "---\ntags:\n  - go\n---\n")
	testutil.WritePost(t, dir, "b.md", "---\ntags:\n  - go\n  - web\n---\n")

	r := callTool(t, srv, "list_tags_in_directory", map[string]interface{}{"directory_path": dir})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	body := resultJSON(t, r)
	counts := body["tag_counts"].(map[string]any)
	if counts["go"] != float64(2) || counts["web"] != float64(1) {
		t.Errorf("tag_counts = %v", counts)
	}
	if body["files_processed"] != float64(2) {
		t.Errorf("files_processed = %v", body["files_processed"])
	}
}

func TestListTagsDirectoryErrorPayload(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_tags_in_directory", map[string]interface{}{"directory_path": "relative/dir"})
	if !r.IsError {
		t.Fatal("expected error for relative directory")
	}
	body := resultJSON(t, r)
	if body["directory_path"] != "relative/dir" {
		t.Errorf("error payload = %v, want directory_path", body)
	}
	if msg, _ := body["error"].(string); msg == "" {
		t.Errorf("error payload missing message: %v", body)
	}
}

func TestValidateDateFormatsBadFormatPayload(t *testing.T) {
	srv, dir := testServer(t)

	r := callTool(t, srv, "validate_date_formats", map[string]interface{}{
		"directory_path":  dir,
		"expected_format": "%Q",
	})
	if !r.IsError {
		t.Fatal("expected error for unknown strftime specifier")
	}
	body := resultJSON(t, r)
	if body["directory_path"] != dir {
		t.Errorf("error payload = %v, want directory_path", body)
	}
}

func TestFindPostsByTagBlank(t *testing.T) {
	srv, dir := testServer(t)

	r := callTool(t, srv, "find_posts_by_tag", map[string]interface{}{"directory_path": dir, "tag_to_find": "  "})
	if !r.IsError {
		t.Fatal("expected error for blank tag")
	}
	body := resultJSON(t, r)
	if body["error"] != "Tag to find must be a non-empty string." {
		t.Errorf("error = %v", body["error"])
	}
}

func TestRenameTagSameNoOp(t *testing.T) {
	srv, dir := testServer(t)

	r := callTool(t, srv, "rename_tag_in_directory", map[string]interface{}{
		"directory_path": dir,
		"old_tag":        "x",
		"new_tag":        "x",
	})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	body := resultJSON(t, r)
	if body["message"] != "Old and new tags are the same. No changes will be made." {
		t.Errorf("message = %v", body["message"])
	}
}

func TestValidateDateFormatsDefaults(t *testing.T) {
	srv, dir := testServer(t)
	testutil.WritePost(t, dir, "bad.md", "---\ndate: \"2023-13-40\"\n---\n")

	r := callTool(t, srv, "validate_date_formats", map[string]interface{}{"directory_path": dir})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	body := resultJSON(t, r)
	if body["field_name_validated"] != "date" || body["expected_format"] != "%Y-%m-%d" {
		t.Errorf("defaults not applied: %v", body)
	}
	entries := body["invalid_date_entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("invalid_date_entries = %v", entries)
	}
	entry := entries[0].(map[string]any)
	if entry["value"] != "2023-13-40" {
		t.Errorf("entry = %v", entry)
	}
}

func TestGetFrontmatterContract(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_frontmatter_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "tags") || !strings.Contains(text, "draft") {
		t.Errorf("contract text = %q", text)
	}
}
