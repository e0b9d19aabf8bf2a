package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/raindrop-mcp/internal/common"
	"github.com/bobmcallan/raindrop-mcp/internal/raindrop"
)

// RegisterTools registers every MCP tool on the server, wiring each to a
// handler that calls the Raindrop.io API through the client. Returns the
// number of tools registered.
func RegisterTools(s *server.MCPServer, c *raindrop.Client, logger *common.Logger) int {
	tools := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{createGetVersionTool(), handleGetVersion(c, logger)},
		{createCollectionListTool(), handleCollectionList(c, logger)},
		{createCollectionGetTool(), handleCollectionGet(c, logger)},
		{createCollectionManageTool(), handleCollectionManage(c, logger)},
		{createBookmarkSearchTool(), handleBookmarkSearch(c, logger)},
		{createBookmarkGetTool(), handleBookmarkGet(c, logger)},
		{createBookmarkManageTool(), handleBookmarkManage(c, logger)},
		{createBookmarkBatchTool(), handleBookmarkBatch(c, logger)},
		{createTagListTool(), handleTagList(c, logger)},
		{createTagManageTool(), handleTagManage(c, logger)},
		{createHighlightListTool(), handleHighlightList(c, logger)},
		{createHighlightManageTool(), handleHighlightManage(c, logger)},
		{createUserGetTool(), handleUserGet(c, logger)},
		{createImportURLParseTool(), handleImportURLParse(c, logger)},
		{createExportBookmarksTool(), handleExportBookmarks(c, logger)},
	}
	for _, t := range tools {
		s.AddTool(t.tool, t.handler)
	}
	return len(tools)
}

// --- Tool definitions ---

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Raindrop MCP server version and upstream connectivity status. Use this to verify the server is configured correctly."),
	)
}

func createCollectionListTool() mcp.Tool {
	return mcp.NewTool("collection_list",
		mcp.WithDescription("List bookmark collections (folders). Returns id, title, bookmark count, and parent for each."),
		mcp.WithString("scope", mcp.Description("Which collections to list: 'root' (top level), 'children' (nested), or 'all' (default)"), mcp.Enum("root", "children", "all")),
		mcp.WithNumber("limit", mcp.Description("Maximum results per page (1-100, default 25)")),
		mcp.WithNumber("offset", mcp.Description("Zero-based pagination offset (default 0)")),
	)
}

func createCollectionGetTool() mcp.Tool {
	return mcp.NewTool("collection_get",
		mcp.WithDescription("Get a single collection by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Collection id")),
	)
}

func createCollectionManageTool() mcp.Tool {
	return mcp.NewTool("collection_manage",
		mcp.WithDescription("Create, update, or delete a collection. 'create' requires title; 'update' and 'delete' require id."),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Lifecycle verb"), mcp.Enum("create", "update", "delete")),
		mcp.WithNumber("id", mcp.Description("Collection id (required for update/delete)")),
		mcp.WithString("title", mcp.Description("Collection title (required for create)")),
		mcp.WithString("description", mcp.Description("Collection description")),
		mcp.WithString("color", mcp.Description("Collection color, e.g. '#0f9d58'")),
		mcp.WithNumber("parent", mcp.Description("Parent collection id (omit for top level)")),
		mcp.WithBoolean("expanded", mcp.Description("Whether the collection's sub-collections are expanded")),
		mcp.WithBoolean("public", mcp.Description("Whether the collection is publicly accessible")),
	)
}

func createBookmarkSearchTool() mcp.Tool {
	return mcp.NewTool("bookmark_search",
		mcp.WithDescription("Search bookmarks. Supports full-text search, tag and importance filters, and sorting. Omit all filters to list everything."),
		mcp.WithString("search", mcp.Description("Full-text search query")),
		mcp.WithNumber("collection", mcp.Description("Collection id to search within (0 = all collections, -1 = unsorted, -99 = trash; default 0)")),
		mcp.WithString("tag", mcp.Description("Filter to bookmarks carrying this tag")),
		mcp.WithBoolean("important", mcp.Description("Filter to bookmarks marked important")),
		mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("-created", "created", "-last_update", "last_update", "title", "-title", "domain", "-domain", "score")),
		mcp.WithNumber("limit", mcp.Description("Maximum results per page (1-100, default 25)")),
		mcp.WithNumber("offset", mcp.Description("Zero-based pagination offset (default 0)")),
	)
}

func createBookmarkGetTool() mcp.Tool {
	return mcp.NewTool("bookmark_get",
		mcp.WithDescription("Get a single bookmark by id, including its highlights."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Bookmark id")),
	)
}

func createBookmarkManageTool() mcp.Tool {
	return mcp.NewTool("bookmark_manage",
		mcp.WithDescription("Create, update, or delete a bookmark. 'create' requires link; 'update' and 'delete' require id. Deleting moves the bookmark to trash."),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Lifecycle verb"), mcp.Enum("create", "update", "delete")),
		mcp.WithNumber("id", mcp.Description("Bookmark id (required for update/delete)")),
		mcp.WithString("link", mcp.Description("Bookmark URL (required for create)")),
		mcp.WithString("title", mcp.Description("Bookmark title")),
		mcp.WithString("excerpt", mcp.Description("Short description or excerpt")),
		mcp.WithString("note", mcp.Description("Personal note")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tags to set on the bookmark (replaces existing tags)")),
		mcp.WithBoolean("important", mcp.Description("Mark the bookmark as important")),
		mcp.WithNumber("collection", mcp.Description("Collection id to file the bookmark under")),
		mcp.WithString("reminder_date", mcp.Description("Reminder date (ISO-8601)")),
		mcp.WithString("reminder_note", mcp.Description("Reminder note")),
	)
}

func createBookmarkBatchTool() mcp.Tool {
	return mcp.NewTool("bookmark_batch",
		mcp.WithDescription("Apply one operation to many bookmarks: update fields, move to a collection, add/remove tags, delete (to trash), or delete permanently. Partial failures are reported as a single aggregate error."),
		mcp.WithArray("ids", mcp.Items(map[string]any{"type": "number"}), mcp.Required(), mcp.Description("Bookmark ids to operate on")),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Batch verb"), mcp.Enum("update", "move", "tag_add", "tag_remove", "delete", "delete_permanent")),
		mcp.WithNumber("collection", mcp.Description("Target collection id (required for move)")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tags to add or remove (required for tag_add/tag_remove)")),
		mcp.WithBoolean("important", mcp.Description("Set the important flag (update only)")),
	)
}

func createTagListTool() mcp.Tool {
	return mcp.NewTool("tag_list",
		mcp.WithDescription("List tags with their usage counts, optionally scoped to one collection."),
		mcp.WithNumber("collection", mcp.Description("Collection id to scope the listing (omit for all collections)")),
		mcp.WithNumber("limit", mcp.Description("Maximum results per page (1-100, default 25)")),
		mcp.WithNumber("offset", mcp.Description("Zero-based pagination offset (default 0)")),
	)
}

func createTagManageTool() mcp.Tool {
	return mcp.NewTool("tag_manage",
		mcp.WithDescription("Rename, merge, or delete tags. 'rename' takes tag + new_name; 'merge' collapses tags[] into new_name; 'delete' removes tags[]. All verbs optionally scope to one collection."),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Tag verb"), mcp.Enum("rename", "merge", "delete")),
		mcp.WithString("tag", mcp.Description("Tag name to rename (rename only)")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tag names (merge sources, or tags to delete)")),
		mcp.WithString("new_name", mcp.Description("Destination tag name (required for rename/merge)")),
		mcp.WithNumber("collection", mcp.Description("Collection id to scope the operation (omit for all collections)")),
	)
}

func createHighlightListTool() mcp.Tool {
	return mcp.NewTool("highlight_list",
		mcp.WithDescription("List text highlights: across all bookmarks, within one collection, or for one bookmark."),
		mcp.WithNumber("bookmark", mcp.Description("Bookmark id to list highlights for (a bookmark with no highlights yields an empty list)")),
		mcp.WithNumber("collection", mcp.Description("Collection id to scope the listing")),
		mcp.WithNumber("limit", mcp.Description("Maximum results per page (1-100, default 25)")),
		mcp.WithNumber("offset", mcp.Description("Zero-based pagination offset (default 0)")),
	)
}

func createHighlightManageTool() mcp.Tool {
	return mcp.NewTool("highlight_manage",
		mcp.WithDescription("Create, update, or delete a highlight on a bookmark. 'create' requires bookmark + text; 'update' and 'delete' require bookmark + id. Unknown colors fall back to yellow."),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Lifecycle verb"), mcp.Enum("create", "update", "delete")),
		mcp.WithNumber("bookmark", mcp.Required(), mcp.Description("Owning bookmark id")),
		mcp.WithNumber("id", mcp.Description("Highlight id (required for update/delete)")),
		mcp.WithString("text", mcp.Description("Highlighted text (required non-empty for create)")),
		mcp.WithString("note", mcp.Description("Note attached to the highlight")),
		mcp.WithString("color", mcp.Description("Highlight color"), mcp.Enum("blue", "brown", "cyan", "gray", "green", "indigo", "orange", "pink", "purple", "red", "teal", "yellow")),
	)
}

func createUserGetTool() mcp.Tool {
	return mcp.NewTool("user_get",
		mcp.WithDescription("Get the authenticated Raindrop.io account profile."),
	)
}

func createImportURLParseTool() mcp.Tool {
	return mcp.NewTool("import_url_parse",
		mcp.WithDescription("Parse a URL's metadata (title, excerpt, media) without saving it. Useful before creating a bookmark."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to parse")),
	)
}

func createExportBookmarksTool() mcp.Tool {
	return mcp.NewTool("export_bookmarks",
		mcp.WithDescription("Build a download link exporting a collection's bookmarks to a file."),
		mcp.WithNumber("collection", mcp.Required(), mcp.Description("Collection id to export (0 = all collections)")),
		mcp.WithString("format", mcp.Description("Export file format (default csv)"), mcp.Enum("csv", "html", "zip")),
	)
}
