package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/raindrop-mcp/internal/common"
	"github.com/bobmcallan/raindrop-mcp/internal/raindrop"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// toolError renders a client error with its kind so callers can tell an
// auth failure from a rate limit without parsing prose.
func toolError(err error) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("Error (%s): %v", raindrop.KindOf(err), err))
}

func validationResult(message string) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("Error (%s): %s", raindrop.KindValidation, message))
}

func getString(request mcp.CallToolRequest, key, defaultVal string) string {
	return request.GetString(key, defaultVal)
}

func getInt(request mcp.CallToolRequest, key string, defaultVal int) int {
	return request.GetInt(key, defaultVal)
}

func getBool(request mcp.CallToolRequest, key string, defaultVal bool) bool {
	return request.GetBool(key, defaultVal)
}

func getStringSlice(request mcp.CallToolRequest, key string) []string {
	return request.GetStringSlice(key, nil)
}

func hasArg(request mcp.CallToolRequest, key string) bool {
	_, ok := request.GetArguments()[key]
	return ok
}

// optString returns a pointer only when the argument was supplied, so
// updates can distinguish "leave untouched" from "set to empty".
func optString(request mcp.CallToolRequest, key string) *string {
	if !hasArg(request, key) {
		return nil
	}
	v := request.GetString(key, "")
	return &v
}

func optBool(request mcp.CallToolRequest, key string) *bool {
	if !hasArg(request, key) {
		return nil
	}
	v := request.GetBool(key, false)
	return &v
}

func optInt64(request mcp.CallToolRequest, key string) *int64 {
	if !hasArg(request, key) {
		return nil
	}
	v := int64(request.GetInt(key, 0))
	return &v
}

// getInt64Slice coerces a JSON array argument into ids. JSON numbers arrive
// as float64.
func getInt64Slice(request mcp.CallToolRequest, key string) []int64 {
	raw, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			out = append(out, int64(v))
		case int:
			out = append(out, int64(v))
		case int64:
			out = append(out, v)
		}
	}
	return out
}

// pageParams reads limit/offset and translates them to the upstream's
// 1-indexed page addressing.
func pageParams(request mcp.CallToolRequest) (limit, offset, page int) {
	limit = clampLimit(getInt(request, "limit", defaultLimit))
	offset = getInt(request, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset, pageForOffset(offset, limit)
}

func requestLogger(logger *common.Logger, tool string) *common.Logger {
	log := logger.WithCorrelationId(uuid.New().String())
	log.Debug().Str("tool", tool).Msg("handling tool call")
	return log
}

// --- Handlers ---

func handleGetVersion(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestLogger(logger, "get_version")

		result := fmt.Sprintf("Raindrop MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nUpstream: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit(), c.BaseURL())
		return textResult(result), nil
	}
}

func handleCollectionList(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "collection_list")

		scope := getString(request, "scope", "all")
		limit, offset, _ := pageParams(request)

		var collections []raindrop.Collection
		var err error
		switch scope {
		case "root":
			collections, err = c.ListRootCollections(ctx)
		case "children":
			collections, err = c.ListChildCollections(ctx)
		case "all":
			var roots, children []raindrop.Collection
			roots, err = c.ListRootCollections(ctx)
			if err == nil {
				children, err = c.ListChildCollections(ctx)
			}
			collections = append(roots, children...)
		default:
			return validationResult("scope must be one of: root, children, all"), nil
		}
		if err != nil {
			log.Warn().Str("error", err.Error()).Msg("collection list failed")
			return toolError(err), nil
		}

		total := len(collections)
		page := slicePage(collections, offset, limit)
		return textResult(formatCollections(page, total, offset)), nil
	}
}

func handleCollectionGet(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "collection_get")

		id, err := request.RequireInt("id")
		if err != nil {
			return validationResult("id is required"), nil
		}

		collection, err := c.GetCollection(ctx, int64(id))
		if err != nil {
			log.Warn().Int("id", id).Str("error", err.Error()).Msg("collection get failed")
			return toolError(err), nil
		}
		return textResult(formatCollectionDetail(collection)), nil
	}
}

func handleCollectionManage(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "collection_manage")

		op, err := parseManageOp(getString(request, "operation", ""), opCreate, opUpdate, opDelete)
		if err != nil {
			return validationResult(err.Error()), nil
		}

		params := raindrop.CollectionParams{
			Title:       optString(request, "title"),
			Description: optString(request, "description"),
			Color:       optString(request, "color"),
			Parent:      optInt64(request, "parent"),
			Expanded:    optBool(request, "expanded"),
			Public:      optBool(request, "public"),
		}

		switch op {
		case opCreate:
			if params.Title == nil || strings.TrimSpace(*params.Title) == "" {
				return validationResult("title is required for create"), nil
			}
			collection, err := c.CreateCollection(ctx, params)
			if err != nil {
				log.Warn().Str("error", err.Error()).Msg("collection create failed")
				return toolError(err), nil
			}
			return textResult("Collection created.\n\n" + formatCollectionDetail(collection)), nil

		case opUpdate:
			id, err := request.RequireInt("id")
			if err != nil {
				return validationResult("id is required for update"), nil
			}
			collection, err := c.UpdateCollection(ctx, int64(id), params)
			if err != nil {
				log.Warn().Int("id", id).Str("error", err.Error()).Msg("collection update failed")
				return toolError(err), nil
			}
			return textResult("Collection updated.\n\n" + formatCollectionDetail(collection)), nil

		default: // opDelete
			id, err := request.RequireInt("id")
			if err != nil {
				return validationResult("id is required for delete"), nil
			}
			ok, err := c.DeleteCollection(ctx, int64(id))
			if err != nil {
				log.Warn().Int("id", id).Str("error", err.Error()).Msg("collection delete failed")
				return toolError(err), nil
			}
			if !ok {
				return errorResult(fmt.Sprintf("Error (%s): upstream refused to delete collection %d", raindrop.KindUpstream, id)), nil
			}
			return textResult(fmt.Sprintf("Collection %d deleted. Its bookmarks were moved to Trash.", id)), nil
		}
	}
}

func handleBookmarkSearch(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "bookmark_search")

		limit, offset, page := pageParams(request)
		params := raindrop.SearchParams{
			Collection: int64(getInt(request, "collection", int(raindrop.CollectionAll))),
			Search:     getString(request, "search", ""),
			Tag:        getString(request, "tag", ""),
			Important:  getBool(request, "important", false),
			Sort:       getString(request, "sort", ""),
			Page:       page,
			PerPage:    limit,
		}

		result, err := c.SearchBookmarks(ctx, params)
		if err != nil {
			log.Warn().Str("error", err.Error()).Msg("bookmark search failed")
			return toolError(err), nil
		}
		return textResult(formatBookmarks(result.Bookmarks, result.Total, offset)), nil
	}
}

func handleBookmarkGet(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "bookmark_get")

		id, err := request.RequireInt("id")
		if err != nil {
			return validationResult("id is required"), nil
		}

		bookmark, err := c.GetBookmark(ctx, int64(id))
		if err != nil {
			log.Warn().Int("id", id).Str("error", err.Error()).Msg("bookmark get failed")
			return toolError(err), nil
		}
		return textResult(formatBookmarkDetail(bookmark)), nil
	}
}

func handleBookmarkManage(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "bookmark_manage")

		op, err := parseManageOp(getString(request, "operation", ""), opCreate, opUpdate, opDelete)
		if err != nil {
			return validationResult(err.Error()), nil
		}

		params := raindrop.BookmarkParams{
			Link:         optString(request, "link"),
			Title:        optString(request, "title"),
			Excerpt:      optString(request, "excerpt"),
			Note:         optString(request, "note"),
			Important:    optBool(request, "important"),
			Collection:   optInt64(request, "collection"),
			ReminderDate: optString(request, "reminder_date"),
			ReminderNote: optString(request, "reminder_note"),
		}
		if hasArg(request, "tags") {
			params.Tags = getStringSlice(request, "tags")
			if params.Tags == nil {
				params.Tags = []string{}
			}
		}

		switch op {
		case opCreate:
			if params.Link == nil || strings.TrimSpace(*params.Link) == "" {
				return validationResult("link is required for create"), nil
			}
			bookmark, err := c.CreateBookmark(ctx, params)
			if err != nil {
				log.Warn().Str("error", err.Error()).Msg("bookmark create failed")
				return toolError(err), nil
			}
			return textResult("Bookmark created.\n\n" + formatBookmarkDetail(bookmark)), nil

		case opUpdate:
			id, err := request.RequireInt("id")
			if err != nil {
				return validationResult("id is required for update"), nil
			}
			bookmark, err := c.UpdateBookmark(ctx, int64(id), params)
			if err != nil {
				log.Warn().Int("id", id).Str("error", err.Error()).Msg("bookmark update failed")
				return toolError(err), nil
			}
			return textResult("Bookmark updated.\n\n" + formatBookmarkDetail(bookmark)), nil

		default: // opDelete
			id, err := request.RequireInt("id")
			if err != nil {
				return validationResult("id is required for delete"), nil
			}
			ok, err := c.DeleteBookmark(ctx, int64(id))
			if err != nil {
				log.Warn().Int("id", id).Str("error", err.Error()).Msg("bookmark delete failed")
				return toolError(err), nil
			}
			if !ok {
				return errorResult(fmt.Sprintf("Error (%s): upstream refused to delete bookmark %d", raindrop.KindUpstream, id)), nil
			}
			return textResult(fmt.Sprintf("Bookmark %d moved to Trash.", id)), nil
		}
	}
}

func handleBookmarkBatch(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "bookmark_batch")

		op, err := parseBatchOp(getString(request, "operation", ""))
		if err != nil {
			return validationResult(err.Error()), nil
		}
		ids := getInt64Slice(request, "ids")
		if len(ids) == 0 {
			return validationResult("ids must contain at least one bookmark id"), nil
		}

		switch op {
		case batchUpdate:
			fields := map[string]any{}
			if important := optBool(request, "important"); important != nil {
				fields["important"] = *important
			}
			if len(fields) == 0 {
				return validationResult("update requires at least one field to change"), nil
			}
			if _, err := c.BatchUpdateBookmarks(ctx, raindrop.CollectionAll, ids, fields); err != nil {
				log.Warn().Str("error", err.Error()).Msg("batch update failed")
				return toolError(err), nil
			}
			return textResult(fmt.Sprintf("Updated %d bookmarks.", len(ids))), nil

		case batchMove:
			target := optInt64(request, "collection")
			if target == nil {
				return validationResult("collection is required for move"), nil
			}
			fields := map[string]any{"collection": map[string]any{"$id": *target}}
			if _, err := c.BatchUpdateBookmarks(ctx, raindrop.CollectionAll, ids, fields); err != nil {
				log.Warn().Str("error", err.Error()).Msg("batch move failed")
				return toolError(err), nil
			}
			return textResult(fmt.Sprintf("Moved %d bookmarks to collection %d.", len(ids), *target)), nil

		case batchTagAdd, batchTagRemove:
			tags := getStringSlice(request, "tags")
			if len(tags) == 0 {
				return validationResult("tags must contain at least one tag"), nil
			}
			remove := op == batchTagRemove
			if err := c.BatchModifyTags(ctx, ids, tags, remove); err != nil {
				log.Warn().Str("error", err.Error()).Msg("batch tag modify failed")
				return toolError(err), nil
			}
			verb := "Added"
			if remove {
				verb = "Removed"
			}
			return textResult(fmt.Sprintf("%s tags [%s] on %d bookmarks.", verb, strings.Join(tags, ", "), len(ids))), nil

		case batchDelete:
			if _, err := c.BatchDeleteBookmarks(ctx, raindrop.CollectionAll, ids); err != nil {
				log.Warn().Str("error", err.Error()).Msg("batch delete failed")
				return toolError(err), nil
			}
			return textResult(fmt.Sprintf("Moved %d bookmarks to Trash.", len(ids))), nil

		default: // batchDeletePermanent
			if _, err := c.BatchDeleteBookmarks(ctx, raindrop.CollectionTrash, ids); err != nil {
				log.Warn().Str("error", err.Error()).Msg("batch permanent delete failed")
				return toolError(err), nil
			}
			return textResult(fmt.Sprintf("Permanently deleted %d bookmarks.", len(ids))), nil
		}
	}
}

func handleTagList(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "tag_list")

		scope := optInt64(request, "collection")
		limit, offset, _ := pageParams(request)

		tags, err := c.ListTags(ctx, scope)
		if err != nil {
			log.Warn().Str("error", err.Error()).Msg("tag list failed")
			return toolError(err), nil
		}

		total := len(tags)
		page := slicePage(tags, offset, limit)
		return textResult(formatTags(page, total, offset)), nil
	}
}

func handleTagManage(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "tag_manage")

		op, err := parseManageOp(getString(request, "operation", ""), opRename, opMerge, opDelete)
		if err != nil {
			return validationResult(err.Error()), nil
		}
		scope := optInt64(request, "collection")

		switch op {
		case opRename:
			oldName := strings.TrimSpace(getString(request, "tag", ""))
			newName := strings.TrimSpace(getString(request, "new_name", ""))
			if oldName == "" || newName == "" {
				return validationResult("rename requires tag and new_name"), nil
			}
			ok, err := c.RenameTag(ctx, scope, oldName, newName)
			if err != nil {
				log.Warn().Str("error", err.Error()).Msg("tag rename failed")
				return toolError(err), nil
			}
			if !ok {
				return errorResult(fmt.Sprintf("Error (%s): upstream refused to rename tag %q", raindrop.KindUpstream, oldName)), nil
			}
			return textResult(fmt.Sprintf("Tag %q renamed to %q.", oldName, newName)), nil

		case opMerge:
			sources := getStringSlice(request, "tags")
			dest := strings.TrimSpace(getString(request, "new_name", ""))
			if len(sources) == 0 || dest == "" {
				return validationResult("merge requires tags and new_name"), nil
			}
			ok, err := c.MergeTags(ctx, scope, sources, dest)
			if err != nil {
				log.Warn().Str("error", err.Error()).Msg("tag merge failed")
				return toolError(err), nil
			}
			if !ok {
				return errorResult(fmt.Sprintf("Error (%s): upstream refused to merge tags into %q", raindrop.KindUpstream, dest)), nil
			}
			return textResult(fmt.Sprintf("Merged [%s] into %q.", strings.Join(sources, ", "), dest)), nil

		default: // opDelete
			tags := getStringSlice(request, "tags")
			if len(tags) == 0 {
				return validationResult("delete requires tags"), nil
			}
			ok, err := c.DeleteTags(ctx, scope, tags)
			if err != nil {
				log.Warn().Str("error", err.Error()).Msg("tag delete failed")
				return toolError(err), nil
			}
			if !ok {
				return errorResult(fmt.Sprintf("Error (%s): upstream refused to delete tags [%s]", raindrop.KindUpstream, strings.Join(tags, ", "))), nil
			}
			return textResult(fmt.Sprintf("Deleted tags [%s].", strings.Join(tags, ", "))), nil
		}
	}
}

func handleHighlightList(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "highlight_list")

		limit, _, page := pageParams(request)

		var highlights []raindrop.Highlight
		var err error
		switch {
		case hasArg(request, "bookmark"):
			highlights, err = c.ListBookmarkHighlights(ctx, int64(getInt(request, "bookmark", 0)))
		case hasArg(request, "collection"):
			highlights, err = c.ListCollectionHighlights(ctx, int64(getInt(request, "collection", 0)), page, limit)
		default:
			highlights, err = c.ListHighlights(ctx, page, limit)
		}
		if err != nil {
			log.Warn().Str("error", err.Error()).Msg("highlight list failed")
			return toolError(err), nil
		}
		return textResult(formatHighlights(highlights)), nil
	}
}

func handleHighlightManage(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "highlight_manage")

		op, err := parseManageOp(getString(request, "operation", ""), opCreate, opUpdate, opDelete)
		if err != nil {
			return validationResult(err.Error()), nil
		}
		bookmark, err := request.RequireInt("bookmark")
		if err != nil {
			return validationResult("bookmark is required"), nil
		}

		switch op {
		case opCreate:
			text := getString(request, "text", "")
			if strings.TrimSpace(text) == "" {
				return validationResult("text is required for create"), nil
			}
			h, err := c.CreateHighlight(ctx, int64(bookmark), text,
				getString(request, "note", ""), getString(request, "color", ""))
			if err != nil {
				log.Warn().Int("bookmark", bookmark).Str("error", err.Error()).Msg("highlight create failed")
				return toolError(err), nil
			}
			return textResult("Highlight created.\n\n" + formatHighlightDetail(h)), nil

		case opUpdate:
			id, err := request.RequireInt("id")
			if err != nil {
				return validationResult("id is required for update"), nil
			}
			text := optString(request, "text")
			note := optString(request, "note")
			color := optString(request, "color")
			if text == nil && note == nil && color == nil {
				return validationResult("update requires at least one of text, note, color"), nil
			}
			h, err := c.UpdateHighlight(ctx, int64(bookmark), int64(id), text, note, color)
			if err != nil {
				log.Warn().Int("bookmark", bookmark).Int("id", id).Str("error", err.Error()).Msg("highlight update failed")
				return toolError(err), nil
			}
			return textResult("Highlight updated.\n\n" + formatHighlightDetail(h)), nil

		default: // opDelete
			id, err := request.RequireInt("id")
			if err != nil {
				return validationResult("id is required for delete"), nil
			}
			ok, err := c.DeleteHighlight(ctx, int64(bookmark), int64(id))
			if err != nil {
				log.Warn().Int("bookmark", bookmark).Int("id", id).Str("error", err.Error()).Msg("highlight delete failed")
				return toolError(err), nil
			}
			if !ok {
				return errorResult(fmt.Sprintf("Error (%s): upstream refused to delete highlight %d", raindrop.KindUpstream, id)), nil
			}
			return textResult(fmt.Sprintf("Highlight %d deleted from bookmark %d.", id, bookmark)), nil
		}
	}
}

func handleUserGet(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "user_get")

		user, err := c.GetUser(ctx)
		if err != nil {
			log.Warn().Str("error", err.Error()).Msg("user get failed")
			return toolError(err), nil
		}
		return textResult(formatUser(user)), nil
	}
}

func handleImportURLParse(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := requestLogger(logger, "import_url_parse")

		link, err := request.RequireString("url")
		if err != nil || strings.TrimSpace(link) == "" {
			return validationResult("url is required"), nil
		}

		parsed, err := c.ParseURL(ctx, link)
		if err != nil {
			log.Warn().Str("url", link).Str("error", err.Error()).Msg("url parse failed")
			return toolError(err), nil
		}
		return textResult(formatParsedURL(link, parsed)), nil
	}
}

func handleExportBookmarks(c *raindrop.Client, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestLogger(logger, "export_bookmarks")

		collection, err := request.RequireInt("collection")
		if err != nil {
			return validationResult("collection is required"), nil
		}
		format := getString(request, "format", "csv")

		link, err := c.ExportURL(int64(collection), format)
		if err != nil {
			return toolError(err), nil
		}
		return textResult(fmt.Sprintf("Export link for collection %d (%s):\n%s\n\nDownload requires the same Authorization header the server uses.", collection, format, link)), nil
	}
}
