package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/raindrop-mcp/internal/common"
	"github.com/bobmcallan/raindrop-mcp/internal/raindrop"
)

const (
	resourceUserProfile = "raindrop://user/profile"
	resourceDiagnostics = "raindrop://diagnostics/server"

	// recentLogLimit caps how many memory-writer entries diagnostics reports.
	recentLogLimit = 20
)

var serverStart = time.Now()

// RegisterResources registers the read-only resource surface: the account
// profile, server diagnostics, and templated collection/bookmark lookups.
// toolCount is reported by the diagnostics resource.
func RegisterResources(s *server.MCPServer, c *raindrop.Client, logger *common.Logger, toolCount int) {
	s.AddResource(mcp.NewResource(resourceUserProfile, "User Profile",
		mcp.WithResourceDescription("The authenticated Raindrop.io account profile"),
		mcp.WithMIMEType("application/json"),
	), handleUserResource(c, logger))

	s.AddResource(mcp.NewResource(resourceDiagnostics, "Server Diagnostics",
		mcp.WithResourceDescription("Server version, uptime, recent log entries, and configuration summary"),
		mcp.WithMIMEType("application/json"),
	), handleDiagnosticsResource(c, logger, toolCount))

	s.AddResourceTemplate(mcp.NewResourceTemplate("raindrop://collection/{id}", "Collection",
		mcp.WithTemplateDescription("A single collection by numeric id"),
		mcp.WithTemplateMIMEType("application/json"),
	), handleCollectionResource(c, logger))

	s.AddResourceTemplate(mcp.NewResourceTemplate("raindrop://raindrop/{id}", "Bookmark",
		mcp.WithTemplateDescription("A single bookmark by numeric id, highlights included"),
		mcp.WithTemplateMIMEType("application/json"),
	), handleBookmarkResource(c, logger))
}

// trailingID parses the final path segment of a resource URI as an id.
func trailingID(uri string) (int64, error) {
	seg := uri
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		seg = uri[i+1:]
	}
	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil {
		return 0, raindrop.NewValidationError("read resource", fmt.Sprintf("resource id %q is not an integer", seg))
	}
	return id, nil
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func handleUserResource(c *raindrop.Client, logger *common.Logger) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		user, err := c.GetUser(ctx)
		if err != nil {
			logger.Warn().Str("uri", request.Params.URI).Str("error", err.Error()).Msg("user resource read failed")
			return nil, err
		}
		return jsonContents(request.Params.URI, user)
	}
}

func handleDiagnosticsResource(c *raindrop.Client, logger *common.Logger, toolCount int) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		recent := []string{}
		if logs, err := logger.GetMemoryLogsWithLimit(recentLogLimit); err == nil {
			for _, line := range logs {
				recent = append(recent, line)
			}
			sort.Strings(recent)
		}

		diag := map[string]any{
			"name":    "raindrop-mcp",
			"version": common.GetVersion(),
			"build":   common.GetBuild(),
			"commit":  common.GetGitCommit(),
			"uptime":  time.Since(serverStart).Round(time.Second).String(),
			"started": serverStart.UTC().Format(time.RFC3339),
			"tools":   toolCount,
			"upstream": map[string]any{
				"base_url": c.BaseURL(),
			},
			"recent_logs": recent,
		}
		return jsonContents(request.Params.URI, diag)
	}
}

func handleCollectionResource(c *raindrop.Client, logger *common.Logger) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, err := trailingID(request.Params.URI)
		if err != nil {
			return nil, err
		}
		collection, err := c.GetCollection(ctx, id)
		if err != nil {
			logger.Warn().Str("uri", request.Params.URI).Str("error", err.Error()).Msg("collection resource read failed")
			return nil, err
		}
		return jsonContents(request.Params.URI, collection)
	}
}

func handleBookmarkResource(c *raindrop.Client, logger *common.Logger) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, err := trailingID(request.Params.URI)
		if err != nil {
			return nil, err
		}
		bookmark, err := c.GetBookmark(ctx, id)
		if err != nil {
			logger.Warn().Str("uri", request.Params.URI).Str("error", err.Error()).Msg("bookmark resource read failed")
			return nil, err
		}
		return jsonContents(request.Params.URI, bookmark)
	}
}
