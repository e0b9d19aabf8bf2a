package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/raindrop-mcp/internal/raindrop"
)

func readRequest(uri string) mcp.ReadResourceRequest {
	request := mcp.ReadResourceRequest{}
	request.Params.URI = uri
	return request
}

func TestTrailingID(t *testing.T) {
	id, err := trailingID("raindrop://collection/42")
	if err != nil || id != 42 {
		t.Errorf("Expected 42, got %d, %v", id, err)
	}

	if _, err := trailingID("raindrop://collection/abc"); err == nil {
		t.Fatal("Expected error for non-numeric id")
	} else if raindrop.KindOf(err) != raindrop.KindValidation {
		t.Errorf("Expected validation kind, got %s", raindrop.KindOf(err))
	}

	id, err = trailingID("raindrop://raindrop/-99")
	if err != nil || id != -99 {
		t.Errorf("Expected negative ids accepted, got %d, %v", id, err)
	}
}

func TestCollectionResource_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collection/7" {
			t.Errorf("Expected /collection/7, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": true,
			"item":   map[string]any{"_id": 7, "title": "Articles", "count": 3},
		})
	}))
	defer mockServer.Close()

	handler := handleCollectionResource(testClient(t, mockServer.URL), testLogger())
	contents, err := handler(context.Background(), readRequest("raindrop://collection/7"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("Expected one content item, got %d", len(contents))
	}
	text := contents[0].(mcp.TextResourceContents)
	if text.MIMEType != "application/json" {
		t.Errorf("Expected application/json, got %s", text.MIMEType)
	}
	if text.URI != "raindrop://collection/7" {
		t.Errorf("Expected request URI echoed, got %s", text.URI)
	}

	var c raindrop.Collection
	if err := json.Unmarshal([]byte(text.Text), &c); err != nil {
		t.Fatalf("Resource body is not valid JSON: %v", err)
	}
	if c.ID != 7 || c.Title != "Articles" {
		t.Errorf("Unexpected collection: %+v", c)
	}
}

func TestCollectionResource_NonNumericID(t *testing.T) {
	handler := handleCollectionResource(testClient(t, "http://localhost:1"), testLogger())
	_, err := handler(context.Background(), readRequest("raindrop://collection/favorites"))
	if err == nil {
		t.Fatal("Expected error for non-numeric id")
	}
	if raindrop.KindOf(err) != raindrop.KindValidation {
		t.Errorf("Expected validation kind, got %s", raindrop.KindOf(err))
	}
}

func TestBookmarkResource_NotFoundPropagates(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"result": false, "errorMessage": "not found"})
	}))
	defer mockServer.Close()

	handler := handleBookmarkResource(testClient(t, mockServer.URL), testLogger())
	_, err := handler(context.Background(), readRequest("raindrop://raindrop/12345"))
	if err == nil {
		t.Fatal("Expected not-found error to propagate")
	}
	if !raindrop.IsNotFound(err) {
		t.Errorf("Expected not_found, got %s", raindrop.KindOf(err))
	}
}

func TestDiagnosticsResource(t *testing.T) {
	handler := handleDiagnosticsResource(testClient(t, "http://localhost:1"), testLogger(), 15)
	contents, err := handler(context.Background(), readRequest(resourceDiagnostics))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents).Text

	var diag map[string]any
	if err := json.Unmarshal([]byte(text), &diag); err != nil {
		t.Fatalf("Diagnostics body is not valid JSON: %v", err)
	}
	if diag["tools"] != float64(15) {
		t.Errorf("Expected tool count 15, got %v", diag["tools"])
	}
	if _, ok := diag["uptime"]; !ok {
		t.Error("Expected uptime in diagnostics")
	}
	if _, ok := diag["recent_logs"]; !ok {
		t.Error("Expected recent log entries in diagnostics")
	}
	if !strings.Contains(text, "version") {
		t.Error("Expected version in diagnostics")
	}
}

func TestRegisterToolsAndResources(t *testing.T) {
	s := server.NewMCPServer("test", "0.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
	)
	c := testClient(t, "http://localhost:1")

	count := RegisterTools(s, c, testLogger())
	if count != 15 {
		t.Errorf("Expected 15 tools registered, got %d", count)
	}
	RegisterResources(s, c, testLogger(), count)
}

func TestUserResource(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"result": true,
			"user":   map[string]any{"_id": 1001, "fullName": "Test Account"},
		})
	}))
	defer mockServer.Close()

	handler := handleUserResource(testClient(t, mockServer.URL), testLogger())
	contents, err := handler(context.Background(), readRequest(resourceUserProfile))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, "Test Account") {
		t.Errorf("Expected profile in body, got: %s", text)
	}
}
