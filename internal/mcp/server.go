// Package mcp exposes the query compiler as MCP tools over stdio.
package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wesm/notequery/internal/search"
	"github.com/wesm/notequery/internal/store"
)

// SavedSearches is the read side of the saved-search store.
type SavedSearches interface {
	ListSearches() ([]store.SavedSearch, error)
	GetSearch(name string) (*store.SavedSearch, error)
}

// Serve creates an MCP server with query tools and serves over stdio.
// It blocks until stdin is closed or the context is cancelled.
// saved may be nil, in which case the saved-search tools are not offered.
func Serve(ctx context.Context, compiler *search.Compiler, saved SavedSearches) error {
	s := newServer(compiler, saved)
	stdio := server.NewStdioServer(s)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func newServer(compiler *search.Compiler, saved SavedSearches) *server.MCPServer {
	s := server.NewMCPServer(
		"notequery",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	h := &handlers{compiler: compiler, saved: saved}

	s.AddTool(compileQueryTool(), h.compileQuery)
	s.AddTool(tokenizeQueryTool(), h.tokenizeQuery)
	if saved != nil {
		s.AddTool(listSavedSearchesTool(), h.listSavedSearches)
		s.AddTool(getSavedSearchTool(), h.getSavedSearch)
	}
	return s
}

func compileQueryTool() mcp.Tool {
	return mcp.NewTool("compile_query",
		mcp.WithDescription("Compile an Evernote-style note search query into typed predicates. Supports notebook:, any:, tag:, intitle:, created:/updated: with ISO dates or day/week/month/year offsets, latitude:, todo:, encryption:, negation with a leading -, and free text."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query (e.g. 'notebook:Work tag:project created:week-1 -todo:true')"),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA time zone for relative dates (default: server setting)"),
		),
		mcp.WithString("now",
			mcp.Description("RFC 3339 instant to resolve relative dates against (default: current time)"),
		),
	)
}

func tokenizeQueryTool() mcp.Tool {
	return mcp.NewTool("tokenize_query",
		mcp.WithDescription("Split a search query into words the way the compiler sees them, honoring double-quoted phrases."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
	)
}

func listSavedSearchesTool() mcp.Tool {
	return mcp.NewTool("list_saved_searches",
		mcp.WithDescription("List saved searches by name."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getSavedSearchTool() mcp.Tool {
	return mcp.NewTool("get_saved_search",
		mcp.WithDescription("Get a saved search by name and return it compiled."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Saved search name"),
		),
	)
}
