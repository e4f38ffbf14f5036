package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wesm/notequery/internal/search"
	"github.com/wesm/notequery/internal/store"
)

type handlers struct {
	compiler *search.Compiler
	saved    SavedSearches
}

// compileResult is the JSON body returned for a compiled query.
type compileResult struct {
	Query     *search.Query `json:"query"`
	Tokens    []string      `json:"tokens"`
	Matchable bool          `json:"matchable"`
	Display   string        `json:"display"`
}

func newCompileResult(q *search.Query) compileResult {
	tokens := q.Tokens()
	if tokens == nil {
		tokens = []string{}
	}
	return compileResult{Query: q, Tokens: tokens, Matchable: q.IsMatchable(), Display: q.DisplayString()}
}

func (h *handlers) compileQuery(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	queryStr, _ := args["query"].(string)
	if queryStr == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	c := *h.compiler
	if v, ok := args["timezone"].(string); ok && v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid timezone %q: %v", v, err)), nil
		}
		c.Location = loc
	}
	if v, ok := args["now"].(string); ok && v != "" {
		now, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid now %q: expected RFC 3339", v)), nil
		}
		c.Now = func() time.Time { return now }
	}

	q, err := c.Compile(search.Normalize(queryStr))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}
	return jsonResult(newCompileResult(q))
}

func (h *handlers) tokenizeQuery(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	queryStr, _ := args["query"].(string)
	if queryStr == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	words := search.Tokenize(search.Normalize(queryStr))
	if words == nil {
		words = []string{}
	}
	return jsonResult(words)
}

func (h *handlers) listSavedSearches(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	searches, err := h.saved.ListSearches()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if searches == nil {
		searches = []store.SavedSearch{}
	}
	return jsonResult(searches)
}

func (h *handlers) getSavedSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	ss, err := h.saved.GetSearch(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("saved search not found: %v", err)), nil
	}
	q, err := h.compiler.Compile(ss.Query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}

	resp := struct {
		Saved *store.SavedSearch `json:"saved"`
		compileResult
	}{
		Saved:         ss,
		compileResult: newCompileResult(q),
	}
	return jsonResult(resp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
