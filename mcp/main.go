// MCP Server for erbname - exposes ERB name resolution tools to LLMs
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"erbname/convert"
	"erbname/render"
	"erbname/rewrite"
	"erbname/tables"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Input types for tools
type ConvertInput struct {
	Path           string   `json:"path" jsonschema:"Path to the game root containing the CSV and ERB directories"`
	Include        []string `json:"include,omitempty" jsonschema:"Extra table families to load"`
	Exclude        []string `json:"exclude,omitempty" jsonschema:"Table families to skip"`
	Normalize      bool     `json:"normalize,omitempty" jsonschema:"Fold full-width characters and spaces in names"`
	ExplicitTarget bool     `json:"explicit_target,omitempty" jsonschema:"Insert :TARGET into unscoped character references"`
	DryRun         bool     `json:"dry_run,omitempty" jsonschema:"Report what would change without writing files"`
}

type PreviewInput struct {
	Path           string `json:"path" jsonschema:"Path to the game root containing the CSV directory"`
	Text           string `json:"text" jsonschema:"Script text to resolve"`
	ExplicitTarget bool   `json:"explicit_target,omitempty" jsonschema:"Insert :TARGET into unscoped character references"`
}

type FamiliesInput struct {
	Path string `json:"path" jsonschema:"Path to the game root containing the CSV directory"`
}

type LookupInput struct {
	Path   string `json:"path" jsonschema:"Path to the game root containing the CSV directory"`
	Family string `json:"family" jsonschema:"Family name, e.g. ABL or TALENT"`
	Index  uint32 `json:"index" jsonschema:"Numeric index to resolve"`
}

func main() {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "erbname",
		Version: "1.0.0",
	}, nil)

	// Tool: convert - Rewrite scripts in place
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Rewrite numeric variable references (ABL:3) in every ERB script under a game root into symbolic names (ABL:STRENGTH) using the CSV tables. Set dry_run to count changes without writing anything. Returns a summary report.",
	}, handleConvert)

	// Tool: preview - Resolve a snippet without touching files
	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview",
		Description: "Resolve variable references in a snippet of script text against a game root's CSV tables, without writing any files. Use this to check how a line would be rewritten.",
	}, handlePreview)

	// Tool: families - List loaded tables
	mcp.AddTool(server, &mcp.Tool{
		Name:        "families",
		Description: "List the table families that load for a game root, with their entry counts and whether they are character-scoped or global. Use this to see which CSV tables are recognized.",
	}, handleFamilies)

	// Tool: lookup - Resolve one index
	mcp.AddTool(server, &mcp.Tool{
		Name:        "lookup",
		Description: "Resolve a single family:index pair to its display name, applying the same alias and NAME-suffix rules as the rewriter.",
	}, handleLookup)

	// Tool: status - Verify MCP connection
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Check erbname MCP server status. Returns version and confirms local filesystem access is available.",
	}, handleStatus)

	// Run server on stdio
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Printf("Server error: %v", err)
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

func handleConvert(ctx context.Context, req *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, any, error) {
	report, err := convert.Run(convert.Options{
		Target:         input.Path,
		Includes:       input.Include,
		Excludes:       input.Exclude,
		Normalize:      input.Normalize,
		ExplicitTarget: input.ExplicitTarget,
		DryRun:         input.DryRun,
	})
	if err != nil {
		return errorResult("Convert error: " + err.Error()), nil, nil
	}

	output := captureOutput(func() {
		render.Summary(report)
	})

	return textResult(output), nil, nil
}

func handlePreview(ctx context.Context, req *mcp.CallToolRequest, input PreviewInput) (*mcp.CallToolResult, any, error) {
	store, warnings, err := tables.Load(input.Path, tables.NewSelection(nil, nil), tables.Normalizer{}, 0)
	if err != nil {
		return errorResult("Load error: " + err.Error()), nil, nil
	}

	resolver := rewrite.NewResolver(store, input.ExplicitTarget)
	out, stats := resolver.Rewrite(input.Text)

	var b strings.Builder
	b.WriteString(out)
	fmt.Fprintf(&b, "\n\n%d resolved, %d missed", stats.Resolved, stats.Missed)
	if len(warnings) > 0 {
		fmt.Fprintf(&b, "\nwarnings:\n  %s", strings.Join(warnings, "\n  "))
	}

	return textResult(b.String()), nil, nil
}

func handleFamilies(ctx context.Context, req *mcp.CallToolRequest, input FamiliesInput) (*mcp.CallToolResult, any, error) {
	store, warnings, err := tables.Load(input.Path, tables.NewSelection(nil, nil), tables.Normalizer{}, 0)
	if err != nil {
		return errorResult("Load error: " + err.Error()), nil, nil
	}
	if store.Len() == 0 {
		return textResult("No table families loaded under '" + input.Path + "'"), nil, nil
	}

	var lines []string
	for _, name := range store.Families() {
		entries, _ := store.Family(name)
		// CFLAG sits on both lists; included extras sit on neither.
		scope := "included"
		switch {
		case tables.IsChara(name) && tables.IsGlobal(name):
			scope = "character+global"
		case tables.IsChara(name):
			scope = "character"
		case tables.IsGlobal(name):
			scope = "global"
		}
		lines = append(lines, fmt.Sprintf("%-12s %5d entries  (%s)", name, len(entries), scope))
	}

	out := fmt.Sprintf("%d families:\n%s", store.Len(), strings.Join(lines, "\n"))
	if len(warnings) > 0 {
		out += "\n\nwarnings:\n  " + strings.Join(warnings, "\n  ")
	}
	return textResult(out), nil, nil
}

func handleLookup(ctx context.Context, req *mcp.CallToolRequest, input LookupInput) (*mcp.CallToolResult, any, error) {
	family := strings.ToUpper(input.Family)
	store, _, err := tables.Load(input.Path, tables.NewSelection([]string{family}, nil), tables.Normalizer{}, 0)
	if err != nil {
		return errorResult("Load error: " + err.Error()), nil, nil
	}

	// Run the reference through the rewriter so alias and NAME-suffix
	// rules apply exactly as they would during a conversion.
	resolver := rewrite.NewResolver(store, false)
	ref := fmt.Sprintf("%s:%d", family, input.Index)
	out, stats := resolver.Rewrite(ref)
	if stats.Resolved == 0 {
		return textResult(fmt.Sprintf("%s has no name (family not loaded or index not in table)", ref)), nil, nil
	}

	return textResult(fmt.Sprintf("%s = %s", ref, out)), nil, nil
}

// EmptyInput for tools that don't need parameters
type EmptyInput struct{}

func handleStatus(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	cwd, _ := os.Getwd()

	return textResult(fmt.Sprintf(`erbname MCP server v1.0.0
Status: connected
Local filesystem access: enabled
Working directory: %s

Available tools:
  convert  - Rewrite ERB scripts in place
  preview  - Resolve a text snippet
  families - List loaded tables
  lookup   - Resolve one family:index`, cwd)), nil, nil
}

// ANSI escape code pattern
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// captureOutput captures stdout from a function and strips ANSI codes
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return stripANSI(buf.String())
}
