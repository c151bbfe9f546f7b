package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is one MCP tool backed by the query service.
type Tool struct {
	service *Service
	command Command
}

// Tools returns the MCP tool set, one per query command.
func Tools(service *Service) []*Tool {
	cmds := Commands()
	out := make([]*Tool, len(cmds))
	for i, c := range cmds {
		out[i] = &Tool{service: service, command: c}
	}
	return out
}

// Definition returns the MCP schema for this tool's command.
func (t *Tool) Definition() mcp.Tool {
	switch t.command {
	case CommandSearchPackages:
		return mcp.NewTool(string(t.command),
			mcp.WithDescription("Search stored climate packages by minimum quality score and element codes (TMAX, TMIN, PRCP, ...). Returns the latest revision of each match."),
			mcp.WithNumber("min_score",
				mcp.Description("Minimum quality score, 0-100 (default: 0)"),
			),
			mcp.WithString("elements",
				mcp.Description("Comma-separated element codes; a package matches if it carries any of them"),
			),
		)
	case CommandGetPackageMetrics:
		return mcp.NewTool(string(t.command),
			mcp.WithDescription("Get the full quality report of one package revision: total score, the five sub-scores, null density, outliers, and diagnostics."),
			mcp.WithString("package", mcp.Required(),
				mcp.Description("Package name, e.g. climate/observations"),
			),
			mcp.WithNumber("version",
				mcp.Description("Revision number (default: latest)"),
			),
		)
	case CommandComparePackages:
		return mcp.NewTool(string(t.command),
			mcp.WithDescription("Compare two package revisions and report quality drift: per-sub-score deltas and an improved/degraded/stable trend."),
			mcp.WithString("package", mcp.Required(),
				mcp.Description("First package name"),
			),
			mcp.WithNumber("version",
				mcp.Description("First revision (default: latest)"),
			),
			mcp.WithString("other_package",
				mcp.Description("Second package name (default: same as package)"),
			),
			mcp.WithNumber("other_version",
				mcp.Description("Second revision (default: latest)"),
			),
		)
	case CommandGetSampleRows:
		return mcp.NewTool(string(t.command),
			mcp.WithDescription("Fetch stored sample observation rows of one package revision."),
			mcp.WithString("package", mcp.Required(),
				mcp.Description("Package name"),
			),
			mcp.WithNumber("version",
				mcp.Description("Revision number (default: latest)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum rows to return (default: all stored samples)"),
			),
		)
	case CommandListPackages:
		return mcp.NewTool(string(t.command),
			mcp.WithDescription("List every stored package with its latest revision, quality score, and elements."),
		)
	default:
		// Commands() only yields members of the closed set.
		panic(fmt.Sprintf("no definition for command %q", t.command))
	}
}

// Handle executes the tool call through the dispatch switch and renders the
// result as JSON text.
func (t *Tool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qreq := Request{
		Command:      t.command,
		Package:      req.GetString("package", ""),
		Version:      int64(intArg(req, "version", 0)),
		OtherPackage: req.GetString("other_package", ""),
		OtherVersion: int64(intArg(req, "other_version", 0)),
		MinScore:     floatArg(req, "min_score", 0),
		Limit:        intArg(req, "limit", 0),
	}
	if raw := req.GetString("elements", ""); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			if e = strings.TrimSpace(e); e != "" {
				qreq.Elements = append(qreq.Elements, e)
			}
		}
	}

	result, err := t.service.Dispatch(ctx, qreq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", t.command, err)), nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", t.command, err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// floatArg extracts a numeric argument, returning defaultVal if the key is
// missing or not a number (JSON numbers arrive as float64).
func floatArg(req mcp.CallToolRequest, key string, defaultVal float64) float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return v
}

func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	return int(floatArg(req, key, float64(defaultVal)))
}
