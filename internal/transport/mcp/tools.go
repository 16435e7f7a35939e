package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	promptsvc "github.com/komi0929/myprompt/internal/service/prompt"
	"github.com/komi0929/myprompt/internal/template"
)

// RegisterTools registers all MCP tools on the server. Tools see only
// public prompts; there is no authenticated viewer on this surface.
func RegisterTools(s *mcpserver.MCPServer, promptSvc *promptsvc.Service) {
	s.AddTool(mcpmcp.NewTool("search_prompts",
		mcpmcp.WithDescription("Search the public prompt catalog. Returns id, title, phase, tags, and like count for each match."),
		mcpmcp.WithString("query", mcpmcp.Description("Free-text search over titles and content")),
		mcpmcp.WithString("phase", mcpmcp.Description("Filter by workflow phase: planning, design, implementation, debug, release, or other")),
		mcpmcp.WithString("limit", mcpmcp.Description("Maximum number of results, default 20")),
	), searchPromptsHandler(promptSvc))

	s.AddTool(mcpmcp.NewTool("get_prompt",
		mcpmcp.WithDescription("Fetch a single public prompt by id, including its full content and the variable names found in it."),
		mcpmcp.WithString("prompt_id", mcpmcp.Required(), mcpmcp.Description("Prompt UUID")),
	), getPromptHandler(promptSvc))

	s.AddTool(mcpmcp.NewTool("render_prompt",
		mcpmcp.WithDescription("Render a public prompt with the given variable values substituted into its {placeholders}. Unfilled placeholders are left as-is."),
		mcpmcp.WithString("prompt_id", mcpmcp.Required(), mcpmcp.Description("Prompt UUID")),
		mcpmcp.WithString("values", mcpmcp.Description("JSON object mapping variable names to values")),
	), renderPromptHandler(promptSvc))
}

const defaultSearchLimit = 20

func searchPromptsHandler(promptSvc *promptsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		filters := domainprompt.ListFilters{
			Search: mcpmcp.ParseString(req, "query", ""),
			Limit:  defaultSearchLimit,
		}
		if v := mcpmcp.ParseString(req, "phase", ""); v != "" {
			p := domainprompt.ParsePhase(v)
			filters.Phase = &p
		}
		if v := mcpmcp.ParseString(req, "limit", ""); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return mcpmcp.NewToolResultText("error: invalid limit"), nil
			}
			filters.Limit = n
		}

		prompts, err := promptSvc.Trend(ctx, filters)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		type hit struct {
			ID        uuid.UUID          `json:"id"`
			Title     string             `json:"title"`
			Phase     domainprompt.Phase `json:"phase"`
			Tags      []string           `json:"tags"`
			LikeCount int                `json:"like_count"`
		}
		hits := make([]hit, 0, len(prompts))
		for _, p := range prompts {
			hits = append(hits, hit{
				ID:        p.ID,
				Title:     p.Title,
				Phase:     p.Phase,
				Tags:      p.Tags,
				LikeCount: p.LikeCount,
			})
		}
		data, _ := json.Marshal(hits)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func getPromptHandler(promptSvc *promptsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id, err := uuid.Parse(mcpmcp.ParseString(req, "prompt_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText("error: invalid prompt_id"), nil
		}

		p, err := promptSvc.Get(ctx, id, uuid.Nil)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		result := map[string]interface{}{
			"prompt":    p,
			"variables": template.ExtractVariables(p.Content),
		}
		data, _ := json.Marshal(result)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func renderPromptHandler(promptSvc *promptsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id, err := uuid.Parse(mcpmcp.ParseString(req, "prompt_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText("error: invalid prompt_id"), nil
		}

		values := map[string]string{}
		if raw := mcpmcp.ParseString(req, "values", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &values); err != nil {
				return mcpmcp.NewToolResultText("error: values must be a JSON object of strings"), nil
			}
		}

		p, err := promptSvc.Get(ctx, id, uuid.Nil)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		return mcpmcp.NewToolResultText(template.FillTemplate(p.Content, values)), nil
	}
}
