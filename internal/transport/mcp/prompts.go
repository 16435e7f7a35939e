package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	promptsvc "github.com/komi0929/myprompt/internal/service/prompt"
	"github.com/komi0929/myprompt/internal/template"
)

// RegisterPrompts registers the native MCP prompt, which hands a rendered
// catalog prompt to the client as a ready-to-send user message.
func RegisterPrompts(s *mcpserver.MCPServer, promptSvc *promptsvc.Service) {
	s.AddPrompt(
		mcpmcp.NewPrompt("use_prompt",
			mcpmcp.WithPromptDescription("A public catalog prompt, rendered with the given variable values."),
			mcpmcp.WithArgument("prompt_id",
				mcpmcp.ArgumentDescription("Prompt UUID"),
				mcpmcp.RequiredArgument(),
			),
			mcpmcp.WithArgument("values",
				mcpmcp.ArgumentDescription("JSON object mapping variable names to values"),
			),
		),
		usePromptHandler(promptSvc),
	)
}

func usePromptHandler(promptSvc *promptsvc.Service) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, req mcpmcp.GetPromptRequest) (*mcpmcp.GetPromptResult, error) {
		id, err := uuid.Parse(req.Params.Arguments["prompt_id"])
		if err != nil {
			return nil, fmt.Errorf("invalid prompt_id: %w", err)
		}

		values := map[string]string{}
		if raw := req.Params.Arguments["values"]; raw != "" {
			if err := json.Unmarshal([]byte(raw), &values); err != nil {
				return nil, fmt.Errorf("parse values: %w", err)
			}
		}

		p, err := promptSvc.Get(ctx, id, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("get prompt %s: %w", id, err)
		}

		return mcpmcp.NewGetPromptResult(
			p.Title,
			[]mcpmcp.PromptMessage{
				mcpmcp.NewPromptMessage(
					mcpmcp.RoleUser,
					mcpmcp.TextContent{
						Type: "text",
						Text: template.FillTemplate(p.Content, values),
					},
				),
			},
		), nil
	}
}
