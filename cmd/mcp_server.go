package cmd

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"deskpilot/internal/llm"
	"deskpilot/internal/nlu"
	"deskpilot/internal/plan"
	"deskpilot/internal/planner"
	"deskpilot/internal/platform"
	"deskpilot/internal/session"
	"deskpilot/internal/version"
	"deskpilot/internal/vision"
)

// mcpServer keeps one session alive across tool calls so context built by
// one command ("open the calculator") carries into the next ("close it").
type mcpServer struct {
	session *session.Session
	vision  *vision.Locator
	mcp     *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	Model     string
	DebugDir  string
}

// newMCPServer creates and configures an MCP server with the deskpilot tools.
func newMCPServer(cfg MCPConfig) (*mcpServer, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	gem, err := llm.NewGemini(llm.GeminiConfig{TextModel: cfg.Model, VisionModel: cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("generative backend: %w", err)
	}
	dispatcher, vloc, err := buildDispatcher(provider, gem, cfg.DebugDir)
	if err != nil {
		return nil, err
	}

	s := &mcpServer{
		session: session.New(nlu.NewParser(gem), planner.NewPlanner(gem), plan.NewRunner(dispatcher)),
		vision:  vloc,
	}
	s.mcp = mcpserver.NewMCPServer("deskpilot", version.Version)
	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("run_command",
			mcp.WithDescription("Execute a natural-language desktop command: the command is parsed, planned and executed step by step. Session context carries over between calls."),
			mcp.WithString("command", mcp.Description("The command, e.g. 'open the calculator and press 2 + 2'"), mcp.Required()),
		),
		s.handleRunCommand,
	)

	s.mcp.AddTool(
		mcp.NewTool("execute_plan",
			mcp.WithDescription("Execute a hand-written action plan without intent extraction or planning. The plan is a YAML/JSON list of steps, each with an action_type and its parameters."),
			mcp.WithString("plan", mcp.Description("The plan as YAML or JSON text"), mcp.Required()),
		),
		s.handleExecutePlan,
	)

	s.mcp.AddTool(
		mcp.NewTool("locate_element",
			mcp.WithDescription("Locate a UI element on screen by natural-language description using the vision backend. Returns coordinates relative to the captured window, or the screen when no window is given."),
			mcp.WithString("description", mcp.Description("What the element looks like, e.g. 'the blue Submit button'"), mcp.Required()),
			mcp.WithString("window", mcp.Description("Title substring of the window to capture")),
			mcp.WithString("hints", mcp.Description("Extra context to help locate the element")),
		),
		s.handleLocateElement,
	)

	s.mcp.AddTool(
		mcp.NewTool("read_screen",
			mcp.WithDescription("Answer a question about what is currently on screen using the vision backend."),
			mcp.WithString("query", mcp.Description("The question, e.g. 'what number does the calculator show?'"), mcp.Required()),
			mcp.WithString("window", mcp.Description("Title substring of the window to capture")),
		),
		s.handleReadScreen,
	)

	s.mcp.AddTool(
		mcp.NewTool("stop",
			mcp.WithDescription("Cancel the plan currently running, if any. The current step finishes before the run halts."),
		),
		s.handleStop,
	)

	s.mcp.AddTool(
		mcp.NewTool("reset_context",
			mcp.WithDescription("Forget everything remembered from earlier commands: window titles, extracted results, credentials loaded into context."),
		),
		s.handleResetContext,
	)
}

func (s *mcpServer) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	command := stringParam(params, "command", "")
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	out, err := s.session.HandleCommand(ctx, command)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !out.OK {
		return mcp.NewToolResultError(toYAML(out)), nil
	}
	return mcp.NewToolResultText(toYAML(out)), nil
}

func (s *mcpServer) handleExecutePlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	raw := stringParam(params, "plan", "")
	if raw == "" {
		return mcp.NewToolResultError("plan is required"), nil
	}
	steps, err := DecodePlan([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.session.RunPlan(ctx, steps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !out.OK {
		return mcp.NewToolResultError(toYAML(out)), nil
	}
	return mcp.NewToolResultText(toYAML(out)), nil
}

func (s *mcpServer) handleLocateElement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.vision == nil {
		return mcp.NewToolResultError("vision backend not available on this platform"), nil
	}
	params := request.GetArguments()
	description := stringParam(params, "description", "")
	if description == "" {
		return mcp.NewToolResultError("description is required"), nil
	}

	loc, bounds, err := s.vision.LocateElement(ctx, description,
		stringParam(params, "window", ""), stringParam(params, "hints", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := map[string]any{"location": loc, "window_bounds": bounds}
	if !loc.Found {
		return mcp.NewToolResultError(toYAML(result)), nil
	}
	return mcp.NewToolResultText(toYAML(result)), nil
}

func (s *mcpServer) handleReadScreen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.vision == nil {
		return mcp.NewToolResultError("vision backend not available on this platform"), nil
	}
	params := request.GetArguments()
	query := stringParam(params, "query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	answer, err := s.vision.AnalyzeScreen(ctx, query, stringParam(params, "window", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (s *mcpServer) handleStop(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.session.Stop() {
		return mcp.NewToolResultText("stop requested; the run halts after the current step"), nil
	}
	return mcp.NewToolResultText("nothing is running"), nil
}

func (s *mcpServer) handleResetContext(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.session.ResetContext()
	return mcp.NewToolResultText("session context cleared"), nil
}

// stringParam extracts a string argument with a default.
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

func toYAML(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
