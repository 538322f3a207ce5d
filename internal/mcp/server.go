package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/gitglob/internal/fsys"
	"github.com/Aman-CERP/gitglob/pkg/gitglob"
	"github.com/Aman-CERP/gitglob/pkg/version"
)

const (
	defaultGlobLimit = 1000
	maxGlobLimit     = 100000
)

// Server is the MCP server for gitglob. It answers enumeration and
// ignore-rule questions about one project root.
type Server struct {
	mcp    *mcp.Server
	client *gitglob.Client
	logger *slog.Logger

	mu sync.RWMutex
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name:        "glob",
		Description: "Find files matching a glob under the project root, skipping everything git would ignore. Honours every .gitignore from the filesystem root down, including nested ones.",
	},
	{
		Name:        "list",
		Description: "List the non-ignored entries of a directory, directories included. Set recursive to list the whole subtree.",
	},
	{
		Name:        "check_ignore",
		Description: "Explain whether git would ignore each path and which rule (file, line, pattern) decided it, like `git check-ignore -v`.",
	},
	{
		Name:        "locate_gitignores",
		Description: "List the .gitignore files that apply to a directory, outermost first, with the normalized globs each one contributes.",
	},
}

// NewServer creates a new MCP server over client.
func NewServer(client *gitglob.Client) (*Server, error) {
	if client == nil {
		return nil, errors.New("gitglob client is required")
	}

	s := &Server{
		client: client,
		logger: slog.Default(),
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "gitglob",
			Version: version.Short(),
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return "gitglob", version.Short()
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	out := make([]ToolInfo, len(tools))
	copy(out, tools)
	return out
}

// CallTool invokes a tool by name with JSON-style arguments and returns a
// markdown rendering of the result.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch name {
	case "glob":
		var in GlobInput
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		out, err := s.glob(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatGlobResults(in.Pattern, out), nil
	case "list":
		var in ListInput
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		out, err := s.list(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatListResults(out), nil
	case "check_ignore":
		var in CheckIgnoreInput
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		out, err := s.checkIgnore(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatCheckIgnoreResults(out), nil
	case "locate_gitignores":
		var in LocateInput
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		out, err := s.locate(in)
		if err != nil {
			return "", err
		}
		return FormatLocateResults(out), nil
	default:
		return "", NewMethodNotFoundError(name)
	}
}

func decodeArgs(args map[string]any, into any) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return NewInvalidParamsError(err.Error())
	}
	if err := json.Unmarshal(data, into); err != nil {
		return NewInvalidParamsError(fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}

func (s *Server) glob(ctx context.Context, in GlobInput) (GlobOutput, error) {
	if strings.TrimSpace(in.Pattern) == "" {
		return GlobOutput{}, NewInvalidParamsError("pattern parameter is required")
	}
	limit := clampLimit(in.Limit, defaultGlobLimit, 1, maxGlobLimit)

	start := time.Now()
	requestID := generateRequestID()
	s.logger.Info("glob started",
		slog.String("request_id", requestID),
		slog.String("pattern", in.Pattern))

	out := GlobOutput{Paths: []string{}}
	for e, err := range s.client.GlobEntries(ctx, in.Pattern) {
		if err != nil {
			s.logger.Error("glob failed",
				slog.String("request_id", requestID),
				slog.String("error", err.Error()))
			return GlobOutput{}, MapError(err)
		}
		if len(out.Paths) == limit {
			out.Truncated = true
			break
		}
		out.Paths = append(out.Paths, e.Path)
		if in.Types {
			out.Types = append(out.Types, e.Kind())
		}
	}

	s.logger.Info("glob completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
		slog.Int("result_count", len(out.Paths)))
	return out, nil
}

// isValidPath reports whether p, resolved against the project root, stays
// inside it. Absolute paths are accepted only when they point into the
// project.
func (s *Server) isValidPath(p string) bool {
	root := s.client.Cwd()
	abs := fsys.Clean(root, p)
	return abs == root || fsys.Within(root, abs)
}

func (s *Server) list(ctx context.Context, in ListInput) (ListOutput, error) {
	if !s.isValidPath(in.Dir) {
		return ListOutput{}, NewInvalidParamsError("dir must be inside the project: " + in.Dir)
	}
	entries, err := s.client.ListEntries(ctx, in.Dir, in.Recursive)
	if err != nil {
		return ListOutput{}, MapError(err)
	}
	out := ListOutput{Dir: in.Dir, Entries: make([]ListEntry, 0, len(entries))}
	if out.Dir == "" {
		out.Dir = "."
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, ListEntry{Path: e.Path, Type: e.Kind()})
	}
	return out, nil
}

func (s *Server) checkIgnore(ctx context.Context, in CheckIgnoreInput) (CheckIgnoreOutput, error) {
	if len(in.Paths) == 0 {
		return CheckIgnoreOutput{}, NewInvalidParamsError("paths parameter is required")
	}
	for _, p := range in.Paths {
		if !s.isValidPath(p) {
			return CheckIgnoreOutput{}, NewInvalidParamsError("path must be inside the project: " + p)
		}
	}
	out := CheckIgnoreOutput{Results: make([]CheckIgnoreResult, 0, len(in.Paths))}
	for _, p := range in.Paths {
		r, err := s.client.ExplainIgnoreReason(ctx, p)
		if err != nil {
			return CheckIgnoreOutput{}, MapError(err)
		}
		res := CheckIgnoreResult{Path: p}
		if r != nil {
			res.Ignored = r.Ignored
			res.Source = r.Source
			res.Line = r.Line
			res.Pattern = r.Pattern
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

func (s *Server) locate(in LocateInput) (LocateOutput, error) {
	if !s.isValidPath(in.Dir) {
		return LocateOutput{}, NewInvalidParamsError("dir must be inside the project: " + in.Dir)
	}
	files, err := s.client.LocateGitignoreFiles(in.Dir)
	if err != nil {
		return LocateOutput{}, MapError(err)
	}
	out := LocateOutput{Files: make([]GitignoreFile, 0, len(files))}
	for _, f := range files {
		globs, err := s.client.TranslateGitignoreFile(f)
		if err != nil {
			return LocateOutput{}, MapError(err)
		}
		if globs == nil {
			globs = []string{}
		}
		out.Files = append(out.Files, GitignoreFile{Path: f, Globs: globs})
	}
	return out, nil
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[0].Name, Description: tools[0].Description}, s.mcpGlobHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[1].Name, Description: tools[1].Description}, s.mcpListHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[2].Name, Description: tools[2].Description}, s.mcpCheckIgnoreHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[3].Name, Description: tools[3].Description}, s.mcpLocateHandler)

	s.logger.Debug("MCP tools registered", slog.Int("count", len(tools)))
}

func (s *Server) mcpGlobHandler(ctx context.Context, _ *mcp.CallToolRequest, input GlobInput) (
	*mcp.CallToolResult,
	GlobOutput,
	error,
) {
	out, err := s.glob(ctx, input)
	if err != nil {
		return nil, GlobOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) mcpListHandler(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (
	*mcp.CallToolResult,
	ListOutput,
	error,
) {
	out, err := s.list(ctx, input)
	if err != nil {
		return nil, ListOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) mcpCheckIgnoreHandler(ctx context.Context, _ *mcp.CallToolRequest, input CheckIgnoreInput) (
	*mcp.CallToolResult,
	CheckIgnoreOutput,
	error,
) {
	out, err := s.checkIgnore(ctx, input)
	if err != nil {
		return nil, CheckIgnoreOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) mcpLocateHandler(_ context.Context, _ *mcp.CallToolRequest, input LocateInput) (
	*mcp.CallToolResult,
	LocateOutput,
	error,
) {
	out, err := s.locate(input)
	if err != nil {
		return nil, LocateOutput{}, err
	}
	return nil, out, nil
}

// Serve starts the server with the specified transport.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("Starting MCP server",
		slog.String("transport", transport),
		slog.String("root", s.client.Cwd()))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("MCP server stopped with error",
				slog.String("error", err.Error()))
		} else {
			s.logger.Info("MCP server stopped gracefully")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// generateRequestID creates a short unique request ID for log correlation.
func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
