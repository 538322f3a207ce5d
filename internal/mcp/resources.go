package mcp

import (
	"context"
	"fmt"
	"path"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/gitglob/internal/fsys"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
)

// MaxResourceSize is the maximum ignore file size served as a resource (1MB).
const MaxResourceSize = 1024 * 1024

// RegisterResources registers every ignore file that applies to the
// project, above the root and below it, as a text resource. Call it after
// NewServer and before Serve; files created later are not registered.
func (s *Server) RegisterResources(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.gitignoreFiles(ctx)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		s.registerGitignoreResource(f)
	}

	s.logger.Info("registered resources", "count", len(files))
	return len(files), nil
}

// gitignoreFiles returns the upward files outermost first, then the nested
// files in walk order.
func (s *Server) gitignoreFiles(ctx context.Context) ([]string, error) {
	upward, err := s.client.LocateGitignoreFiles("")
	if err != nil {
		return nil, fmt.Errorf("locate ignore files: %w", err)
	}
	below, err := gitignore.FindDownward(ctx, s.client.FS(), s.client.Cwd())
	if err != nil {
		return nil, fmt.Errorf("find nested ignore files: %w", err)
	}

	seen := make(map[string]bool, len(upward))
	files := make([]string, 0, len(upward)+len(below))
	for _, f := range append(upward, below...) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	return files, nil
}

func resourceURI(name string) string {
	return "file://" + name
}

func (s *Server) registerGitignoreResource(name string) {
	desc := name
	if fsys.Within(s.client.Cwd(), name) {
		desc = fsys.Rel(s.client.Cwd(), name)
	}
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        path.Base(name),
			URI:         resourceURI(name),
			Description: fmt.Sprintf("ignore rules in %s", desc),
			MIMEType:    "text/plain",
		},
		s.makeGitignoreHandler(name),
	)
}

func (s *Server) makeGitignoreHandler(name string) mcp.ResourceHandler {
	return func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return s.readGitignore(name)
	}
}

// readGitignore serves the current contents of an ignore file.
func (s *Server) readGitignore(name string) (*mcp.ReadResourceResult, error) {
	content, err := s.client.FS().ReadFile(name)
	if err != nil {
		if fsys.IsNotExist(err) {
			return nil, &MCPError{
				Code:    ErrCodeFileNotFound,
				Message: fmt.Sprintf("file not found: %s", name),
			}
		}
		return nil, MapError(err)
	}
	if len(content) > MaxResourceSize {
		return nil, NewInvalidParamsError(fmt.Sprintf("file too large: %d bytes (max %d)", len(content), MaxResourceSize))
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      resourceURI(name),
				MIMEType: "text/plain",
				Text:     string(content),
			},
		},
	}, nil
}
