package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// workspace is the scratch directory tree owned by a single run.
type workspace struct {
	root string
}

func newWorkspace(workDir string, jobID int64, token string) (workspace, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		token = "job"
	}
	root := filepath.Join(workDir, fmt.Sprintf("job-%d-%s", jobID, token))
	// A leftover directory from an interrupted attempt is discarded.
	if err := os.RemoveAll(root); err != nil {
		return workspace{}, err
	}
	for _, dir := range []string{"transcript", "beats", "render", "composite"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return workspace{}, err
		}
	}
	return workspace{root: root}, nil
}

func (w workspace) dir(name string) string {
	return filepath.Join(w.root, name)
}

func (w workspace) remove() error {
	return os.RemoveAll(w.root)
}
