package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved absolute paths the application works with.
// All relative configured paths resolve against the executable directory
// so the binary behaves the same regardless of the working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ExportsDir    string
	LogsDir       string
}

// ResolvePaths resolves the configured paths to absolute directories.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	exeDir := filepath.Dir(exe)

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(exeDir, p)
	}

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       resolve(cfg.DataDir),
		ExportsDir:    resolve(cfg.ExportsDir),
		LogsDir:       resolve(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates the data, exports and logs directories if they
// do not exist yet.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ExportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetExportPath returns the full path for an export file.
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}
