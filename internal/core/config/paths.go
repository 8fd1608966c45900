package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvedPaths holds absolute, cleaned paths for one run.
type ResolvedPaths struct {
	ProjectRoot   string
	NodeModules   string
	LanguagesDir  string
	ExternalsFile string
	OutputRoot    string
}

func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	projectRoot := strings.TrimSpace(cfg.Paths.ProjectRoot)
	if projectRoot != "" {
		projectRoot = ResolveRelative(cwd, projectRoot)
	} else {
		root, err := DetectProjectRoot([]string{cwd})
		if err != nil {
			return ResolvedPaths{}, err
		}
		projectRoot = root
	}

	outputRoot := strings.TrimSpace(cfg.Output.Root)
	if outputRoot == "" {
		outputRoot = projectRoot
	} else {
		outputRoot = ResolveRelative(projectRoot, outputRoot)
	}

	resolved := ResolvedPaths{
		ProjectRoot:  filepath.Clean(projectRoot),
		NodeModules:  ResolveRelative(projectRoot, cfg.Paths.NodeModules),
		LanguagesDir: ResolveRelative(projectRoot, cfg.Paths.LanguagesDir),
		OutputRoot:   filepath.Clean(outputRoot),
	}
	if strings.TrimSpace(cfg.Externals.ModuleFile) != "" {
		resolved.ExternalsFile = ResolveRelative(projectRoot, cfg.Externals.ModuleFile)
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate looking for a project marker
// and falls back to the working directory.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		"package.json",
		".git",
		DefaultFileName,
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
