// Package scanner walks a project tree and produces the knowledge/security
// report payload: detected framework, file inventory size, and the names
// (never the values) of sensitive-looking configuration keys.
package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Report is the scan result. Only sanitized metadata is exposed: basenames
// and key names, no raw paths, no values.
type Report struct {
	Framework     string              `json:"framework"`
	FileCount     int                 `json:"file_count"`
	ConfigFiles   []string            `json:"config_files"`
	SensitiveKeys map[string][]string `json:"config_sensitive_keys"`
}

var (
	excludeDirs = map[string]bool{
		".git": true, ".hg": true, ".svn": true,
		"node_modules": true, "vendor": true,
		"venv": true, ".venv": true, "env": true,
		"logs": true, "dist": true, "build": true,
	}
	excludeFiles = map[string]bool{
		".env": true, ".env.local": true, ".env.prod": true, ".env.dev": true,
		"id_rsa": true, "id_rsa.pub": true, "id_ed25519": true, "id_ed25519.pub": true,
	}
	allowedExts = map[string]bool{
		".go": true, ".py": true, ".js": true, ".ts": true,
		".json": true, ".yml": true, ".yaml": true, ".toml": true,
		".md": true, ".ini": true, ".cfg": true, ".mod": true,
	}

	frameworkPatterns = []struct {
		name    string
		pattern *regexp.Regexp
	}{
		{"Go (chi)", regexp.MustCompile(`(?i)github\.com/go-chi/chi`)},
		{"Django", regexp.MustCompile(`(?i)django[=><]`)},
		{"FastAPI", regexp.MustCompile(`(?i)fastapi[=><]`)},
		{"Flask", regexp.MustCompile(`(?i)flask[=><]`)},
		{"Node.js", regexp.MustCompile(`(?i)express|koa|hapi`)},
		{"React", regexp.MustCompile(`(?i)react`)},
		{"Next.js", regexp.MustCompile(`(?i)next`)},
	}

	sensitiveKeyParts = []string{
		"secret", "password", "passwd", "token", "apikey", "api_key",
		"private_key", "access_key", "secret_key", "dsn", "connection",
		"auth", "bearer", "jwt", "key",
	}
	configKeyPattern  = regexp.MustCompile(`^\s*([A-Za-z0-9_\-.]+)\s*[:=]`)
	configFileMarkers = []string{
		"config", "settings", "pyproject", "package.json", "requirements",
		"docker", "compose", "appsettings", "application", "go.mod",
	}
)

// Scanner scans a project root.
type Scanner struct {
	root string
}

// New creates a scanner for the given project root.
func New(root string) *Scanner {
	return &Scanner{root: root}
}

// Generate walks the tree and builds the report. It honors ctx between
// files so an aborted process does not finish a long walk, but callers in
// the report path never cancel it.
func (s *Scanner) Generate(ctx context.Context) (*Report, error) {
	files, err := s.scanFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan files: %w", err)
	}

	sensitive := extractSensitiveKeys(files)
	configFiles := make([]string, 0, len(sensitive))
	for name := range sensitive {
		configFiles = append(configFiles, name)
	}
	sort.Strings(configFiles)

	return &Report{
		Framework:     detectFramework(files),
		FileCount:     len(files),
		ConfigFiles:   configFiles,
		SensitiveKeys: sensitive,
	}, nil
}

// scanFiles collects scannable files, pruning VCS metadata, dependency
// trees, and secret material.
func (s *Scanner) scanFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil //nolint:nilerr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if excludeDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if excludeFiles[name] {
			return nil
		}
		if !allowedExts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// detectFramework returns the first framework whose pattern matches any
// scanned file, or "unknown".
func detectFramework(files []string) string {
	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // paths come from our own walk
		if err != nil {
			continue
		}
		for _, fw := range frameworkPatterns {
			if fw.pattern.Match(data) {
				return fw.name
			}
		}
	}
	return "unknown"
}

// extractSensitiveKeys collects sensitive-looking key names from
// configuration-like files. Values are never read into the report.
func extractSensitiveKeys(files []string) map[string][]string {
	result := make(map[string][]string)
	for _, file := range files {
		lower := strings.ToLower(filepath.Base(file))
		isConfig := false
		for _, marker := range configFileMarkers {
			if strings.Contains(lower, marker) {
				isConfig = true
				break
			}
		}
		if !isConfig {
			continue
		}

		found := scanFileKeys(file)
		if len(found) > 0 {
			result[filepath.Base(file)] = found
		}
	}
	return result
}

func scanFileKeys(path string) []string {
	f, err := os.Open(path) //nolint:gosec // paths come from our own walk
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	keys := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m := configKeyPattern.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		for _, part := range sensitiveKeyParts {
			if strings.Contains(key, part) {
				keys[key] = struct{}{}
				break
			}
		}
	}

	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
