package config

import (
	"os"
	"path/filepath"
)

// envFileCandidates lists the dotenv files tried when Load gets no explicit
// path: the APP_ENV specific file first, then the shared one.
func envFileCandidates() []string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return []string{".env." + env, ".env"}
	}
	return []string{".env"}
}

// resolveEnvFile looks for name in dir and then in each parent directory, so
// tests running inside a package directory still pick up the repo root file.
// Absolute names are only checked in place.
func resolveEnvFile(dir, name string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, isFile(name)
	}
	for {
		candidate := filepath.Join(dir, name)
		if isFile(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
