package compilation

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DiscoverSources lists source files under root matching the configured
// extensions, skipping excluded directory names. Paths are relative to root.
func (s *Service) DiscoverSources(ctx context.Context, root string) ([]string, error) {
	cfg := s.config.Discovery

	extMap := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		extMap[strings.ToLower(ext)] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // Skip unreadable entries
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && slices.Contains(cfg.ExcludeDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !extMap[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, relPath)

		if cfg.MaxFiles > 0 && len(files) >= cfg.MaxFiles {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover sources in %s: %w", root, err)
	}

	s.logger.Debug().Str("root", root).Int("files", len(files)).Msg("Discovered source files")
	return files, nil
}
