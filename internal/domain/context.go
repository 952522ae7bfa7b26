package domain

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"stitch.dev/pkg/stitch/internal/adapter"
	m "stitch.dev/pkg/stitch/internal/model"
)

// ContextFile is a workspace file included in the prompt for surrounding
// context.
type ContextFile struct {
	Path    m.Path
	Content string
}

const (
	// contextReadConcurrency bounds parallel context file reads.
	contextReadConcurrency = 4

	// maxContextFileBytes skips files too large to usefully prompt with.
	maxContextFileBytes = 32 * 1024
)

// CollectContext gathers sibling files of target (same directory, target
// itself excluded) to give the model surrounding context. Files are read
// concurrently; maxFiles <= 0 disables collection.
func CollectContext(ctx context.Context, files adapter.FileAdapter, target m.Path, maxFiles int) ([]ContextFile, error) {
	if maxFiles <= 0 {
		return nil, nil
	}

	dir := m.Path(filepath.Dir(string(target)))

	candidates, err := files.ListDir(dir)
	if err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	selected := make([]m.Path, 0, maxFiles)

	for _, candidate := range candidates {
		if candidate == target || isBackupPath(string(candidate)) {
			continue
		}

		selected = append(selected, candidate)
		if len(selected) == maxFiles {
			break
		}
	}

	results := make([]ContextFile, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(contextReadConcurrency)

	for i, path := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			info, err := files.FileInfo(path)
			if err != nil || info.Size() > maxContextFileBytes {
				// Unreadable or oversized context is skipped, not fatal.
				return nil
			}

			content, err := files.ReadNormalized(path)
			if err != nil {
				return nil
			}

			results[i] = ContextFile{Path: path, Content: content}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	collected := make([]ContextFile, 0, len(results))

	for _, r := range results {
		if r.Path != "" {
			collected = append(collected, r)
		}
	}

	return collected, nil
}

func isBackupPath(path string) bool {
	return strings.HasSuffix(path, ".bak")
}
