package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/GriffinCanCode/poseidon/internal/export"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// DefaultSeedPattern matches every document format the seeder can load.
const DefaultSeedPattern = "**/*.{json,yaml,yml,toml}"

// SeedResult summarizes a seeding pass.
type SeedResult struct {
	Files   int
	Loaded  int
	Skipped int
	Failed  int
}

// Seeder loads documents from disk into a registry at startup
type Seeder struct {
	registry *Registry
	dir      string
	pattern  string
	logger   *zap.Logger
}

// NewSeeder creates a seeder for dir. Files are matched against pattern
// relative to dir; an empty pattern uses DefaultSeedPattern.
func NewSeeder(registry *Registry, dir, pattern string, logger *zap.Logger) *Seeder {
	if pattern == "" {
		pattern = DefaultSeedPattern
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		registry: registry,
		dir:      dir,
		pattern:  pattern,
		logger:   logger,
	}
}

// Seed adds every top-level entry of every matching document. Keys already
// registered are skipped, and files are processed in lexical path order so
// the first file to claim a key wins.
func (s *Seeder) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult

	if !doublestar.ValidatePattern(s.pattern) {
		return result, doublestar.ErrBadPattern
	}

	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Seed directory not found", zap.String("dir", s.dir))
		return result, nil
	}

	paths, err := s.collect(ctx)
	if err != nil {
		return result, err
	}

	for _, path := range paths {
		result.Files++
		loaded, skipped, err := s.seedFile(path)
		result.Loaded += loaded
		result.Skipped += skipped
		if err != nil {
			result.Failed++
			s.logger.Warn("Failed to seed file", zap.String("path", path), zap.Error(err))
			continue
		}
		s.logger.Debug("Seeded file",
			zap.String("path", path),
			zap.Int("loaded", loaded),
			zap.Int("skipped", skipped))
	}

	s.logger.Info("Seeding complete",
		zap.String("dir", s.dir),
		zap.Int("files", result.Files),
		zap.Int("loaded", result.Loaded),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *Seeder) collect(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		paths []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, s.dir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return nil
		}
		if !doublestar.MatchUnvalidated(s.pattern, filepath.ToSlash(rel)) {
			return nil
		}

		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *Seeder) seedFile(path string) (loaded, skipped int, err error) {
	format, err := export.FormatFromPath(path)
	if err != nil {
		return 0, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	entries, err := export.Load(format, data)
	if err != nil {
		return 0, 0, err
	}

	for _, e := range entries {
		if err := s.registry.Add(e.Key, e.Value); err != nil {
			if errors.Is(err, bag.ErrKeyAlreadyExists) {
				skipped++
				continue
			}
			return loaded, skipped, err
		}
		loaded++
	}
	return loaded, skipped, nil
}
