package emitter

import (
	"context"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"envtypes/internal/schema"
)

// Result describes the outcome of one generation target.
type Result struct {
	Language string `json:"language"`
	OutDir   string `json:"outDir"`
	Path     string `json:"path,omitempty"`
	Skipped  bool   `json:"skipped"`
}

// Generate emits the variables of envName for every target of cfg.
//
// Targets render concurrently; writes to fs are serialized since billy
// filesystems are not required to be safe for concurrent use. Targets whose
// language has no emitter in reg are skipped and reported in the results.
// The first write failure cancels the remaining targets and is returned.
// Results are in target declaration order.
func Generate(ctx context.Context, fs billy.Filesystem, reg Registry, cfg schema.Config, envName string) ([]Result, error) {
	logger := zerolog.Ctx(ctx)

	env, ok := cfg.Environment(envName)
	if !ok {
		logger.Warn().Str("environment", envName).Msg("environment not declared; generating empty accessors")
	}

	results := make([]Result, len(cfg.Targets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range cfg.Targets {
		results[i] = Result{Language: target.Language, OutDir: target.OutDir}

		e, ok := reg.Lookup(target.Language)
		if !ok {
			results[i].Skipped = true
			logger.Warn().
				Str("language", target.Language).
				Strs("supported", reg.Languages()).
				Msg("skipping target with unsupported language")
			continue
		}

		i, target := i, target
		g.Go(func() error {
			data := e.Render(env.Variables)

			mu.Lock()
			defer mu.Unlock()
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := writeFile(fs, target.OutDir, e.Filename(), data)
			if err != nil {
				return err
			}
			results[i].Path = path
			logger.Info().
				Str("language", target.Language).
				Str("path", path).
				Int("variables", len(env.Variables)).
				Msg("generated accessor")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
