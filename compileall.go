package abnfc

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/abnfkit/abnfc/internal/types"
)

// CompileAll compiles every file of src in parallel. Grammars are
// returned in file order; files that fail are left out and their errors
// are joined into the returned error. Rules within each file are
// generated one at a time, since the files already run concurrently.
func CompileAll(ctx context.Context, src Source, opts ...Option) ([]*Grammar, error) {
	cfg := newConfig(opts)
	log := types.Logger{L: types.ComponentLogger(cfg.logger, "compile")}

	files, err := src.Files()
	if err != nil {
		return nil, err
	}
	log.Log(slog.LevelInfo, "parallel compile", slog.Int("files", len(files)))

	limit := cfg.parallelism
	if limit < 1 {
		limit = runtime.NumCPU()
	}
	fileCfg := cfg
	fileCfg.parallelism = 1

	grammars := make([]*Grammar, len(files))
	errs := make([]error, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := src.ReadFile(path)
			if err != nil {
				errs[i] = err
				return nil
			}
			grammars[i], errs[i] = compile(gctx, data, path, fileCfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*Grammar
	for _, gr := range grammars {
		if gr != nil {
			out = append(out, gr)
		}
	}
	log.Log(slog.LevelInfo, "compile complete",
		slog.Int("files", len(files)),
		slog.Int("compiled", len(out)))
	return out, errors.Join(errs...)
}
