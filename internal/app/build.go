// Package app wires the loader, renderer, history store, and telemetry into
// the build pipeline behind the CLI.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"convoplay/internal/demo"
	"convoplay/internal/history"
	"convoplay/internal/render"
	"convoplay/internal/telemetry"
)

type Builder struct {
	cfg    Config
	loader *demo.FSLoader
	rend   *render.HTMLRenderer
	logger *telemetry.JSONLogger
	store  *history.SQLiteStore
}

// BuildResult describes one generated artifact.
type BuildResult struct {
	BuildID    string
	SourcePath string
	OutputPath string
	Scenarios  int
	Steps      int
	Bytes      int64
	Duration   time.Duration
}

func NewBuilder(cfg Config) (*Builder, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:    cfg,
		loader: demo.NewLoader(),
		rend:   render.NewHTMLRenderer(),
		logger: logger,
	}
	if cfg.History {
		store, err := history.NewSQLite(filepath.Join(cfg.DataDir, "history.db"))
		if err != nil {
			_ = logger.Close()
			return nil, err
		}
		if err := store.EnsureSchema(context.Background()); err != nil {
			_ = store.Close()
			_ = logger.Close()
			return nil, err
		}
		b.store = store
	}
	return b, nil
}

func (b *Builder) Close() {
	if b.store != nil {
		_ = b.store.Close()
	}
	_ = b.logger.Close()
}

func (b *Builder) Store() *history.SQLiteStore { return b.store }

// Build generates the document for a single demo file. An empty outputPath
// derives the artifact name from the source.
func (b *Builder) Build(ctx context.Context, sourcePath, outputPath string) (BuildResult, error) {
	started := time.Now()

	d, err := b.loader.Load(sourcePath)
	if err != nil {
		b.logger.Error("build.load_failed", map[string]any{"source": sourcePath, "error": err.Error()})
		return BuildResult{}, err
	}
	doc, err := b.rend.Render(d)
	if err != nil {
		b.logger.Error("build.render_failed", map[string]any{"source": sourcePath, "error": err.Error()})
		return BuildResult{}, err
	}
	if outputPath == "" {
		outputPath = DeriveOutputPath(sourcePath)
	}
	if err := os.WriteFile(outputPath, doc, 0o644); err != nil {
		return BuildResult{}, fmt.Errorf("write %s: %w", outputPath, err)
	}

	steps := 0
	for _, sc := range d.Scenarios {
		steps += len(sc.Steps)
	}
	res := BuildResult{
		BuildID:    uuid.NewString(),
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Scenarios:  len(d.Scenarios),
		Steps:      steps,
		Bytes:      int64(len(doc)),
		Duration:   time.Since(started),
	}
	b.logger.Info("build.done", map[string]any{
		"build_id":  res.BuildID,
		"source":    res.SourcePath,
		"output":    res.OutputPath,
		"scenarios": res.Scenarios,
		"steps":     res.Steps,
		"bytes":     res.Bytes,
	})
	if b.store != nil {
		err := b.store.RecordBuild(ctx, history.Build{
			BuildID:    res.BuildID,
			SourcePath: res.SourcePath,
			OutputPath: res.OutputPath,
			Scenarios:  res.Scenarios,
			Steps:      res.Steps,
			Bytes:      res.Bytes,
			DurationMS: res.Duration.Milliseconds(),
		})
		if err != nil {
			b.logger.Warn("build.history_failed", map[string]any{"build_id": res.BuildID, "error": err.Error()})
		}
	}
	return res, nil
}

// BuildAll builds every demo file directly under root with bounded
// concurrency. The first failure cancels the remaining work.
func (b *Builder) BuildAll(ctx context.Context, root string) ([]BuildResult, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	sources := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		sources = append(sources, filepath.Join(root, entry.Name()))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no demo files found under %s", root)
	}

	results := make([]BuildResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, src := range sources {
		g.Go(func() error {
			res, err := b.Build(gctx, src, "")
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DeriveOutputPath swaps the demo file's extension for .html.
func DeriveOutputPath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + ".html"
}
