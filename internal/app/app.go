package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/config"
	"github.com/five82/stockroom/internal/export"
	"github.com/five82/stockroom/internal/logging"
	"github.com/five82/stockroom/internal/mutation"
	"github.com/five82/stockroom/internal/prefs"
	"github.com/five82/stockroom/internal/query"
	"github.com/five82/stockroom/internal/state"
	"github.com/five82/stockroom/internal/ui"
)

// Options configure the stockroom application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/stockroom/prefs.toml
	PageSize   int    // rows per page; zero uses prefs, then config
}

// Run boots the stockroom TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	pageSize := cfg.PageSize
	if userPrefs.PageSize > 0 {
		pageSize = userPrefs.PageSize
	}
	if opts.PageSize > 0 {
		pageSize = opts.PageSize
	}

	env, err := newEnv(cfg, pageSize)
	if err != nil {
		return err
	}
	defer env.close()

	env.logger.Info("starting",
		zap.String("api_url", cfg.APIURL),
		zap.Int("page_size", pageSize),
		zap.String("theme", userPrefs.Theme),
	)

	// Do initial load to populate store before UI starts. A failure is not
	// fatal; the UI shows it with a retry key.
	if err := env.coord.Load(ctx); err != nil {
		env.logger.Warn("initial load failed", zap.Error(err))
	}

	return ui.Run(ui.Options{
		Context:     ctx,
		Store:       env.store,
		Coordinator: env.coord,
		Config:      &cfg,
		Logger:      env.logger,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   prefsPath,
	})
}

// env is the wired dependency graph shared by Run and Export.
type env struct {
	logger *zap.Logger
	store  *state.Store
	coord  *mutation.Coordinator
	close  func()
}

func newEnv(cfg config.Config, pageSize int) (*env, error) {
	logger, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := catalog.NewClient(cfg.APIURL, catalog.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	store := state.NewStore(pageSize)
	return &env{
		logger: logger,
		store:  store,
		coord:  mutation.New(client, store, logger),
		close:  closeLog,
	}, nil
}

// ExportOptions select what a headless export writes.
type ExportOptions struct {
	ConfigPath string
	Scope      export.Scope
	Search     string
	SortKey    query.Key
	Descending bool
	PageSize   int    // zero uses config
	OutDir     string // empty uses config export_dir
	Now        func() time.Time
}

// ErrDescendingWithoutSort is returned when a descending export names no
// sort key.
var ErrDescendingWithoutSort = errors.New("-desc requires -sort")

// Validate reports option combinations that cannot be honored.
func (o ExportOptions) Validate() error {
	if o.Descending && o.SortKey == query.KeyNone {
		return ErrDescendingWithoutSort
	}
	return nil
}

// ExportResult describes a written export.
type ExportResult struct {
	Path    string
	Rows    int // rows written
	Matched int // products matching the search
	Total   int // products loaded
}

// Export loads the catalog, applies search and sort, and writes the chosen
// scope as CSV without starting the UI.
func Export(ctx context.Context, opts ExportOptions) (ExportResult, error) {
	if err := opts.Validate(); err != nil {
		return ExportResult{}, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return ExportResult{}, fmt.Errorf("load config: %w", err)
	}
	pageSize := cfg.PageSize
	if opts.PageSize > 0 {
		pageSize = opts.PageSize
	}

	env, err := newEnv(cfg, pageSize)
	if err != nil {
		return ExportResult{}, err
	}
	defer env.close()

	if err := env.coord.Load(ctx); err != nil {
		return ExportResult{}, fmt.Errorf("load products: %w", err)
	}

	store := env.store
	store.SetSearchTerm(opts.Search)
	if opts.SortKey != query.KeyNone {
		store.SetSort(opts.SortKey)
		if opts.Descending {
			// Selecting the active key again flips it.
			store.SetSort(opts.SortKey)
		}
	}

	snap := store.Snapshot()
	rows := snap.Filtered
	if !opts.Scope.IsAll() {
		want := opts.Scope.Page()
		if want > snap.TotalPages {
			return ExportResult{}, fmt.Errorf("page %d out of range (1-%d)", want, snap.TotalPages)
		}
		store.SetPage(want)
		rows = store.Snapshot().View().Rows
	}

	dir := cfg.ExportDir
	if opts.OutDir != "" {
		if dir, err = config.ExpandPath(opts.OutDir); err != nil {
			return ExportResult{}, fmt.Errorf("resolve output dir: %w", err)
		}
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	path, err := export.WriteFile(dir, opts.Scope, rows, now())
	if err != nil {
		return ExportResult{}, err
	}
	env.logger.Info("export written",
		zap.String("scope", opts.Scope.String()),
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return ExportResult{
		Path:    path,
		Rows:    len(rows),
		Matched: len(snap.Filtered),
		Total:   len(snap.Products),
	}, nil
}
