package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/five82/stockroom/internal/app"
	"github.com/five82/stockroom/internal/export"
	"github.com/five82/stockroom/internal/query"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	pageSize := flag.Int("page-size", 0, "rows per page (optional)")
	exportScope := flag.String("export", "", "write a CSV export and exit: all or page-N")
	search := flag.String("search", "", "search term applied before exporting")
	sortBy := flag.String("sort", "", "sort key applied before exporting: "+keyNames())
	desc := flag.Bool("desc", false, "sort descending")
	outDir := flag.String("out", "", "export directory (defaults to export_dir from config)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errOut := color.New(color.FgRed, color.Bold)

	if *exportScope == "" {
		opts := app.Options{ConfigPath: *configPath, PrefsPath: *prefsPath, PageSize: *pageSize}
		if err := app.Run(ctx, opts); err != nil {
			errOut.Fprintf(os.Stderr, "stockroom: %v\n", err)
			return 1
		}
		return 0
	}

	scope, err := export.ParseScope(*exportScope)
	if err != nil {
		errOut.Fprintf(os.Stderr, "stockroom: %v\n", err)
		return 2
	}
	key := query.KeyNone
	if *sortBy != "" {
		k, ok := query.ParseKey(*sortBy)
		if !ok {
			errOut.Fprintf(os.Stderr, "stockroom: unknown sort key %q (want one of %s)\n", *sortBy, keyNames())
			return 2
		}
		key = k
	}

	opts := app.ExportOptions{
		ConfigPath: *configPath,
		Scope:      scope,
		Search:     *search,
		SortKey:    key,
		Descending: *desc,
		PageSize:   *pageSize,
		OutDir:     *outDir,
	}
	if err := opts.Validate(); err != nil {
		errOut.Fprintf(os.Stderr, "stockroom: %v\n", err)
		return 2
	}

	res, err := app.Export(ctx, opts)
	if err != nil {
		errOut.Fprintf(os.Stderr, "stockroom: export failed: %v\n", err)
		return 1
	}

	ok := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.Faint)
	ok.Printf("Exported %d rows", res.Rows)
	fmt.Printf(" (%s, %d of %d products matched)\n", scope, res.Matched, res.Total)
	dim.Println(res.Path)
	return 0
}

func keyNames() string {
	keys := query.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
