package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/gridview/internal/datasource"
	"github.com/vanderheijden86/gridview/pkg/config"
	"github.com/vanderheijden86/gridview/pkg/grid"
	"github.com/vanderheijden86/gridview/pkg/loader"
	"github.com/vanderheijden86/gridview/pkg/ui"
	"github.com/vanderheijden86/gridview/pkg/version"
	"github.com/vanderheijden86/gridview/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dataPath := flag.String("data", "", "Records file (.db/.sqlite or .jsonl); empty uses a generated dataset")
	rows := flag.Int("rows", 0, "Generated dataset size (overrides config)")
	seed := flag.Int64("seed", datasource.DefaultSeed, "Generated dataset seed")
	noWatch := flag.Bool("no-watch", false, "Disable live reload when the data file changes")
	statsFlag := flag.Bool("stats", false, "Show the summary statistics line at startup")
	robotFlag := flag.Bool("robot", false, "Print one rendered frame as JSON and exit (no TUI)")
	robotScroll := flag.Int("robot-scroll", 0, "Scroll offset for --robot")
	robotViewport := flag.Int("robot-viewport", 20, "Viewport height for --robot")
	robotFilter := flag.String("robot-filter", "", "Filter query for --robot")
	robotSort := flag.String("robot-sort", "", "Sort spec for --robot: id|name|value[:asc|desc]")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: gv [options]")
		fmt.Println("\nA windowed TUI viewer for large record sets.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("gv %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		fmt.Fprintf(os.Stderr, "Warning: config ignored: %v\n", cfgErr)
		cfg = config.DefaultConfig()
	}
	if *rows > 0 {
		cfg.Dataset.TotalRows = *rows
	}
	if *statsFlag {
		cfg.UI.ShowStats = true
	}
	path := cfg.Dataset.Path
	if *dataPath != "" {
		path = *dataPath
	}

	ctx := context.Background()

	provider, closeProvider, err := openProvider(ctx, path, cfg, *seed, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		os.Exit(1)
	}
	defer closeProvider()

	loadDelay := cfg.LoadDelay()
	if path != "" {
		// Real sources have real latency.
		loadDelay = 0
	}

	l, err := loader.New(ctx, loader.Config{
		Provider:    provider,
		InitialLoad: cfg.Dataset.InitialLoad,
		ChunkSize:   cfg.Dataset.ChunkSize,
		Delay:       loadDelay,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading initial records: %v\n", err)
		os.Exit(1)
	}

	if *robotFlag {
		if err := runRobot(os.Stdout, l, cfg, robotOptions{
			Scroll:   *robotScroll,
			Viewport: *robotViewport,
			Filter:   *robotFilter,
			Sort:     *robotSort,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal (use --robot for scripted output)")
		os.Exit(1)
	}

	ctrl := grid.New(l, grid.Config{
		RowHeight: cfg.Grid.RowHeight,
		Overscan:  cfg.Grid.Overscan,
	})

	opts := ui.Options{
		Title:               title(path),
		FilterDebounce:      cfg.FilterDebounce(),
		ShowStats:           cfg.UI.ShowStats,
		FixedViewportHeight: cfg.Grid.ViewportHeight,
	}

	if path != "" && !*noWatch {
		w, werr := watcher.New(path)
		if werr != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", werr)
		} else if serr := w.Start(); serr != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", serr)
		} else {
			defer w.Stop()
			opts.Watcher = w
			opts.Reload = func(ctx context.Context) (*loader.PrefixLoader, error) {
				p, _, rerr := openProvider(ctx, path, cfg, *seed, io.Discard)
				if rerr != nil {
					return nil, rerr
				}
				return loader.New(ctx, loader.Config{
					Provider:    p,
					InitialLoad: cfg.Dataset.InitialLoad,
					ChunkSize:   cfg.Dataset.ChunkSize,
				})
			}
		}
	}

	m := ui.New(ctrl, opts)
	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running gv: %v\n", err)
		os.Exit(1)
	}
}

// openProvider picks the data source by file extension. The returned
// close func is a no-op for sources with nothing to release.
func openProvider(ctx context.Context, path string, cfg config.Config, seed int64, warnTo io.Writer) (datasource.Provider, func(), error) {
	noop := func() {}
	if path == "" {
		return datasource.NewGenerated(cfg.Dataset.TotalRows, seed), noop, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		r, err := datasource.NewSQLiteReader(ctx, path)
		if err != nil {
			return nil, noop, err
		}
		return r, func() { _ = r.Close() }, nil
	case ".jsonl", ".ndjson", ".json":
		r, err := datasource.NewJSONLReader(path, datasource.ParseOptions{
			WarningHandler: func(msg string) {
				fmt.Fprintf(warnTo, "Warning: %s: %s\n", path, msg)
			},
		})
		if err != nil {
			return nil, noop, err
		}
		return r, noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported data file %q (want .db, .sqlite or .jsonl)", path)
	}
}

func title(path string) string {
	if path == "" {
		return "gv"
	}
	return "gv · " + filepath.Base(path)
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set GV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("GV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
