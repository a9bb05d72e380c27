package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/larch/pkg/config"
	"github.com/vanderheijden86/larch/pkg/fstree"
	"github.com/vanderheijden86/larch/pkg/ui"
	"github.com/vanderheijden86/larch/pkg/version"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	printFlag := flag.Bool("print", false, "Print the tree to stdout instead of launching the TUI")
	jsonFlag := flag.Bool("json", false, "Print the tree as JSON (implies --print)")
	depthFlag := flag.Int("depth", 0, "Expand to this many levels (0 = config default, -1 = everything)")
	allFlag := flag.Bool("all", false, "Include dotfiles")
	sortFlag := flag.String("sort", "", "Sort siblings by: name, size, mtime")
	reverseFlag := flag.Bool("reverse", false, "Reverse sort order")
	duFlag := flag.Bool("du", false, "Print total disk usage of the directory and exit")
	flag.Parse()

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
		fmt.Println("Usage: larch [options] [directory]")
		fmt.Println("\nAn interactive filesystem tree navigator.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("larch %s\n", version.Version)
		os.Exit(0)
	}

	path := "."
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	if *duFlag {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		total, err := fstree.DiskUsage(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "larch: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\n", ui.FormatSize(total), path)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		// Non-fatal: continue with defaults
		cfg = config.DefaultConfig()
	}

	tree, err := fstree.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "larch: %v\n", err)
		os.Exit(1)
	}

	field := cfg.SortField()
	dir := cfg.SortDirection()
	if *sortFlag != "" {
		f, ok := fstree.ParseSortField(*sortFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "larch: unknown sort field %q\n", *sortFlag)
			os.Exit(2)
		}
		field = f
	}
	if *reverseFlag {
		if dir == fstree.SortAscending {
			dir = fstree.SortDescending
		} else {
			dir = fstree.SortAscending
		}
	}
	tree.Sort(field, dir)

	showHidden := cfg.UI.ShowHidden || *allFlag

	// Piped output never gets a TUI.
	if *printFlag || *jsonFlag || !term.IsTerminal(int(os.Stdout.Fd())) {
		policy := printPolicy(*depthFlag, cfg.UI.MaxDepth)
		var perr error
		if *jsonFlag {
			perr = printJSON(os.Stdout, tree, policy, showHidden)
		} else {
			perr = printTree(os.Stdout, tree, policy, showHidden)
		}
		if perr != nil {
			fmt.Fprintf(os.Stderr, "larch: %v\n", perr)
			os.Exit(1)
		}
		return
	}

	cfg.UI.Sort = field.String()
	cfg.UI.SortDescending = dir == fstree.SortDescending
	cfg.UI.ShowHidden = showHidden
	if *depthFlag != 0 {
		cfg.UI.MaxDepth = *depthFlag
	}

	m := ui.NewModel(tree, cfg)
	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running larch: %v\n", err)
		os.Exit(1)
	}
}

// printPolicy resolves the --depth flag against the configured default.
func printPolicy(flagDepth, cfgDepth int) fstree.DepthPolicy {
	d := flagDepth
	if d == 0 {
		d = cfgDepth
	}
	if d < 0 {
		return fstree.ExpandAll()
	}
	return fstree.ExpandToDepth(d)
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

	// Optional auto-quit for automated tests: set LARCH_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("LARCH_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
					p.Quit()
				}
			}()
		}
	}

	_, err := p.Run()
	return err
}
