package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chazu/airsketch/pkg/engine"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/preview"
	"github.com/chazu/airsketch/pkg/watcher"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Run a gesture script and summarise the resulting sketch",
	Long: `Run a gesture script against a fresh session and print the strokes,
groups and selection it leaves behind. With --svg the sketch is also
written as a top-down preview; with --watch the script is replayed
every time it is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().String("svg", "", "write a top-down SVG preview to this file")
	replayCmd.Flags().Bool("watch", false, "replay whenever the script changes")
	rootCmd.AddCommand(replayCmd)
}

// errScript reports that a script failed to evaluate; details are printed.
var errScript = errors.New("script failed")

func runReplay(cmd *cobra.Command, args []string) error {
	e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	svgPath, _ := cmd.Flags().GetString("svg")
	watch, _ := cmd.Flags().GetBool("watch")
	out := cmd.OutOrStdout()

	if !watch {
		return replay(out, e, args[0], svgPath)
	}

	fw, err := watcher.New(watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	// callbacks run on timer goroutines
	var mu sync.Mutex
	rerun := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "\n%s changed, replaying\n", path)
		if err := replay(out, e, args[0], svgPath); err != nil && !errors.Is(err, errScript) {
			logging.Logger().Warn("replay failed", "path", args[0], "err", err)
		}
	}

	if err := replay(out, e, args[0], svgPath); err != nil && !errors.Is(err, errScript) {
		return err
	}
	if err := fw.Watch([]string{args[0]}, rerun); err != nil {
		return err
	}
	if cfgPath, _ := cmd.Flags().GetString("config"); cfgPath != "" {
		err := fw.Watch([]string{cfgPath}, func(path string) {
			next, err := newEngine(cmd)
			if err != nil {
				logging.Logger().Warn("config reload failed", "path", path, "err", err)
				return
			}
			mu.Lock()
			e = next
			mu.Unlock()
			logging.Logger().Info("config reloaded", "path", path)
			rerun(path)
		})
		if err != nil {
			return err
		}
	}
	fw.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case <-ctx.Done():
	case <-fw.Done():
	}
	return nil
}

// replay evaluates the script at path and reports on w.
func replay(w io.Writer, e *engine.Engine, path, svgPath string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := e.EvaluateResult(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(res.Errors) > 0 {
		for _, ee := range res.Errors {
			fmt.Fprintf(w, "error: %s\n", ee)
		}
		return fmt.Errorf("%s: %w", path, errScript)
	}

	s := res.Session
	g := s.Scene()
	var strokes, groups int
	for _, n := range g.All() {
		switch n.Kind {
		case graph.NodeStroke:
			strokes++
		case graph.NodeGroup:
			groups++
		}
	}
	fmt.Fprintf(w, "Script: %s\n", path)
	fmt.Fprintf(w, "  Strokes:   %d\n", strokes)
	fmt.Fprintf(w, "  Groups:    %d\n", groups)
	fmt.Fprintf(w, "  Selected:  %d\n", s.Selection().Len())
	fmt.Fprintf(w, "  Action:    %s\n", s.Action())
	fmt.Fprintf(w, "  Color:     %s\n", s.Palette().Color().Hex())
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}

	if svgPath == "" {
		return nil
	}
	f, err := os.Create(svgPath)
	if err != nil {
		return err
	}
	if err := preview.WriteSVG(f, g, preview.DefaultOptions()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Preview written to %s\n", svgPath)
	return nil
}
