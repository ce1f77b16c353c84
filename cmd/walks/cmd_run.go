package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/DauteRR/Random-Walks/internal/config"
	"github.com/DauteRR/Random-Walks/internal/constants"
	"github.com/DauteRR/Random-Walks/internal/driver"
	"github.com/DauteRR/Random-Walks/internal/grid"
	"github.com/DauteRR/Random-Walks/internal/logging"
	"github.com/DauteRR/Random-Walks/internal/simulation"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errNoWalks = errors.New("no walks to run: place at least one with --walks or --start")

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a random walk simulation",
		Long: `Run random walks on a grid until every walk finishes.

The grid side is floor(sqrt(density)) - 1 unless --rows and --columns are given.
Walks listed with --start are placed first, in order; --walks then adds that many
walks at random cells. Random draws that land on an occupied cell are dropped.
When --start is used without --walks, no random walks are added.

With --allow-collisions=false walks never enter a visited cell and never step
straight back, so they stay on the grid until they are boxed in.

Examples:
  walks run --walks 10 --allow-collisions=false
  walks run --rows 20 --columns 40 --start 10,20 --start 5,5
  walks run --trigger manual        # press Enter for each step, q to stop
  walks run --json --steps 100 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			configFlag, _ := cmd.Flags().GetString("config")

			cfg, err := config.LoadPath(configFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyRunFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			rawStarts, _ := cmd.Flags().GetStringArray("start")
			starts, err := parseStarts(rawStarts)
			if err != nil {
				return err
			}
			if len(starts) > 0 && !cmd.Flags().Changed("walks") {
				cfg.Simulation.Walks = 0
			}

			sigCh := make(chan os.Signal, 1)
			notifySignals(sigCh)
			defer signal.Stop(sigCh)

			summary, err := runSimulation(cmd.Context(), runOptions{
				cfg:     cfg,
				starts:  starts,
				jsonOut: jsonOut,
				out:     cmd.OutOrStdout(),
				in:      cmd.InOrStdin(),
				errOut:  cmd.ErrOrStderr(),
				signals: sigCh,
			})
			if err != nil {
				return err
			}

			return printSummary(cmd.OutOrStdout(), summary, jsonOut)
		},
	}

	cmd.Flags().Int("density", constants.DefaultDensity, "Number of points; the grid side is floor(sqrt(density))-1")
	cmd.Flags().Int("rows", 0, "Grid rows (use with --columns instead of --density)")
	cmd.Flags().Int("columns", 0, "Grid columns (use with --rows instead of --density)")
	cmd.Flags().Int("walks", constants.DefaultWalks, "Number of walks placed at random cells")
	cmd.Flags().StringArray("start", nil, "Start cell as row,col (repeatable)")
	cmd.Flags().Bool("allow-collisions", constants.DefaultAllowCollisions, "Let walks share cells and step back")
	cmd.Flags().Int("steps", constants.DefaultMaxSteps, "Stop after this many steps (0 = until all walks finish)")
	cmd.Flags().Duration("delay", constants.DefaultDelay, "Interval between steps in timer mode (0 = no pause)")
	cmd.Flags().String("trigger", string(constants.TriggerTimer), "How steps are driven: timer or manual")
	cmd.Flags().Int64("seed", 0, "Random seed (0 = seed from the clock)")
	cmd.Flags().String("log-level", "", "Log level: info, debug, trace")
	cmd.Flags().String("trace-dir", "", "Directory for trace.jsonl at debug level (default ~/.walks/traces)")

	return cmd
}

// applyRunFlags overrides configuration with flags the user set explicitly.
func applyRunFlags(cmd *cobra.Command, cfg *config.WalksConfig) {
	flags := cmd.Flags()
	sim := &cfg.Simulation

	if flags.Changed("density") {
		sim.Density, _ = flags.GetInt("density")
		if !flags.Changed("rows") && !flags.Changed("columns") {
			sim.Rows, sim.Columns = 0, 0
		}
	}
	if flags.Changed("rows") {
		sim.Rows, _ = flags.GetInt("rows")
	}
	if flags.Changed("columns") {
		sim.Columns, _ = flags.GetInt("columns")
	}
	if flags.Changed("walks") {
		sim.Walks, _ = flags.GetInt("walks")
	}
	if flags.Changed("allow-collisions") {
		sim.AllowCollisions, _ = flags.GetBool("allow-collisions")
	}
	if flags.Changed("steps") {
		sim.MaxSteps, _ = flags.GetInt("steps")
	}
	if flags.Changed("delay") {
		sim.Delay, _ = flags.GetDuration("delay")
	}
	if flags.Changed("trigger") {
		trigger, _ := flags.GetString("trigger")
		sim.Trigger = constants.Trigger(trigger)
	}
	if flags.Changed("seed") {
		sim.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("trace-dir") {
		cfg.Logging.TraceDir, _ = flags.GetString("trace-dir")
	}
}

// parseStarts parses "row,col" pairs.
func parseStarts(raw []string) ([]grid.Cell, error) {
	cells := make([]grid.Cell, 0, len(raw))
	for _, s := range raw {
		rowStr, colStr, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("invalid --start %q: want row,col", s)
		}
		row, err := strconv.Atoi(strings.TrimSpace(rowStr))
		if err != nil {
			return nil, fmt.Errorf("invalid --start %q: bad row: %w", s, err)
		}
		col, err := strconv.Atoi(strings.TrimSpace(colStr))
		if err != nil {
			return nil, fmt.Errorf("invalid --start %q: bad column: %w", s, err)
		}
		cells = append(cells, grid.Cell{Row: row, Col: col})
	}
	return cells, nil
}

type runOptions struct {
	cfg     *config.WalksConfig
	starts  []grid.Cell
	jsonOut bool
	out     io.Writer
	in      io.Reader
	errOut  io.Writer
	signals <-chan os.Signal
}

// runSummary is printed once a run stops.
type runSummary struct {
	RunID           string        `json:"run_id"`
	Reason          driver.Reason `json:"reason"`
	Steps           int           `json:"steps"`
	Walks           int           `json:"walks"`
	Finished        int           `json:"finished"`
	Occupied        int           `json:"occupied"`
	Rows            int           `json:"rows"`
	Columns         int           `json:"columns"`
	AllowCollisions bool          `json:"allow_collisions"`
	Elapsed         string        `json:"elapsed"`
}

func runSimulation(ctx context.Context, opts runOptions) (*runSummary, error) {
	simCfg := opts.cfg.Simulation
	level := opts.cfg.Logging.Level
	logger := logging.NewLogger(level, opts.errOut)

	rows, columns, err := simCfg.Dimensions()
	if err != nil {
		return nil, fmt.Errorf("failed to size grid: %w", err)
	}

	sim, err := simulation.New(rows, columns, simCfg.AllowCollisions, simulation.NewRand(simCfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	for _, start := range opts.starts {
		added, err := sim.AddWalk(start)
		if err != nil {
			return nil, fmt.Errorf("failed to place walk: %w", err)
		}
		if !added {
			logger.Debug("start cell occupied, walk skipped", "cell", start.String())
		}
	}
	if simCfg.Walks > 0 {
		admitted := sim.AddRandomWalks(simCfg.Walks)
		logger.Debug("random walks placed", "requested", simCfg.Walks, "admitted", admitted)
	}
	if sim.Len() == 0 {
		return nil, errNoWalks
	}

	runID := uuid.NewString()
	trace, err := logging.OpenTracer(traceDirectory(opts.cfg.Logging.TraceDir), level, runID)
	if err != nil {
		logger.Warn("run trace disabled", "error", err)
	}
	defer func() {
		if err := trace.Close(); err != nil {
			logger.Warn("failed to write run trace", "error", err)
		}
	}()

	logger.Debug("run started",
		"run_id", runID,
		"rows", rows,
		"columns", columns,
		"walks", sim.Len(),
		"allow_collisions", simCfg.AllowCollisions,
		"trigger", simCfg.Trigger.String())
	trace.Record(logging.RunStarted{
		Rows:            rows,
		Columns:         columns,
		Walks:           sim.Len(),
		AllowCollisions: sim.AllowCollisions(),
		Seed:            simCfg.Seed,
		Trigger:         simCfg.Trigger.String(),
	})

	printer := tickPrinter{w: opts.out, json: opts.jsonOut}
	finished := make([]bool, sim.Len())
	onTick := func(step int, cells []grid.Cell) error {
		if err := printer.print(step, cells); err != nil {
			return fmt.Errorf("failed to write step: %w", err)
		}
		if trace.TracesTicks() {
			trace.Record(logging.Tick{Step: step, Cells: cellPairs(cells)})
		}
		for i, c := range cells {
			if c != simulation.FinishedMarker || finished[i] {
				continue
			}
			finished[i] = true
			logger.Debug("walk finished", "walk", i, "step", step)
			trace.Record(logging.WalkFinished{Walk: i, Step: step})
		}
		return nil
	}

	d := &driver.Driver{
		Sim:      sim,
		MaxSteps: simCfg.MaxSteps,
		OnTick:   onTick,
		Logger:   logger,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		select {
		case <-opts.signals:
			logger.Info("interrupted, stopping run")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	var outcome driver.Outcome
	start := time.Now()
	g.Go(func() error {
		defer cancel()
		var err error
		if simCfg.Trigger == constants.TriggerManual {
			if !opts.jsonOut {
				fmt.Fprintln(opts.errOut, "Press Enter for the next step, q to stop.")
			}
			outcome, err = d.RunManual(gctx, readTriggers(gctx, opts.in))
		} else {
			d.Interval = simCfg.Delay
			outcome, err = d.Run(gctx)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run failed: %w", err)
	}

	summary := &runSummary{
		RunID:           runID,
		Reason:          outcome.Reason,
		Steps:           outcome.Steps,
		Walks:           sim.Len(),
		Finished:        sim.Len() - sim.Active(),
		Occupied:        sim.Occupied(),
		Rows:            rows,
		Columns:         columns,
		AllowCollisions: sim.AllowCollisions(),
		Elapsed:         time.Since(start).Round(time.Millisecond).String(),
	}

	trace.Record(logging.RunFinished{
		Reason:   string(summary.Reason),
		Steps:    summary.Steps,
		Finished: summary.Finished,
		Occupied: summary.Occupied,
	})

	return summary, nil
}

// readTriggers sends one trigger per input line until EOF or a "q" line.
// A blocked read cannot be interrupted, so the goroutine may outlive ctx
// until the next line arrives.
func readTriggers(ctx context.Context, in io.Reader) <-chan struct{} {
	triggers := make(chan struct{})
	go func() {
		defer close(triggers)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			switch strings.TrimSpace(scanner.Text()) {
			case "q", "quit":
				return
			}
			select {
			case triggers <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return triggers
}

// traceDirectory returns the configured trace directory or ~/.walks/traces.
func traceDirectory(configured string) string {
	if configured != "" {
		return configured
	}
	p, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(p), "traces")
}

type tickPrinter struct {
	w    io.Writer
	json bool
}

type tickRecord struct {
	Step  int       `json:"step"`
	Cells []*[2]int `json:"cells"`
}

func (p tickPrinter) print(step int, cells []grid.Cell) error {
	if p.json {
		return json.NewEncoder(p.w).Encode(tickRecord{Step: step, Cells: cellPairs(cells)})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Step %d:", step)
	for _, c := range cells {
		b.WriteByte(' ')
		if c == simulation.FinishedMarker {
			b.WriteString("finished")
		} else {
			b.WriteString(c.String())
		}
	}
	_, err := fmt.Fprintln(p.w, b.String())
	return err
}

// cellPairs converts positions to [row, col] pairs with nil for finished walks.
func cellPairs(cells []grid.Cell) []*[2]int {
	pairs := make([]*[2]int, len(cells))
	for i, c := range cells {
		if c == simulation.FinishedMarker {
			continue
		}
		pairs[i] = &[2]int{c.Row, c.Col}
	}
	return pairs
}

func printSummary(w io.Writer, s *runSummary, jsonOut bool) error {
	if jsonOut {
		return json.NewEncoder(w).Encode(map[string]interface{}{"summary": s})
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run %s: %s after %s steps (%s)\n", s.RunID, s.Reason, humanize.Comma(int64(s.Steps)), s.Elapsed)
	fmt.Fprintf(w, "  walks:      %s (%s finished)\n", humanize.Comma(int64(s.Walks)), humanize.Comma(int64(s.Finished)))
	fmt.Fprintf(w, "  grid:       %dx%d\n", s.Rows, s.Columns)
	fmt.Fprintf(w, "  collisions: %s\n", collisionMode(s.AllowCollisions))
	fmt.Fprintf(w, "  occupied:   %s of %s cells\n",
		humanize.Comma(int64(s.Occupied)), humanize.Comma(int64(s.Rows)*int64(s.Columns)))
	return nil
}

func collisionMode(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "self-avoiding"
}
