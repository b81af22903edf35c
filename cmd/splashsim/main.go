package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/splashsim/internal/analysis"
	"github.com/san-kum/splashsim/internal/config"
	"github.com/san-kum/splashsim/internal/experiment"
	"github.com/san-kum/splashsim/internal/export"
	"github.com/san-kum/splashsim/internal/logging"
	"github.com/san-kum/splashsim/internal/scene"
	"github.com/san-kum/splashsim/internal/sim"
	"github.com/san-kum/splashsim/internal/storage"
	"github.com/san-kum/splashsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	configFile string
	preset     string

	dt       float64
	duration float64
	radius   float64
	mass     float64
	spawns   []string

	frameRate int
	theme     string

	series   []string
	svgOut   string
	svgWidth int
	masses   []float64
	noSave   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "splashsim",
		Short: "fluid and particle sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, "water")
			if err != nil {
				return err
			}
			logger, closeLog, err := tuiLogger()
			if err != nil {
				return err
			}
			defer closeLog()
			viz.SetTheme(theme)
			return viz.RunMenu(*cfg, scene.NewRegistry(), logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".splashsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file for the terminal UI (default: discard)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "lagoon", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "open a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frames per second")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "drop bodies into the pool headless and record the run",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addPhysicsFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the final pool snapshot as SVG")
	runCmd.Flags().IntVar(&svgWidth, "svg-width", 800, "SVG width in pixels")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "drop one body per mass in parallel pools and compare where they settle",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addPhysicsFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	sweepCmd.Flags().Float64SliceVar(&masses, "masses", []float64{0.5, 1.2, 2.4, 10, 100}, "body masses to compare")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", nil, "series to plot (default: baseline and body heights)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportRun(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one run series as an SVG line chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringSliceVar(&series, "series", []string{"baseline"}, "series to export")
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "SVG width in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes := scene.NewRegistry().List()
			if len(args) > 0 {
				scenes = args
			}
			for _, s := range scenes {
				presets := config.ListPresets(s)
				if len(presets) == 0 {
					fmt.Printf("no presets for scene: %s\n", s)
					continue
				}
				fmt.Printf("presets for %s:\n", s)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, sweepCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "fixed timestep")
	cmd.Flags().Float64Var(&radius, "radius", config.DefaultRadius, "body radius in metres")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "body mass in kg")
	cmd.Flags().StringArrayVar(&spawns, "spawn", nil, "drop a body at x,y[,radius,mass] metres (repeatable)")
}

// loadConfig layers defaults, --config, --preset and explicit flags.
func loadConfig(cmd *cobra.Command, sceneName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(sceneName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(sceneName))
		}
		cfg = p
	}
	cfg.Scene = sceneName

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("radius") {
		cfg.Spawn.Radius = radius
	}
	if flags.Changed("mass") {
		cfg.Spawn.Mass = mass
	}
	if flags.Changed("fps") {
		cfg.Sim.FrameRate = frameRate
	}
	for _, s := range spawns {
		b, err := parseSpawn(s)
		if err != nil {
			return nil, err
		}
		cfg.Spawn.Bodies = append(cfg.Spawn.Bodies, b)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseSpawn reads "x,y" or "x,y,radius,mass".
func parseSpawn(s string) (config.BodySpawn, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 4 {
		return config.BodySpawn{}, fmt.Errorf("spawn %q: want x,y or x,y,radius,mass", s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return config.BodySpawn{}, fmt.Errorf("spawn %q: %w", s, err)
		}
		vals[i] = v
	}
	b := config.BodySpawn{X: vals[0], Y: vals[1]}
	if len(vals) == 4 {
		b.Radius, b.Mass = vals[2], vals[3]
	}
	return b, nil
}

// centreDrop places a body one metre above the middle of the resting surface.
func centreDrop(cfg *config.Config, mass float64) config.BodySpawn {
	return config.BodySpawn{
		X:      (cfg.Pool.Left + cfg.Pool.Width/2) / cfg.Pool.Scale,
		Y:      cfg.Pool.Top/cfg.Pool.Scale - 1,
		Radius: cfg.Spawn.Radius,
		Mass:   mass,
	}
}

func cliLogger() (*log.Logger, error) {
	return logging.New(os.Stderr, logLevel)
}

// tuiLogger keeps log lines off the alternate screen.
func tuiLogger() (*log.Logger, func(), error) {
	if logFile == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(f, logLevel)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	sceneName := "water"
	if len(args) > 0 {
		sceneName = args[0]
	}
	cfg, err := loadConfig(cmd, sceneName)
	if err != nil {
		return err
	}
	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	viz.SetTheme(theme)
	return viz.RunLive(*cfg, scene.NewRegistry(), logger)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	logger, err := cliLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, "water")
	if err != nil {
		return err
	}

	var extra []config.BodySpawn
	if len(cfg.Spawn.Bodies) == 0 {
		extra = append(extra, centreDrop(cfg, cfg.Spawn.Mass))
	}

	exp := experiment.New(cfg, preset, logger)
	if err := exp.Setup(extra...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running", "bodies", len(exp.Pool().Bodies()), "duration", cfg.Sim.Duration, "dt", cfg.Sim.Dt)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		logger.Warn("run error", "err", e)
	}
	logger.Info("completed", "elapsed", time.Since(start).Round(time.Millisecond), "steps", result.StepsTaken)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Metadata(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if svgOut != "" {
		svg := export.SnapshotToSVG(exp.Pool().Snapshot(), svgWidth)
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", svgOut)
	}

	printSummary(os.Stdout, result)

	ripple := analysis.SurfaceRipple(exp.Pool().Snapshot())
	if ripple.Amplitude > 0 {
		fmt.Printf("\nripples: %.3fm wavelength, %.4fm amplitude\n", ripple.Wavelength, ripple.Amplitude)
	} else {
		fmt.Println("\nripples: surface is flat")
	}
	return nil
}

func printSummary(out io.Writer, result *sim.Result) {
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	if final, ok := result.Final(); ok {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nBODY\tY\tVY\tPHASE\tSETTLED")
		for _, b := range final.Bodies {
			fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%s\t%v\n", b.ID, b.Y, b.VY, b.Phase, b.AtEquilibrium)
		}
		w.Flush()
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger, err := cliLogger()
	if err != nil {
		return err
	}
	base, err := loadConfig(cmd, "water")
	if err != nil {
		return err
	}
	if len(masses) == 0 {
		return fmt.Errorf("no masses to sweep")
	}

	ens := sim.NewEnsemble(len(masses), func(idx int) (*sim.Runner, error) {
		cfg := base.Clone()
		cfg.Spawn.Bodies = nil
		exp := experiment.New(cfg, preset, logging.Discard())
		if err := exp.Setup(centreDrop(cfg, masses[idx])); err != nil {
			return nil, err
		}
		return exp.Runner(), nil
	})

	logger.Info("sweeping", "runs", len(masses), "duration", base.Sim.Duration)
	results, err := ens.Run(context.Background(), sim.Config{Dt: base.Sim.Dt, Duration: base.Sim.Duration, RecordEvery: 100})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MASS\tFINAL Y\tMAX IMMERSION\tSETTLED\tSPLASHES")
	for i, r := range results {
		final, _ := r.Final()
		y := 0.0
		if len(final.Bodies) > 0 {
			y = final.Bodies[0].Y
		}
		splashes := 0
		for _, e := range r.Events {
			if e.Kind == sim.Entry {
				splashes++
			}
		}
		fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\t%.0f%%\t%d\n", masses[i], y, r.Metrics["max_immersion"], r.Metrics["settled_fraction"]*100, splashes)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tBODIES\tSPLASHES")

	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Bodies),
			run.Entries,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	data, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(data.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	names := series
	if len(names) == 0 {
		names = []string{"baseline"}
		for _, b := range meta.Bodies {
			names = append(names, fmt.Sprintf("b%d_y", b.ID))
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(data.Times))

	for _, name := range names {
		values, err := data.Get(name)
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(data.Columns, ", "))
		}
		graph := asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) != 1 {
		return fmt.Errorf("export-svg takes exactly one --series")
	}
	values, err := data.Get(series[0])
	if err != nil {
		return err
	}

	svg := export.SeriesToSVG(data.Times, values, svgWidth, svgWidth/2, "#00c8ff")
	if svgOut == "" {
		_, err := fmt.Fprintln(os.Stdout, svg)
		return err
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}
