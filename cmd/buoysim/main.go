package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/buoysim/internal/analysis"
	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/export"
	"github.com/san-kum/buoysim/internal/metrics"
	"github.com/san-kum/buoysim/internal/sim"
	"github.com/san-kum/buoysim/internal/storage"
	"github.com/san-kum/buoysim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	configFile string
	verbose    bool
	noSave     bool
	series     string
	svgOut     string
	format     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "buoysim",
		Short: "fluid equilibrium and buoyancy simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			dynamo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".buoysim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene and save its samples",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without saving the run")

	batchCmd := &cobra.Command{
		Use:   "batch [preset]...",
		Short: "run several presets concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time")
	batchCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "pool_height", "series to plot")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the plot as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics and dominant frequency of a series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&series, "series", "pool_height", "series to analyze")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "boat height against vertical velocity",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time")
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")

	renderCmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "run a scene and draw its last frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderScene,
	}
	renderCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time")
	renderCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	renderCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	renderCmd.Flags().StringVar(&svgOut, "out", "scene.svg", "output file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).Export(os.Stdout, args[0], format)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "csv or json")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Descriptions[name])
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, batchCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, liveCmd, renderCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves a scene from --config or a preset name and applies
// the --dt and --time flags when they were given.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case len(args) == 1:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
		}
	default:
		return nil, fmt.Errorf("need a preset or --config")
	}

	if f := cmd.Flags().Lookup("dt"); f != nil && f.Changed {
		cfg.Dt = dt
	}
	if f := cmd.Flags().Lookup("time"); f != nil && f.Changed {
		cfg.Duration = duration
	}
	return cfg, nil
}

func newSimulator(cfg *config.Config) (*sim.Simulator, error) {
	scene, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	s := sim.New(scene)
	for _, m := range metrics.Standard(cfg.Physics.Gravity) {
		s.AddMetric(m)
	}
	return s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := s.Run(ctx, cfg.Sim())
	if err != nil {
		return err
	}

	printMetrics(cfg.Name, result)
	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result, s.Scene().Snapshot())
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func printMetrics(name string, result *sim.Result) {
	fmt.Printf("%s: %d frames\n", name, result.StepsTaken)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, m := range metrics.Standard(0) {
		fmt.Fprintf(w, "  %s\t%.6g\n", m.Name(), result.Metrics[m.Name()])
	}
	w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	sims := make([]*sim.Simulator, 0, len(args))
	var simCfg sim.Config
	for _, name := range args {
		cfg, err := loadConfig(cmd, []string{name})
		if err != nil {
			return err
		}
		s, err := newSimulator(cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		sims = append(sims, s)
		simCfg = cfg.Sim()
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := sim.NewBatch(sims...).Run(ctx, simCfg)
	if err != nil {
		return err
	}
	for i, r := range results {
		printMetrics(args[i], r)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSPILL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%.4g\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Metrics["spill"],
		)
	}
	return w.Flush()
}

func loadSeries(runID string) (*storage.RunMetadata, []sim.Sample, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	data, err := analysis.Series(samples, series)
	if err != nil {
		return nil, nil, nil, err
	}
	return meta, samples, data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, data, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(series+" vs time"),
	))

	if svgOut != "" {
		times := make([]float64, len(samples))
		for i, s := range samples {
			times[i] = s.Time
		}
		if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(times, data, 800, 300, "#00a8cc")), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, _, data, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s (%s)\n\n", meta.ID, series)

	sum := analysis.Summarize(data)
	fmt.Printf("mean:   %.6g\n", sum.Mean)
	fmt.Printf("stddev: %.6g\n", sum.StdDev)
	fmt.Printf("range:  [%.6g, %.6g]\n\n", sum.Min, sum.Max)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 4 {
		fmt.Println(asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+series+")"),
		))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}
	out := analysis.PhasePortraitToASCII(analysis.BoatPhasePortrait(samples), 80, 24)
	if out == "" {
		return fmt.Errorf("no data in run %s", args[0])
	}
	fmt.Println("boat height (x) vs vertical velocity (y)")
	fmt.Print(out)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	model, err := viz.NewModel(cfg.Build, cfg.Name, cfg.Dt)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func renderScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	scene, err := cfg.Build()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := sim.New(scene).Run(ctx, cfg.Sim()); err != nil {
		return err
	}

	canvas := viz.NewCanvas(80, 30)
	viz.Render(canvas, scene, scene.Sample())
	if err := os.WriteFile(svgOut, []byte(export.CanvasToSVG(canvas, 4, "#00a8cc")), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}
