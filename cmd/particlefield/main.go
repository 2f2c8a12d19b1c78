package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlefield/internal/config"
	"github.com/san-kum/particlefield/internal/export"
	"github.com/san-kum/particlefield/internal/field"
	"github.com/san-kum/particlefield/internal/field/headless"
	"github.com/san-kum/particlefield/internal/metrics"
	"github.com/san-kum/particlefield/internal/raster"
	"github.com/san-kum/particlefield/internal/sim"
	"github.com/san-kum/particlefield/internal/storage"
	"github.com/san-kum/particlefield/internal/term"
	"github.com/san-kum/particlefield/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	debugFile  string
	watch      bool
	benchRuns  int

	agent      string
	mode       string
	palette    []string
	background string
	theme      string
	seed       int64
	frameRate  int
	width      int
	height     int
	frames     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "particlefield",
		Short: "animated particle backgrounds for research agents",
		RunE:  runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".particlefield", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&debugFile, "debug", "", "write debug log to file")
	pf.StringVar(&agent, "agent", config.DefaultAgent, "agent preset")
	pf.StringVar(&mode, "mode", "", "animation mode (dna, molecules, network)")
	pf.StringSliceVar(&palette, "palette", nil, "particle colours, e.g. #00758a,#0844b2")
	pf.StringVar(&background, "background", "", "background colour")
	pf.StringVar(&theme, "theme", "", "terminal theme")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
	pf.IntVar(&width, "width", config.DefaultWidth, "image width in pixels")
	pf.IntVar(&height, "height", config.DefaultHeight, "image height in pixels")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "frames to run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the field in an interactive terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
	rootCmd.Flags().AddFlagSet(liveCmd.Flags())

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "run the field full screen on a raw terminal",
		RunE:  runTerm,
	}

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "render frames to a GIF and save the run",
		RunE:  recordRun,
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run headless and plot per-frame statistics",
		RunE:  traceRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [mode...]",
		Short: "benchmark frame throughput per mode",
		RunE:  benchModes,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "seeded runs per mode, run in parallel")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file.svg]",
		Short: "write the field after --frames frames as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotFrame,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list agent presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved config to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	})

	rootCmd.AddCommand(liveCmd, termCmd, recordCmd, traceCmd, benchCmd, snapshotCmd, listCmd, exportCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the config file, then flags the user set, over the
// defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("agent") {
		if err := cfg.ApplyAgent(agent); err != nil {
			return nil, err
		}
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("palette") {
		cfg.Palette = palette
	}
	if flags.Changed("background") {
		cfg.Background = background
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger routes the log package to --debug when set. Bubble Tea owns
// the terminal, so nothing is logged to stderr.
func newLogger() (*log.Logger, func(), error) {
	if debugFile == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := tea.LogToFile(debugFile, "particlefield")
	if err != nil {
		return nil, nil, err
	}
	return log.Default(), func() { f.Close() }, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := viz.NewModel(cfg, logger)
	if err != nil {
		return err
	}

	if watch && configFile != "" {
		w, err := config.NewWatcher(configFile, logger)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go w.Run(ctx)
		m.Watch(w.Updates())
	}

	return viz.Run(m)
}

func runTerm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	h := term.NewHost(screen, cfg.FPS, logger)
	if bg, err := field.ParseColor(cfg.Background); err == nil {
		h.SetBackground(bg.RGB())
	}
	opts = append(opts,
		field.WithLogger(logger),
		field.WithObserver(field.ObserverFunc(func(st field.FrameStats) {
			h.SetStatus(fmt.Sprintf(" %s  %s  frame %d  lines %d  q quit", cfg.Agent, cfg.Mode, st.Frame, st.Lines))
		})),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return h.Run(ctx, field.New(opts...))
}

func recordRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	pal, _ := cfg.FieldPalette()
	bg, err := field.ParseColor(cfg.Background)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Create()
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder(cfg.Frames, metrics.Default()...)
	anim := field.New(append(opts, field.WithObserver(rec))...)
	surface := raster.NewSurface(cfg.Width, cfg.Height, bg.RGB())
	gif := raster.NewGIFRecorder(raster.BuildPalette(bg.RGB(), pal), cfg.FPS)

	fmt.Printf("recording %d frames of %s (%dx%d)\n", cfg.Frames, cfg.Mode, cfg.Width, cfg.Height)
	start := time.Now()
	pool, err := raster.NewHost(surface).Record(anim, cfg.Frames, gif)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	gifPath := filepath.Join(st.RunDir(runID), storage.AnimationFile)
	if err := gif.Save(gifPath); err != nil {
		return err
	}

	meta := storage.RunMetadata{
		ID:        runID,
		Agent:     cfg.Agent,
		Mode:      cfg.Mode,
		Palette:   cfg.Palette,
		Timestamp: start,
		Seed:      cfg.Seed,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Frames:    gif.Len(),
		Elapsed:   elapsed,
		Animation: storage.AnimationFile,
		Metrics:   rec.Values(),
	}
	if err := st.Save(meta, pool); err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("gif: %s\n", gifPath)
	fmt.Printf("elapsed: %v\n", elapsed.Round(time.Millisecond))
	return nil
}

func traceRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder(cfg.Frames, metrics.Default()...)
	h := headless.NewHost(cfg.Width, cfg.Height)
	anim := field.New(append(opts, field.WithObserver(rec))...)
	anim.Mount(h)
	h.Frames(cfg.Frames)
	anim.Unmount()

	fmt.Printf("mode: %s\n", anim.Mode())
	fmt.Printf("frames: %d\n\n", len(rec.Series(metrics.Recycled)))

	plots := []struct {
		caption string
		pick    func(field.FrameStats) float64
	}{
		{"recycled per frame", metrics.Recycled},
		{"links per frame", metrics.Lines},
	}
	for _, p := range plots {
		data := rec.Series(p.pick)
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	values := rec.Values()
	for _, name := range rec.Names() {
		fmt.Fprintf(w, "%s\t%.3f\n", name, values[name])
	}
	return w.Flush()
}

func benchModes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	modes := field.Modes()
	if len(args) > 0 {
		modes = modes[:0:0]
		for _, a := range args {
			m, err := field.ParseModeStrict(a)
			if err != nil {
				return err
			}
			modes = append(modes, m)
		}
	}
	pal, err := cfg.FieldPalette()
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d frames at %dx%d, %d runs per mode\n\n", cfg.Frames, cfg.Width, cfg.Height, benchRuns)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tPARTICLES\tFRAMES\tFRAMES/SEC\tDRAWS/FRAME\tRECYCLE/FRAME")

	ens := sim.NewEnsemble(benchRuns, 42)
	for _, m := range modes {
		results, err := ens.Run(cmd.Context(), sim.Config{
			Mode:    m,
			Palette: pal,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Frames:  cfg.Frames,
		})
		if err != nil {
			return err
		}
		sum := sim.Summarize(results)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f\t%.1f\t%.2f\n",
			m, m.PoolSize(), sum.Frames, sum.FPS, sum.Draws, sum.Metrics["recycle_rate"])
	}
	return w.Flush()
}

func snapshotFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	bg, err := field.ParseColor(cfg.Background)
	if err != nil {
		return err
	}

	path := "field.svg"
	if len(args) > 0 {
		path = args[0]
	}
	svg := export.NewSVG(cfg.Width, cfg.Height, bg.RGB())
	if err := export.Snapshot(field.New(opts...), svg, cfg.Frames); err != nil {
		return err
	}
	if err := svg.WriteFile(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d shapes)\n", path, svg.Elements())
	return nil
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
	fmt.Fprintln(w, "ID\tAGENT\tMODE\tTIME\tSIZE\tFRAMES\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%v\n",
			run.ID,
			run.Agent,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Frames,
			run.Elapsed.Round(time.Millisecond),
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\tMODE\tPALETTE\tTITLE")
	for _, name := range config.ListPresets() {
		a := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Name, a.Mode, viz.Swatch(a.Palette().Strings()), a.Title)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := "particlefield.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
