// Command cpa runs a correlation power analysis pass over a directory of
// raw trace acquisitions: it rasterizes each acquisition onto a shared
// sample count, streams the result into a correlator against a hypothesis
// table, and dumps the resulting Pearson correlation matrix.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/doismellburning/tracecpa/correlator"
	"github.com/doismellburning/tracecpa/raster"
	"github.com/doismellburning/tracecpa/tracebuf"
)

type config struct {
	traceDir   string
	edgePath   string
	hypoPath   string
	outPath    string
	rasterPath string
	rasterSize int
	workers    int
	verbose    bool
	help       bool
}

// rasterConfigFile is the optional --raster-config YAML shape, an
// alternative to individually flagged tuning parameters when a site keeps
// its rasterization tuning under version control alongside its capture
// scripts.
type rasterConfigFile struct {
	Trigger      *float64 `yaml:"trigger"`
	PauseTrigger *float64 `yaml:"pause_trigger"`
	MinPause     *int     `yaml:"min_pause"`
	MaxPause     *int     `yaml:"max_pause"`
	HeaderSize   *int     `yaml:"header_size"`
}

func (f rasterConfigFile) applyTo(cfg *raster.Config) {
	if f.Trigger != nil {
		cfg.Trigger = *f.Trigger
	}
	if f.PauseTrigger != nil {
		cfg.PauseTrigger = *f.PauseTrigger
	}
	if f.MinPause != nil {
		cfg.MinPause = *f.MinPause
	}
	if f.MaxPause != nil {
		cfg.MaxPause = *f.MaxPause
	}
	if f.HeaderSize != nil {
		cfg.HeaderSize = *f.HeaderSize
	}
}

func loadRasterConfig(path string) (raster.Config, error) {
	cfg := raster.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading raster config %s: %w", path, err)
	}

	var file rasterConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parsing raster config %s: %w", path, err)
	}
	file.applyTo(&cfg)

	return cfg, nil
}

func parseFlags() config {
	var cfg config

	pflag.StringVarP(&cfg.traceDir, "traces", "t", "", "Directory of raw trace files (required).")
	pflag.StringVarP(&cfg.edgePath, "edge", "e", "", "Path to the edge template buffer (required).")
	pflag.StringVarP(&cfg.hypoPath, "hypo", "k", "", "Path to the hypothesis table buffer (required).")
	pflag.StringVarP(&cfg.outPath, "out", "o", "-", "Output path for the dumped matrix (\"-\" for stdout).")
	pflag.IntVarP(&cfg.rasterSize, "raster", "r", 1000, "Target samples per rasterized operation.")
	pflag.StringVar(&cfg.rasterPath, "raster-config", "", "Optional YAML file overriding rasterization tuning parameters.")
	pflag.IntVarP(&cfg.workers, "workers", "w", 4, "Number of parallel ingestion workers.")
	pflag.BoolVarP(&cfg.verbose, "verbose", "v", false, "Enable debug logging.")
	pflag.BoolVar(&cfg.help, "help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Correlation power analysis over a directory of trace acquisitions\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nUsage: %s --traces DIR --edge FILE --hypo FILE [OPTIONS]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if cfg.help {
		pflag.Usage()
		os.Exit(0)
	}

	return cfg
}

func main() {
	cfg := parseFlags()

	if cfg.verbose {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.traceDir == "" || cfg.edgePath == "" || cfg.hypoPath == "" {
		fmt.Fprintln(os.Stderr, "--traces, --edge and --hypo are all required")
		pflag.Usage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config) error {
	tracePaths, err := listTraceFiles(cfg.traceDir)
	if err != nil {
		return fmt.Errorf("listing trace files: %w", err)
	}
	if len(tracePaths) == 0 {
		return fmt.Errorf("no trace files found in %s", cfg.traceDir)
	}
	log.Infof("found %d trace acquisitions in %s", len(tracePaths), cfg.traceDir)

	edgeLen, err := fileElemCount(cfg.edgePath, 4)
	if err != nil {
		return fmt.Errorf("stat edge template: %w", err)
	}
	edgeBuf := tracebuf.New[float32](edgeLen)
	if err := tracebuf.LoadBuf(cfg.edgePath, edgeBuf); err != nil {
		return fmt.Errorf("loading edge template: %w", err)
	}
	edge := tracebuf.ToFloat64(edgeBuf)

	hypoLen, err := fileElemCount(cfg.hypoPath, 1)
	if err != nil {
		return fmt.Errorf("stat hypothesis table: %w", err)
	}
	hypoBuf := tracebuf.New[uint8](hypoLen)
	if err := tracebuf.LoadBuf(cfg.hypoPath, hypoBuf); err != nil {
		return fmt.Errorf("loading hypothesis table: %w", err)
	}

	rcfg, err := loadRasterConfig(cfg.rasterPath)
	if err != nil {
		return err
	}

	rasterized := make([][]float64, len(tracePaths))
	for i, p := range tracePaths {
		traceLen, err := fileElemCount(p, 4)
		if err != nil {
			return fmt.Errorf("stat trace %s: %w", p, err)
		}
		raw := tracebuf.New[float32](traceLen)
		if err := tracebuf.LoadBuf(p, raw); err != nil {
			return fmt.Errorf("loading trace %s: %w", p, err)
		}

		in := tracebuf.ToFloat64(raw)
		out, pauses, err := raster.Rasterize(rcfg, in, cfg.rasterSize, edge)
		if err != nil {
			return fmt.Errorf("rasterizing trace %s: %w", p, err)
		}
		log.Debugf("rasterized %s: %d samples, %d leading pauses", p, len(out), pauses)
		rasterized[i] = out
	}

	operations := len(rasterized[0]) / cfg.rasterSize
	traces := len(rasterized) * operations
	hypotheses := hypoBuf.Len() / traces
	if hypotheses == 0 {
		return fmt.Errorf("hypothesis table too small for %d traces", traces)
	}

	c, err := correlator.New(cfg.rasterSize, traces, hypotheses)
	if err != nil {
		return fmt.Errorf("constructing correlator: %w", err)
	}

	hypo := c.Hypo()
	for k := 0; k < hypotheses; k++ {
		for tr := 0; tr < traces; tr++ {
			hypo[k][tr] = hypoBuf.At(k*traces + tr)
		}
	}
	c.Preprocess()

	idxs := make([]int, traces)
	for i := range idxs {
		idxs[i] = i
	}
	src := opSource{rasterized: rasterized, raster: cfg.rasterSize, perFile: operations}
	if err := correlator.IngestParallel[float32](context.Background(), c, idxs, src, cfg.workers); err != nil {
		return fmt.Errorf("ingesting traces: %w", err)
	}

	out := os.Stdout
	if cfg.outPath != "-" {
		f, err := os.Create(cfg.outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := c.DumpMatrix(out); err != nil {
		return fmt.Errorf("dumping matrix: %w", err)
	}

	log.Infof("wrote correlation matrix (%d hypotheses x %d samples) to %s", hypotheses, cfg.rasterSize, cfg.outPath)
	return nil
}

// opSource hands out each rasterized operation (a fixed-width slice of one
// file's rasterized output) as a distinct trace index, so a single
// multi-operation acquisition contributes several traces.
type opSource struct {
	rasterized [][]float64
	raster     int
	perFile    int
}

func (s opSource) Trace(t int) ([]float32, error) {
	file := t / s.perFile
	op := t % s.perFile
	start := op * s.raster
	slice := s.rasterized[file][start : start+s.raster]

	buf := tracebuf.New[float32](len(slice))
	buf.FillFrom(slice)
	return buf.Slice(), nil
}

// fileElemCount returns how many fixed-width elements a raw trace file
// holds, so callers can size a tracebuf.Buffer before calling LoadBuf.
func fileElemCount(path string, elemSize int64) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.Size()%elemSize != 0 {
		return 0, fmt.Errorf("%s: size %d is not a multiple of element size %d", path, info.Size(), elemSize)
	}
	return int(info.Size() / elemSize), nil
}

func listTraceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
