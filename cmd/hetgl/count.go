package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
	"github.com/LucaCappelletti94/heterogeneous-graphlets/libhetgl"
	"github.com/LucaCappelletti94/heterogeneous-graphlets/libhetgl/catalog"
)

// RunConfig mirrors the count command flags; a yaml file sets the defaults
// and explicit flags win over it.
type RunConfig struct {
	Nodes         string `yaml:"nodes"`
	Edges         string `yaml:"edges"`
	Expr          string `yaml:"expr"`
	Directed      bool   `yaml:"directed"`
	MaxSize       int    `yaml:"max_size"`
	Workers       int    `yaml:"workers"`
	Catalog       string `yaml:"catalog"`
	OrbitsOut     string `yaml:"orbits_out"`
	NodeCountsOut string `yaml:"node_counts_out"`
}

var cfg = RunConfig{
	MaxSize: 4,
}
var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "hetgl",
	Short:         "heterogeneous graphlet counting",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "enumerate and count typed graphlets of a graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCount(cmd)
	},
}

func init() {
	flags := countCmd.Flags()
	flags.StringVar(&cfgPath, "config", "", "yaml run config (flags override it)")
	flags.StringVar(&cfg.Nodes, "nodes", "", "node csv: node_id,node_type")
	flags.StringVar(&cfg.Edges, "edges", "", "edge csv: src,dst,edge_type")
	flags.StringVar(&cfg.Expr, "expr", "", "inline graph expression, e.g. \"1a-2b,2b~3a\"")
	flags.BoolVar(&cfg.Directed, "directed", false, "treat edges as directed arcs")
	flags.IntVar(&cfg.MaxSize, "max-size", cfg.MaxSize, "largest graphlet size to count")
	flags.IntVar(&cfg.Workers, "workers", 0, "enumeration workers (0 = GOMAXPROCS)")
	flags.StringVar(&cfg.Catalog, "catalog", "", "orbit catalog db path (optional)")
	flags.StringVar(&cfg.OrbitsOut, "orbits-out", "", "orbit table csv output (default stdout report)")
	flags.StringVar(&cfg.NodeCountsOut, "node-counts-out", "", "per-node orbit counts csv output")
	rootCmd.AddCommand(countCmd)
}

func loadConfigFile(cmd *cobra.Command) error {
	if cfgPath == "" {
		return nil
	}
	buf, err := os.ReadFile(cfgPath)
	if err != nil {
		return errors.Wrap(err, "reading run config")
	}
	var fromFile RunConfig
	if err := yaml.Unmarshal(buf, &fromFile); err != nil {
		return errors.Wrap(err, "parsing run config")
	}

	// Only adopt file values for flags the user left untouched.
	merge := cfg
	cfg = fromFile
	if cmd.Flags().Changed("nodes") {
		cfg.Nodes = merge.Nodes
	}
	if cmd.Flags().Changed("edges") {
		cfg.Edges = merge.Edges
	}
	if cmd.Flags().Changed("expr") {
		cfg.Expr = merge.Expr
	}
	if cmd.Flags().Changed("directed") {
		cfg.Directed = merge.Directed
	}
	if cmd.Flags().Changed("max-size") {
		cfg.MaxSize = merge.MaxSize
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = merge.Workers
	}
	if cmd.Flags().Changed("catalog") {
		cfg.Catalog = merge.Catalog
	}
	if cmd.Flags().Changed("orbits-out") {
		cfg.OrbitsOut = merge.OrbitsOut
	}
	if cmd.Flags().Changed("node-counts-out") {
		cfg.NodeCountsOut = merge.NodeCountsOut
	}
	return nil
}

func runCount(cmd *cobra.Command) error {
	if err := loadConfigFile(cmd); err != nil {
		return err
	}

	runID := uuid.NewString()
	klog.Infof("run %s: max-size=%d workers=%d directed=%v", runID, cfg.MaxSize, cfg.Workers, cfg.Directed)

	var (
		g   *libhetgl.Graph
		err error
	)
	switch {
	case cfg.Expr != "":
		g, err = libhetgl.ParseGraphExpr(cfg.Expr)
	case cfg.Edges != "":
		g, err = LoadGraphCSV(cfg.Nodes, cfg.Edges, cfg.Directed)
	default:
		return errors.New("one of --expr or --edges is required")
	}
	if err != nil {
		return err
	}
	klog.Infof("run %s: graph loaded, %d nodes, %d edges", runID, g.NumNodes(), g.NumEdges())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	res, err := libhetgl.Count(ctx, g, libhetgl.Params{
		MaxSize: cfg.MaxSize,
		Workers: cfg.Workers,
	})
	if err != nil {
		return err
	}
	klog.Infof("run %s: %d instances across %d orbits in %v",
		runID, res.TotalInstances(), len(res.Orbits), time.Since(started))

	if cfg.Catalog != "" {
		if err := recordOrbits(cfg.Catalog, res); err != nil {
			return err
		}
	}

	if cfg.OrbitsOut != "" {
		if err := writeFile(cfg.OrbitsOut, func(f *os.File) error {
			return WriteOrbitsCSV(res, f)
		}); err != nil {
			return err
		}
	} else {
		res.WriteReport(os.Stdout)
	}

	if cfg.NodeCountsOut != "" {
		if err := writeFile(cfg.NodeCountsOut, func(f *os.File) error {
			return WriteNodeCountsCSV(res, f)
		}); err != nil {
			return err
		}
	}
	return nil
}

func recordOrbits(dbPath string, res *libhetgl.Results) error {
	cat, err := catalog.OpenCatalog(hetgl.CatalogOpts{DbPathName: dbPath})
	if err != nil {
		return err
	}
	defer cat.Close()

	added := 0
	for _, orb := range res.Orbits {
		if cat.TryAddOrbit(orb) {
			added++
		}
	}
	klog.Infof("catalog %s: %d orbits seen, %d new", dbPath, len(res.Orbits), added)
	return nil
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
