package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/crillab/dpx/config"
	"github.com/crillab/dpx/exhaustive"
	"github.com/crillab/dpx/metrics"
	"github.com/crillab/dpx/population"
	"github.com/crillab/dpx/problem"
	"github.com/crillab/dpx/recomb"
)

// checkLimit is the largest number of differing vars the brute force check accepts.
const checkLimit = 20

var (
	fromP1 = color.New(color.FgYellow).SprintFunc()
	fromP2 = color.New(color.FgGreen, color.Bold).SprintFunc()
)

var rootFlags struct {
	config  string
	nk      string
	seed    int64
	pairs   int
	workers int
	check   bool
	log     string
	verbose bool
	metrics string
	maxSize int
}

var rootCmd = cobra.Command{
	Use:   "dpx [options] [file.wcnf|file.cnf]",
	Short: "Optimal partition crossover of random parents",
	Long: `dpx recombines random pairs of parents of a pseudo-boolean problem and prints,
for each pair, the best offspring taking each variable from one of the parents.
The problem is either read from a DIMACS WCNF/CNF file or generated as an NK landscape.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags(), args)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, cmd.OutOrStdout(), newLogger(cfg.Log))
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&rootFlags.config, "config", "", "YAML run configuration; flags override its values")
	flags.StringVar(&rootFlags.nk, "nk", "", "generate an NK landscape with parameters m,k,n instead of reading a file")
	flags.Int64Var(&rootFlags.seed, "seed", 1, "seed of the random generator")
	flags.IntVar(&rootFlags.pairs, "pairs", 1, "number of pairs of parents to recombine")
	flags.IntVar(&rootFlags.workers, "workers", 1, "number of concurrent recombinations")
	flags.BoolVar(&rootFlags.check, "check", false, fmt.Sprintf("check each offspring with a brute force search (at most %d differing vars)", checkLimit))
	flags.StringVar(&rootFlags.log, "log", "warn", "log level (error|warn|info|debug)")
	flags.BoolVar(&rootFlags.verbose, "verbose", false, "sets verbose mode on")
	flags.StringVar(&rootFlags.metrics, "metrics-out", "", "write prometheus metrics to this file at the end of the run")
	flags.IntVar(&rootFlags.maxSize, "max-clique", 0, fmt.Sprintf("largest clique the DP accepts (0 means %d)", recomb.DefaultMaxCliqueSize))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration of the run from the config file, if any, then from the flags
// that were explicitly set, then from the positional argument.
func loadConfig(flags *pflag.FlagSet, args []string) (config.Config, error) {
	cfg := config.Default()
	if rootFlags.config != "" {
		var err error
		if cfg, err = config.LoadFile(rootFlags.config); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("nk") {
		nk, err := parseNK(rootFlags.nk)
		if err != nil {
			return cfg, err
		}
		cfg.NK = nk
		cfg.Instance = ""
	}
	if flags.Changed("seed") {
		cfg.Seed = rootFlags.seed
	}
	if flags.Changed("pairs") {
		cfg.Pairs = rootFlags.pairs
	}
	if flags.Changed("workers") {
		cfg.Workers = rootFlags.workers
	}
	if flags.Changed("check") {
		cfg.Check = rootFlags.check
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootFlags.verbose
	}
	if flags.Changed("log") {
		cfg.Log = rootFlags.log
	}
	if flags.Changed("metrics-out") {
		cfg.MetricsOut = rootFlags.metrics
	}
	if flags.Changed("max-clique") {
		cfg.MaxCliqueSize = rootFlags.maxSize
	}
	if len(args) == 1 {
		cfg.Instance = args[0]
		cfg.NK = nil
	}
	return cfg, cfg.Validate()
}

// parseNK parses NK parameters given as "m,k,n".
func parseNK(s string) (*config.NKConfig, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return nil, errors.Errorf("invalid NK parameters %q: expected m,k,n", s)
	}
	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Errorf("invalid NK parameter %q in %q", f, s)
		}
		vals[i] = v
	}
	return &config.NKConfig{M: vals[0], K: vals[1], N: vals[2]}, nil
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stderr
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func loadInstance(cfg config.Config, rng *rand.Rand) (problem.Instance, error) {
	if cfg.NK != nil {
		return problem.NewNK(cfg.NK.M, cfg.NK.K, cfg.NK.N, rng)
	}
	f, err := os.Open(cfg.Instance)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %v", cfg.Instance, err)
	}
	defer f.Close()
	pb, err := problem.ParseWCNF(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse DIMACS file %q: %v", cfg.Instance, err)
	}
	return pb, nil
}

// run recombines random pairs of parents as described by cfg and prints the results to out.
func run(ctx context.Context, cfg config.Config, out io.Writer, logger *logrus.Logger) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	inst, err := loadInstance(cfg, rng)
	if err != nil {
		return err
	}
	if err := problem.Check(inst); err != nil {
		return errors.Wrap(err, "invalid instance")
	}
	if cfg.Verbose {
		fmt.Fprintf(out, "c ======================================================================================\n")
		fmt.Fprintf(out, "c | Number of sub-functions : %9d                                                |\n", len(inst.SubFunctions()))
		fmt.Fprintf(out, "c | Number of variables     : %9d                                                |\n", inst.NbVars())
		fmt.Fprintf(out, "c ======================================================================================\n")
	}
	e := recomb.New(inst)
	e.Logger = logger
	e.MaxCliqueSize = cfg.MaxCliqueSize
	collector := metrics.New()
	runner := population.Runner{Engine: e, Workers: cfg.Workers, Logger: logger, Observer: collector}
	pairs := population.RandomPairs(rng, inst.NbVars(), cfg.Pairs)
	outcomes, err := runner.Run(ctx, pairs)
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		p := pairs[o.Pair]
		res := o.Result
		fmt.Fprintf(out, "c pair %d: parents %g and %g\n", o.Pair, problem.Evaluate(inst, p.P1), problem.Evaluate(inst, p.P2))
		if cfg.Verbose {
			s := res.Stats
			fmt.Fprintf(out, "c nb diff vars: %d\nc nb sub-functions: %d\nc nb cliques: %d\nc treewidth: %d\n", s.NbDiffVars, s.NbSubFuncs, s.NbCliques, s.Treewidth)
			fmt.Fprintf(out, "c nb fill edges: %d\nc nb table entries: %d\nc nb evals: %d\n", s.NbFillEdges, s.NbTableEntries, s.NbEvals)
		}
		fmt.Fprintf(out, "o %g\nv %s\n", res.Value, formatOffspring(p, res.Offspring))
		if cfg.Check {
			checked, err := check(inst, p, res)
			if err != nil {
				return errors.Wrapf(err, "pair %d", o.Pair)
			}
			if checked {
				fmt.Fprintf(out, "c pair %d: checked\n", o.Pair)
			} else {
				fmt.Fprintf(out, "c pair %d: too many differing vars to check\n", o.Pair)
			}
		}
	}
	if cfg.MetricsOut != "" {
		if err := writeMetrics(cfg.MetricsOut, collector); err != nil {
			return err
		}
	}
	return nil
}

// check compares res with the best offspring found by brute force.
// It returns false if the parents differ on too many vars for the comparison to be made.
func check(inst problem.Instance, p population.Pair, res recomb.Result) (bool, error) {
	best, _, err := exhaustive.Recombine(inst, p.P1, p.P2, checkLimit)
	if errors.Is(err, exhaustive.ErrTooManyVars) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if math.Abs(best-res.Value) > 1e-9 {
		return false, errors.Errorf("offspring value is %g, brute force found %g", res.Value, best)
	}
	return true, nil
}

// formatOffspring prints the offspring as a bit string, colouring the bits on which parents differ
// according to the parent they were taken from.
func formatOffspring(p population.Pair, off []bool) string {
	var sb strings.Builder
	for v, b := range off {
		bit := "0"
		if b {
			bit = "1"
		}
		switch {
		case p.P1[v] == p.P2[v]:
			sb.WriteString(bit)
		case b == p.P1[v]:
			sb.WriteString(fromP1(bit))
		default:
			sb.WriteString(fromP2(bit))
		}
	}
	return sb.String()
}

func writeMetrics(path string, c *metrics.Collector) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %q: %v", path, err)
	}
	if err := c.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
