package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"

	"github.com/melpulomas/cdcl/parsers"
	"github.com/melpulomas/cdcl/proof"
	"github.com/melpulomas/cdcl/sat"
)

var flagHeuristic = flag.String(
	"heuristic",
	"vsids",
	"branching heuristic: ordered, random, two_clause, or vsids",
)

var flagProof = flag.Bool(
	"proof",
	false,
	"record resolution parents and write a refutation on UNSAT",
)

var flagPure = flag.Bool(
	"pure",
	false,
	"eliminate pure literals before search",
)

var flagRestart = flag.Bool(
	"restart",
	false,
	"restart and forget low-activity learned clauses",
)

var flagSeed = flag.Int64(
	"seed",
	0,
	"seed of the solver's random source",
)

var flagGzip = flag.Bool(
	"gzip",
	false,
	"instance file is gzip compressed",
)

var flagOutput = flag.String(
	"o",
	"",
	"write solution, statistics and proof files with this path prefix",
)

var flagDebug = flag.Bool(
	"debug",
	false,
	"dump the solver statistics after solving",
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

type config struct {
	instanceFile string
	outputPrefix string
	gzipped      bool
	debug        bool
	options      sat.Options
}

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	heuristic, err := sat.ParseHeuristic(*flagHeuristic)
	if err != nil {
		return nil, err
	}

	prefix := *flagOutput
	if prefix == "" {
		prefix = strings.TrimSuffix(flag.Arg(0), ".cnf")
	}

	return &config{
		instanceFile: flag.Arg(0),
		outputPrefix: prefix,
		gzipped:      *flagGzip,
		debug:        *flagDebug,
		options: sat.Options{
			Heuristic:     heuristic,
			GenerateProof: *flagProof,
			PureLiterals:  *flagPure,
			RandomRestart: *flagRestart,
			Seed:          *flagSeed,
		},
	}, nil
}

func run(cfg *config) error {
	s, err := sat.NewSolver(cfg.options)
	if err != nil {
		return err
	}
	if err := parsers.LoadDIMACS(cfg.instanceFile, cfg.gzipped, s); err != nil {
		return fmt.Errorf("could not parse instance: %s", err)
	}

	fmt.Printf("c heuristic:  %s\n", cfg.options.Heuristic)
	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c clauses:    %d\n", s.NumOriginalClauses())

	t := time.Now()
	satisfiable := s.Solve()
	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c decisions:  %d\n", s.Stats.Decisions)
	fmt.Printf("c conflicts:  %d\n", s.Stats.Conflicts)
	fmt.Printf("c learned:    %d (avg size %.1f)\n", s.Stats.Learned, s.AvgLearntSize())
	fmt.Printf("c restarts:   %d\n", s.Stats.Restarts)
	fmt.Printf("c pure lits:  %d\n", s.Stats.PureLiterals)

	if cfg.debug {
		pretty.Println(s.Stats)
	}

	if satisfiable {
		original := s.Clauses()[:s.NumOriginalClauses()]
		if !sat.Validate(original, s.Model) {
			return fmt.Errorf("solver produced an invalid model")
		}
		fmt.Println("s SATISFIABLE")
		fmt.Println("v", modelString(s.Model))
		if err := writeSolution(cfg.outputPrefix+"_sol.txt", s.Model); err != nil {
			return err
		}
	} else {
		fmt.Println("s UNSATISFIABLE")
		if cfg.options.GenerateProof {
			if err := writeProof(cfg.outputPrefix+"_proof.txt", s); err != nil {
				return err
			}
		}
	}

	return writeStats(cfg.outputPrefix+"_stats.txt", cfg, s, elapsed)
}

func modelString(model []sat.Literal) string {
	sb := strings.Builder{}
	for i, l := range model {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(l.String())
	}
	sb.WriteString(" 0")
	return sb.String()
}

func writeSolution(filename string, model []sat.Literal) error {
	return os.WriteFile(filename, []byte("SATISFIABLE "+modelString(model)+"\n"), 0o644)
}

func writeProof(filename string, s *sat.Solver) error {
	ref, err := proof.Extract(s.Clauses(), s.Parents())
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	logrus.WithField("file", filename).Info("writing refutation")
	return ref.Write(file)
}

func writeStats(filename string, cfg *config, s *sat.Solver, elapsed time.Duration) error {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%s\n", cfg.instanceFile)
	fmt.Fprintf(&sb, "%s\n\n", cfg.options.Heuristic)
	fmt.Fprintf(&sb, "Total number of clauses: %d\n", len(s.Clauses()))
	fmt.Fprintf(&sb, "Total number of learned clauses: %d\n", s.NumLearned())
	fmt.Fprintf(&sb, "Number of pure literals: %d\n", s.Stats.PureLiterals)
	fmt.Fprintf(&sb, "Number of decisions: %d\n", s.Stats.Decisions)
	fmt.Fprintf(&sb, "Number of restarts: %d\n", s.Stats.Restarts)
	fmt.Fprintf(&sb, "Total time taken (seconds): %f\n", elapsed.Seconds())
	sb.WriteString("\nAssignment History\n")
	for level, lits := range s.AssignmentHistory() {
		fmt.Fprintf(&sb, "%d :", level)
		for _, l := range lits {
			fmt.Fprintf(&sb, " %s", l)
		}
		sb.WriteByte('\n')
	}
	return os.WriteFile(filename, []byte(sb.String()), 0o644)
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	if *flagCPUProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			logrus.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		logrus.Fatal(err)
	}

	if *flagMemProfile {
		f, err := os.Create("memprof")
		if err != nil {
			logrus.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
