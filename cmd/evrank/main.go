// Command evrank prints the expected points per currency of every candidate
// action for a snapshot, best first.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/xtding233/upgrade-ev/internal/advisor"
	"github.com/xtding233/upgrade-ev/internal/ev"
	"github.com/xtding233/upgrade-ev/internal/rpc"
	"github.com/xtding233/upgrade-ev/internal/sim"
	"github.com/xtding233/upgrade-ev/internal/tables"
)

type options struct {
	tablesDir string
	profile   string
	snapshot  string
	remote    string
	simulate  int
	seed      uint64
}

func main() {
	var o options
	flag.StringVar(&o.tablesDir, "tables", "tables", "directory holding default.yaml and profiles/")
	flag.StringVar(&o.profile, "profile", "", "table profile to overlay on the defaults")
	flag.StringVar(&o.snapshot, "snapshot", "", "snapshot YAML file (required)")
	flag.StringVar(&o.remote, "remote", "", "rank through a running server's gRPC address instead of local tables")
	flag.IntVar(&o.simulate, "simulate", 0, "Monte Carlo trials per action to compare with the expectation (local only)")
	flag.Uint64Var(&o.seed, "seed", 1, "seed for -simulate")
	flag.Parse()

	if o.snapshot == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(os.Stdout, o); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, o options) error {
	doc, err := advisor.ReadSnapshot(o.snapshot)
	if err != nil {
		return err
	}
	if o.remote != "" {
		return runRemote(w, o.remote, doc)
	}

	adv, err := advisor.New(tables.NewLoader(o.tablesDir), o.profile)
	if err != nil {
		return err
	}
	scores, err := adv.Rank(doc, nil)
	if err != nil {
		return err
	}

	var means map[string]float64
	if o.simulate > 0 {
		means, err = simulate(adv.Evaluator(), doc, scores, o.simulate, o.seed)
		if err != nil {
			return err
		}
	}
	return printScores(w, scores, means)
}

func runRemote(w io.Writer, addr string, doc advisor.SnapshotDoc) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	scores, err := rpc.NewClient(conn).Rank(ctx, rpc.RankRequest{Snapshot: doc})
	if err != nil {
		return err
	}
	return printScores(w, scores, nil)
}

// simulate samples each evaluable action and returns the mean gain by action.
// Each action draws from its own stream, so its mean depends only on the seed.
func simulate(e *ev.Evaluator, doc advisor.SnapshotDoc, scores []advisor.ScoreDoc, trials int, seed uint64) (map[string]float64, error) {
	s, err := doc.ToSnapshot()
	if err != nil {
		return nil, err
	}
	means := make(map[string]float64, len(scores))
	for _, sc := range scores {
		if sc.Reason != "" {
			continue
		}
		a, err := ev.ParseAction(sc.Action)
		if err != nil {
			return nil, err
		}
		st, err := sim.RunMonteCarlo(e, a, s, trials, sim.NewStream(seed, sc.Action))
		if err != nil {
			return nil, fmt.Errorf("simulate %s: %w", sc.Action, err)
		}
		means[sc.Action] = st.Mean
	}
	return means, nil
}

func printScores(w io.Writer, scores []advisor.ScoreDoc, means map[string]float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "#\tACTION\tCOST\tGAIN\tRATIO"
	if means != nil {
		header += "\tSIM GAIN"
	}
	fmt.Fprintln(tw, header+"\tNOTE")
	for i, sc := range scores {
		line := fmt.Sprintf("%d\t%s\t%.0f\t%.2f\t%.4f", i+1, sc.Action, sc.Cost, sc.Gain, sc.Ratio)
		if means != nil {
			if m, ok := means[sc.Action]; ok {
				line += fmt.Sprintf("\t%.2f", m)
			} else {
				line += "\t-"
			}
		}
		note := sc.Reason
		if note == "" && sc.Crossings > 0 {
			note = fmt.Sprintf("crosses %d tier(s)", sc.Crossings)
		}
		fmt.Fprintln(tw, line+"\t"+note)
	}
	return tw.Flush()
}
