// Command citegraph-papers is the interactive front-end over the paper
// citation graph and paper key/value store. It is an external
// collaborator, not part of the core engine: it loads a prebuilt graph
// file and an optional store, then drives a readline REPL over them.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dzhang/citegraph/internal/btree"
	"github.com/dzhang/citegraph/internal/graph/papergraph"
	"github.com/dzhang/citegraph/internal/logging"
	"github.com/dzhang/citegraph/internal/pager"
	"github.com/dzhang/citegraph/internal/record"
)

var (
	graphPath string
	keysPath  string
	valsPath  string
	metaPath  string
)

func main() {
	root := &cobra.Command{
		Use:   "citegraph-papers",
		Short: "interactive explorer over a prebuilt paper citation graph",
		RunE:  run,
	}
	root.Flags().StringVar(&graphPath, "graph", "", "path to a PaperGraph binary export (required)")
	root.Flags().StringVar(&keysPath, "keys", "", "path to the paper store's key file (optional)")
	root.Flags().StringVar(&valsPath, "values", "", "path to the paper store's value file (optional)")
	root.Flags().StringVar(&metaPath, "meta", "", "path to the paper store's metadata sidecar (needed with --keys/--values)")
	root.MarkFlagRequired("graph")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	g, err := papergraph.LoadFile(graphPath)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	logging.L().Info("paper graph loaded", zap.Int("nodes", g.NumNodes()))

	var tree *btree.Tree[record.PaperRecord]
	if keysPath != "" && valsPath != "" {
		p, err := pager.Open(keysPath, valsPath, metaPath, pager.ReadOnly)
		if err != nil {
			return fmt.Errorf("open paper store: %w", err)
		}
		defer p.Close()
		tree, err = btree.NewTree[record.PaperRecord](p, record.PaperCodec{})
		if err != nil {
			return fmt.Errorf("open paper tree: %w", err)
		}
	}

	rl, err := readline.New("papers> ")
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	var lastTrace uint32
	haveTrace := false

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit":
			return nil
		case "stats":
			printStats(g)
		case "trace":
			if len(fields) != 2 {
				fmt.Println("usage: trace <id>")
				continue
			}
			id, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil {
				fmt.Println("bad id:", err)
				continue
			}
			lastTrace = uint32(id)
			haveTrace = true
			printTrace(g, tree, lastTrace)
		case "run":
			if !haveTrace {
				fmt.Println("no previous trace to re-run")
				continue
			}
			printTrace(g, tree, lastTrace)
		default:
			fmt.Printf("unrecognized command %q\n", fields[0])
		}
	}
}

func printStats(g *papergraph.Graph) {
	fmt.Printf("nodes: %d  edges: %d\n", g.NumNodes(), g.NumEdges())
	hist := g.DegreeHistogram()
	degrees := make([]int, 0, len(hist))
	for d := range hist {
		degrees = append(degrees, d)
	}
	sort.Ints(degrees)
	for _, d := range degrees {
		fmt.Printf("  degree %d: %d nodes\n", d, hist[d])
	}
}

func printTrace(g *papergraph.Graph, tree *btree.Tree[record.PaperRecord], source uint32) {
	trace := g.CitationTrace(source)
	if trace == nil {
		fmt.Printf("source %d not found in graph\n", source)
		return
	}
	fmt.Printf("%d pairs\n", len(trace))
	for _, edge := range trace {
		if tree == nil {
			fmt.Printf("%d -> %d\n", edge.Parent, edge.Child)
			continue
		}
		rec, err := tree.Find(int64(edge.Child))
		if err != nil {
			fmt.Printf("%d -> %d (title unknown)\n", edge.Parent, edge.Child)
			continue
		}
		fmt.Printf("%d -> %d (%s)\n", edge.Parent, edge.Child, rec.Title)
	}
}
