// Command citegraph-authors is the interactive front-end over the
// coauthorship/reference author graph and author key/value store.
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
	"github.com/dzhang/citegraph/internal/graph/authorgraph"
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
		Use:   "citegraph-authors",
		Short: "interactive explorer over a prebuilt coauthorship/reference graph",
		RunE:  run,
	}
	root.Flags().StringVar(&graphPath, "graph", "", "path to an AuthorGraph binary export (required)")
	root.Flags().StringVar(&keysPath, "keys", "", "path to the author store's key file (optional)")
	root.Flags().StringVar(&valsPath, "values", "", "path to the author store's value file (optional)")
	root.Flags().StringVar(&metaPath, "meta", "", "path to the author store's metadata sidecar (needed with --keys/--values)")
	root.MarkFlagRequired("graph")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	g, err := authorgraph.LoadFile(graphPath)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	logging.L().Info("author graph loaded", zap.Int("nodes", g.NumNodes()))

	var tree *btree.Tree[record.AuthorRecord]
	if keysPath != "" && valsPath != "" {
		p, err := pager.Open(keysPath, valsPath, metaPath, pager.ReadOnly)
		if err != nil {
			return fmt.Errorf("open author store: %w", err)
		}
		defer p.Close()
		tree, err = btree.NewTree[record.AuthorRecord](p, record.AuthorCodec{})
		if err != nil {
			return fmt.Errorf("open author tree: %w", err)
		}
	}

	rl, err := readline.New("authors> ")
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

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
		case "scc":
			handleSCC(g, fields[1:])
		case "path":
			handlePath(g, tree, fields[1:])
		default:
			fmt.Printf("unrecognized command %q\n", fields[0])
		}
	}
}

func handleSCC(g *authorgraph.Graph, args []string) {
	var sccs [][]int64
	if len(args) == 0 {
		sccs = g.TarjanAll()
	} else {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("bad id:", err)
			return
		}
		sccs = g.TarjanFrom(id)
	}
	fmt.Printf("%d components\n", len(sccs))
	for i, component := range sccs {
		fmt.Printf("  component %d (size %d): %v\n", i, len(component), component)
	}
}

func handlePath(g *authorgraph.Graph, tree *btree.Tree[record.AuthorRecord], args []string) {
	if len(args) != 2 {
		fmt.Println("usage: path <from> <to>")
		return
	}
	from, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("bad from id:", err)
		return
	}
	to, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("bad to id:", err)
		return
	}

	path := g.ShortestPath(from, to)
	if len(path) == 0 {
		fmt.Println("no path found")
		return
	}
	for _, id := range path {
		if tree == nil {
			fmt.Println(id)
			continue
		}
		rec, err := tree.Find(id)
		if err != nil {
			fmt.Printf("%d (name unknown)\n", id)
			continue
		}
		fmt.Printf("%d (%s)\n", id, rec.Name)
	}
}

func printStats(g *authorgraph.Graph) {
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
