// Package main validates the YAML content catalogue and prints a listing of
// moves, genes and wardrobe items with their image URLs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cory-johannsen/alchemy/internal/config"
	"github.com/cory-johannsen/alchemy/internal/game/gene"
	"github.com/cory-johannsen/alchemy/internal/game/move"
	"github.com/cory-johannsen/alchemy/internal/game/wardrobe"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	all := flag.Bool("all", false, "include removed wardrobe items")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	start := time.Now()
	if err := list(cfg, *all, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("catalogue valid in %s\n", time.Since(start).Round(time.Millisecond))
}

func list(cfg config.Config, includeRemoved bool, out io.Writer) error {
	moves, err := move.LoadRegistry(cfg.Content.MovesDir)
	if err != nil {
		return fmt.Errorf("moves: %w", err)
	}
	genes, err := gene.LoadGenes(cfg.Content.GenesDir)
	if err != nil {
		return fmt.Errorf("genes: %w", err)
	}

	fmt.Fprintln(out, "moves:")
	for _, m := range moves.All() {
		sigs := make([]string, len(m.Constraints))
		for i, c := range m.Constraints {
			sigs[i] = c.Signature()
		}
		fmt.Fprintf(out, "  %-16s cooldown=%d components=%d constraints=[%s]\n",
			m.Name, m.Cooldown, len(m.Components), strings.Join(sigs, " "))
	}

	fmt.Fprintln(out, "genes:")
	for _, g := range genes {
		fmt.Fprintf(out, "  %-16s %-6s tags=[%s]\n", g.Name, g.Type, strings.Join(g.Tags, " "))
	}

	if cfg.Content.WardrobeDir == "" {
		return nil
	}
	items, err := wardrobe.LoadDir(cfg.Content.WardrobeDir)
	if err != nil {
		return fmt.Errorf("wardrobe: %w", err)
	}
	if !includeRemoved {
		items = wardrobe.Available(items)
	}
	urls := wardrobe.URLBuilder{
		Endpoint:      cfg.Storage.Endpoint,
		PublicBucket:  cfg.Storage.PublicBucket,
		PrivateBucket: cfg.Storage.PrivateBucket,
	}
	fmt.Fprintln(out, "wardrobe:")
	for _, it := range items {
		front, back := urls.Images(it)
		fmt.Fprintf(out, "  %-16s %-9s price=%d approved=%v\n    front=%s\n    back=%s\n",
			it.Name, it.Category, it.Price, it.Approved(), front, back)
	}
	return nil
}
