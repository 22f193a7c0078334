// Package main provides the battle CLI: it loads the content catalogue and
// resolves a duel between two pets, or a round-robin tournament over every
// pet in the pets directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/alchemy/internal/config"
	"github.com/cory-johannsen/alchemy/internal/game/battle"
	"github.com/cory-johannsen/alchemy/internal/game/gene"
	"github.com/cory-johannsen/alchemy/internal/game/move"
	"github.com/cory-johannsen/alchemy/internal/game/pet"
	"github.com/cory-johannsen/alchemy/internal/observability"
	"github.com/cory-johannsen/alchemy/internal/storage/postgres"
)

type options struct {
	configPath string
	pet1, pet2 string
	fromDB     bool
	tournament bool
	quiet      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "configs/dev.yaml", "path to configuration file")
	flag.StringVar(&opts.pet1, "pet1", "", "first pet: YAML file, or pet UUID with -db")
	flag.StringVar(&opts.pet2, "pet2", "", "second pet: YAML file, or pet UUID with -db")
	flag.BoolVar(&opts.fromDB, "db", false, "load pets from PostgreSQL by id")
	flag.BoolVar(&opts.tournament, "tournament", false, "battle every pair of pets in content.pets_dir")
	flag.BoolVar(&opts.quiet, "quiet", false, "print outcomes only, not the event log")
	flag.Parse()

	if !opts.tournament && (opts.pet1 == "" || opts.pet2 == "") {
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("battle: %v", err)
	}
}

type catalogue struct {
	moves *move.Registry
	genes *gene.Registry
}

func run(ctx context.Context, opts options, out io.Writer) error {
	start := time.Now()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = observability.Sync(logger) }()

	cat, err := loadCatalogue(cfg.Content, logger)
	if err != nil {
		return err
	}

	battleOpts := []battle.Option{
		battle.WithMaxTurns(cfg.Battle.MaxTurns),
		battle.WithCriticalThreshold(cfg.Battle.CriticalThreshold),
	}

	var matches []battle.Match
	switch {
	case opts.tournament:
		pets, err := loadPetsDir(cfg.Content.PetsDir, cat)
		if err != nil {
			return err
		}
		matches = roundRobin(pets)
	case opts.fromDB:
		p1, p2, err := loadFromDB(ctx, cfg.Database, cat, opts.pet1, opts.pet2)
		if err != nil {
			return err
		}
		matches = []battle.Match{{Pet1: p1, Pet2: p2}}
	default:
		p1, err := pet.LoadFile(opts.pet1, cat.moves, cat.genes)
		if err != nil {
			return err
		}
		p2, err := pet.LoadFile(opts.pet2, cat.moves, cat.genes)
		if err != nil {
			return err
		}
		matches = []battle.Match{{Pet1: p1, Pet2: p2}}
	}

	arena := battle.NewArena(cfg.Battle.Workers, logger, battleOpts...)
	results, err := arena.RunAll(ctx, matches)
	if err != nil {
		return err
	}

	for i, res := range results {
		m := matches[i]
		fmt.Fprintf(out, "=== %s vs %s ===\n", m.Pet1.Name, m.Pet2.Name)
		if !opts.quiet {
			for _, ev := range res.Events {
				fmt.Fprintf(out, "[%4d] %s\n", ev.Turn, ev.Description)
			}
		}
		fmt.Fprintf(out, "outcome=%s state=%s turns=%d\n", res.Outcome, res.State, res.Turns)
	}
	if opts.tournament {
		printStandings(out, matches, results)
	}

	logger.Info("battles resolved",
		zap.Int("matches", len(matches)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func loadCatalogue(c config.ContentConfig, logger *zap.Logger) (catalogue, error) {
	moves, err := move.LoadRegistry(c.MovesDir)
	if err != nil {
		return catalogue{}, fmt.Errorf("loading moves: %w", err)
	}
	genes, err := gene.LoadRegistry(c.GenesDir)
	if err != nil {
		return catalogue{}, fmt.Errorf("loading genes: %w", err)
	}
	logger.Info("content loaded",
		zap.Int("moves", len(moves.All())),
		zap.Int("genes", genes.Len()),
	)
	return catalogue{moves: moves, genes: genes}, nil
}

func loadPetsDir(dir string, cat catalogue) ([]*pet.Pet, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	sort.Strings(paths)
	if len(paths) < 2 {
		return nil, fmt.Errorf("tournament needs at least two pets in %s, found %d", dir, len(paths))
	}
	pets := make([]*pet.Pet, 0, len(paths))
	for _, p := range paths {
		loaded, err := pet.LoadFile(p, cat.moves, cat.genes)
		if err != nil {
			return nil, err
		}
		pets = append(pets, loaded)
	}
	return pets, nil
}

func loadFromDB(ctx context.Context, dbCfg config.DatabaseConfig, cat catalogue, id1, id2 string) (*pet.Pet, *pet.Pet, error) {
	u1, err1 := uuid.Parse(id1)
	u2, err2 := uuid.Parse(id2)
	if err := errors.Join(err1, err2); err != nil {
		return nil, nil, fmt.Errorf("parsing pet ids: %w", err)
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewPetRepository(pool.DB(), cat.moves, cat.genes)
	p1, err := repo.Get(ctx, u1)
	if err != nil {
		return nil, nil, fmt.Errorf("loading pet %s: %w", u1, err)
	}
	p2, err := repo.Get(ctx, u2)
	if err != nil {
		return nil, nil, fmt.Errorf("loading pet %s: %w", u2, err)
	}
	return p1, p2, nil
}

// roundRobin pairs every pet with every later pet once.
func roundRobin(pets []*pet.Pet) []battle.Match {
	var matches []battle.Match
	for i := range pets {
		for j := i + 1; j < len(pets); j++ {
			matches = append(matches, battle.Match{Pet1: pets[i], Pet2: pets[j]})
		}
	}
	return matches
}

func printStandings(out io.Writer, matches []battle.Match, results []battle.Result) {
	wins := make(map[string]int)
	for _, m := range matches {
		for _, p := range []*pet.Pet{m.Pet1, m.Pet2} {
			if _, ok := wins[p.Name]; !ok {
				wins[p.Name] = 0
			}
		}
	}
	for _, res := range results {
		if res.Winner != nil {
			wins[res.Winner.Name]++
		}
	}
	names := make([]string, 0, len(wins))
	for n := range wins {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if wins[names[i]] != wins[names[j]] {
			return wins[names[i]] > wins[names[j]]
		}
		return names[i] < names[j]
	})
	fmt.Fprintln(out, "=== standings ===")
	for _, n := range names {
		fmt.Fprintf(out, "%-16s %d\n", n, wins[n])
	}
}
