// Package main provides the account administration CLI: creating accounts,
// changing their role and showing the pets they own.
//
// Usage:
//
//	account [-config path] create -username u -password p [-role admin]
//	account [-config path] role   -username u -role admin [-create-password p]
//	account [-config path] show   -username u
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/alchemy/internal/config"
	"github.com/cory-johannsen/alchemy/internal/game/gene"
	"github.com/cory-johannsen/alchemy/internal/game/move"
	"github.com/cory-johannsen/alchemy/internal/storage/postgres"
)

// accountStore is the subset of AccountRepository the CLI drives.
type accountStore interface {
	Create(ctx context.Context, username, password string) (postgres.Account, error)
	GetByUsername(ctx context.Context, username string) (postgres.Account, error)
	SetRole(ctx context.Context, accountID uuid.UUID, role string) error
}

// petLister lists the pets owned by an account.
type petLister interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error)
}

type app struct {
	accounts accountStore
	pets     petLister
}

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] create|role|show [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	// Listing pet ids needs no catalogue, so the registries stay empty.
	a := app{
		accounts: postgres.NewAccountRepository(pool.DB()),
		pets:     postgres.NewPetRepository(pool.DB(), move.NewRegistry(), gene.NewRegistry()),
	}
	if err := a.run(ctx, flag.Args(), os.Stdout); err != nil {
		log.Fatalf("account: %v", err)
	}
}

// run dispatches args[0] to its subcommand.
//
// Precondition: args is non-empty.
// Postcondition: Returns a non-nil error for unknown subcommands or bad flags.
func (a app) run(ctx context.Context, args []string, out io.Writer) error {
	switch args[0] {
	case "create":
		return a.create(ctx, args[1:], out)
	case "role":
		return a.setRole(ctx, args[1:], out)
	case "show":
		return a.show(ctx, args[1:], out)
	}
	return fmt.Errorf("unknown subcommand %q: must be one of create, role, show", args[0])
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a app) create(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("create")
	username := fs.String("username", "", "account username (required)")
	password := fs.String("password", "", "account password (required)")
	role := fs.String("role", postgres.RolePlayer, "initial role: player or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("create: -username and -password are required")
	}
	if !postgres.ValidRole(*role) {
		return fmt.Errorf("create: %w %q", postgres.ErrInvalidRole, *role)
	}

	acct, err := a.accounts.Create(ctx, *username, *password)
	if err != nil {
		return fmt.Errorf("creating account %q: %w", *username, err)
	}
	if *role != acct.Role {
		if err := a.accounts.SetRole(ctx, acct.ID, *role); err != nil {
			return fmt.Errorf("setting role: %w", err)
		}
		acct.Role = *role
	}
	fmt.Fprintf(out, "created %s id=%s role=%s\n", acct.Username, acct.ID, acct.Role)
	return nil
}

func (a app) setRole(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("role")
	username := fs.String("username", "", "target account username (required)")
	role := fs.String("role", "", "role to assign: player or admin (required)")
	password := fs.String("create-password", "", "create the account with this password if it does not exist")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *role == "" {
		return errors.New("role: -username and -role are required")
	}
	if !postgres.ValidRole(*role) {
		return fmt.Errorf("role: %w %q", postgres.ErrInvalidRole, *role)
	}

	acct, err := a.accounts.GetByUsername(ctx, *username)
	if errors.Is(err, postgres.ErrAccountNotFound) && *password != "" {
		acct, err = a.accounts.Create(ctx, *username, *password)
	}
	if err != nil {
		return fmt.Errorf("looking up account %q: %w", *username, err)
	}
	if err := a.accounts.SetRole(ctx, acct.ID, *role); err != nil {
		return fmt.Errorf("setting role: %w", err)
	}
	fmt.Fprintf(out, "%s: %s -> %s\n", acct.Username, acct.Role, *role)
	return nil
}

func (a app) show(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("show")
	username := fs.String("username", "", "account username (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("show: -username is required")
	}

	acct, err := a.accounts.GetByUsername(ctx, *username)
	if err != nil {
		return fmt.Errorf("looking up account %q: %w", *username, err)
	}
	ids, err := a.pets.ListByAccount(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("listing pets: %w", err)
	}
	fmt.Fprintf(out, "%s id=%s role=%s created=%s pets=%d\n",
		acct.Username, acct.ID, acct.Role, acct.CreatedAt.UTC().Format(time.RFC3339), len(ids))
	for _, id := range ids {
		fmt.Fprintf(out, "  %s\n", id)
	}
	return nil
}
