package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/alchemy/internal/game/attribute"
	"github.com/cory-johannsen/alchemy/internal/game/gene"
	"github.com/cory-johannsen/alchemy/internal/game/move"
	"github.com/cory-johannsen/alchemy/internal/game/pet"
)

var (
	// ErrPetNotFound is returned when a pet lookup yields no results.
	ErrPetNotFound = errors.New("pet not found")
	// ErrPetNameTaken is returned when an account already owns a pet with that name.
	ErrPetNameTaken = errors.New("pet name already taken")
)

// PetRepository persists pets and rehydrates them against the content catalogues.
type PetRepository struct {
	db    *pgxpool.Pool
	moves *move.Registry
	genes *gene.Registry
}

// NewPetRepository creates a PetRepository backed by the given pool.
//
// Precondition: db and moves must be non-nil; genes may be nil when no pet
// carries genes.
func NewPetRepository(db *pgxpool.Pool, moves *move.Registry, genes *gene.Registry) *PetRepository {
	return &PetRepository{db: db, moves: moves, genes: genes}
}

// Create inserts p for accountID along with its move loadout and genes.
// A zero p.ID is replaced by a fresh UUID.
//
// Precondition: p must pass Validate.
// Postcondition: Returns the stored pet, ErrPetNameTaken on a duplicate
// name, or ErrAccountNotFound for an unknown account.
func (r *PetRepository) Create(ctx context.Context, accountID uuid.UUID, p *pet.Pet) (*pet.Pet, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := *p
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		a := out.Attributes
		if _, err := tx.Exec(ctx, `
			INSERT INTO pets
				(id, account_id, name, level, undistributed,
				 strength, constitution, agility, intellect, willpower)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			out.ID, accountID, out.Name, out.Level, a.Undistributed,
			a.Strength, a.Constitution, a.Agility, a.Intellect, a.Willpower,
		); err != nil {
			switch {
			case isDuplicateKeyError(err):
				return ErrPetNameTaken
			case isForeignKeyError(err):
				return ErrAccountNotFound
			}
			return fmt.Errorf("inserting pet: %w", err)
		}
		if err := writeMoves(ctx, tx, out.ID, out.Moves.Names()); err != nil {
			return err
		}
		for _, slot := range gene.Slots {
			g := out.Genes.Slot(slot)
			if g == nil {
				continue
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO pet_genes (pet_id, slot, gene_name) VALUES ($1, $2, $3)`,
				out.ID, string(slot), g.Name,
			); err != nil {
				return fmt.Errorf("inserting gene %q: %w", g.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get loads the pet with the given id and resolves its moves and genes.
//
// Postcondition: Returns the pet, ErrPetNotFound, or an error naming a
// move or gene that is no longer in the catalogue.
func (r *PetRepository) Get(ctx context.Context, id uuid.UUID) (*pet.Pet, error) {
	p := &pet.Pet{ID: id}
	a := &p.Attributes
	err := r.db.QueryRow(ctx, `
		SELECT name, level, undistributed, strength, constitution, agility, intellect, willpower
		FROM pets WHERE id = $1`, id,
	).Scan(&p.Name, &p.Level, &a.Undistributed,
		&a.Strength, &a.Constitution, &a.Agility, &a.Intellect, &a.Willpower)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("querying pet: %w", err)
	}

	names, err := r.moveNames(ctx, id)
	if err != nil {
		return nil, err
	}
	moves, err := r.moves.Resolve(names)
	if err != nil {
		return nil, fmt.Errorf("pet %s: %w", id, err)
	}
	p.Moves = pet.NewMoveLoadout(moves...)

	if err := r.loadGenes(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListByAccount returns the ids of every pet owned by accountID, oldest first.
func (r *PetRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM pets WHERE account_id = $1 ORDER BY created_at ASC, id ASC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scanning pet ids: %w", err)
	}
	return ids, nil
}

// IncreaseAttribute spends one undistributed point of the pet on b.
//
// Postcondition: Returns the updated loadout, ErrPetNotFound, or the
// *attribute.ProcessError raised by attribute.Loadout.Increase; the stored
// pet is unchanged on error.
func (r *PetRepository) IncreaseAttribute(ctx context.Context, id uuid.UUID, b attribute.Base) (attribute.Loadout, error) {
	var l attribute.Loadout
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT undistributed, strength, constitution, agility, intellect, willpower
			FROM pets WHERE id = $1 FOR UPDATE`, id,
		).Scan(&l.Undistributed, &l.Strength, &l.Constitution, &l.Agility, &l.Intellect, &l.Willpower)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPetNotFound
			}
			return fmt.Errorf("locking pet: %w", err)
		}
		if err := l.Increase(b); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE pets SET undistributed = $2, strength = $3, constitution = $4,
			       agility = $5, intellect = $6, willpower = $7, updated_at = NOW()
			WHERE id = $1`,
			id, l.Undistributed, l.Strength, l.Constitution, l.Agility, l.Intellect, l.Willpower)
		if err != nil {
			return fmt.Errorf("updating attributes: %w", err)
		}
		return nil
	})
	if err != nil {
		return attribute.Loadout{}, err
	}
	return l, nil
}

// SetMoves replaces the pet's move loadout with names, in priority order.
// Every move must exist and its constraints must hold for the pet's
// current attributes.
//
// Postcondition: The stored loadout equals names, or it is unchanged and
// an error is returned.
func (r *PetRepository) SetMoves(ctx context.Context, id uuid.UUID, names []string) error {
	moves, err := r.moves.Resolve(names)
	if err != nil {
		return err
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		var l attribute.Loadout
		err := tx.QueryRow(ctx, `
			SELECT undistributed, strength, constitution, agility, intellect, willpower
			FROM pets WHERE id = $1 FOR UPDATE`, id,
		).Scan(&l.Undistributed, &l.Strength, &l.Constitution, &l.Agility, &l.Intellect, &l.Willpower)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPetNotFound
			}
			return fmt.Errorf("locking pet: %w", err)
		}
		for _, m := range moves {
			if err := m.Learnable(l); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pet_moves WHERE pet_id = $1`, id); err != nil {
			return fmt.Errorf("clearing moves: %w", err)
		}
		return writeMoves(ctx, tx, id, names)
	})
}

// Delete removes the pet and, by cascade, its moves and genes.
func (r *PetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting pet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPetNotFound
	}
	return nil
}

func writeMoves(ctx context.Context, tx pgx.Tx, id uuid.UUID, names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows := make([][]any, len(names))
	for i, n := range names {
		rows[i] = []any{id, i, n}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"pet_moves"},
		[]string{"pet_id", "priority", "move_name"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting moves: %w", err)
	}
	return nil
}

func (r *PetRepository) moveNames(ctx context.Context, id uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT move_name FROM pet_moves WHERE pet_id = $1 ORDER BY priority ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying moves: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning moves: %w", err)
	}
	return names, nil
}

func (r *PetRepository) loadGenes(ctx context.Context, p *pet.Pet) error {
	rows, err := r.db.Query(ctx,
		`SELECT gene_name FROM pet_genes WHERE pet_id = $1 ORDER BY slot ASC`, p.ID)
	if err != nil {
		return fmt.Errorf("querying genes: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("scanning genes: %w", err)
	}
	for _, name := range names {
		if r.genes == nil {
			return fmt.Errorf("pet %s: gene %q stored but no gene catalogue loaded", p.ID, name)
		}
		g, ok := r.genes.Gene(name)
		if !ok {
			return fmt.Errorf("pet %s: unknown gene %q", p.ID, name)
		}
		if err := p.Genes.Equip(g); err != nil {
			return fmt.Errorf("pet %s: %w", p.ID, err)
		}
	}
	return nil
}
