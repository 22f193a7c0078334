package pet_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/alchemy/internal/game/attribute"
	"github.com/cory-johannsen/alchemy/internal/game/constraint"
	"github.com/cory-johannsen/alchemy/internal/game/gene"
	"github.com/cory-johannsen/alchemy/internal/game/move"
	"github.com/cory-johannsen/alchemy/internal/game/pet"
)

func named(names ...string) []*move.Move {
	out := make([]*move.Move, len(names))
	for i, n := range names {
		out[i] = &move.Move{Name: n}
	}
	return out
}

func TestMoveLoadout_SetPriority(t *testing.T) {
	l := pet.NewMoveLoadout(named("A", "B", "C", "D")...)
	require.NoError(t, l.SetPriority(3, 0))
	assert.Equal(t, []string{"D", "A", "B", "C"}, l.Names())
	require.NoError(t, l.SetPriority(0, 2))
	assert.Equal(t, []string{"A", "B", "D", "C"}, l.Names())
	assert.Error(t, l.SetPriority(4, 0))
	assert.Error(t, l.SetPriority(0, -1))
}

func TestMoveLoadout_MovesIsCopy(t *testing.T) {
	l := pet.NewMoveLoadout(named("A", "B")...)
	ms := l.Moves()
	ms[0] = &move.Move{Name: "Z"}
	assert.Equal(t, []string{"A", "B"}, l.Names())
}

func TestMoveLoadout_Learn(t *testing.T) {
	var l pet.MoveLoadout
	gated := &move.Move{
		Name:        "Crush",
		Constraints: []constraint.Constraint{constraint.Requirement(attribute.OfBase(attribute.Strength), 4)},
	}
	assert.Error(t, l.Learn(gated, attribute.Loadout{Strength: 3}))
	assert.Equal(t, 0, l.Len())
	require.NoError(t, l.Learn(gated, attribute.Loadout{Strength: 4}))
	assert.Equal(t, 1, l.Len())
}

func TestPet_Validate(t *testing.T) {
	assert.NoError(t, (&pet.Pet{Name: "Mochi", Level: 1}).Validate())
	assert.Error(t, (&pet.Pet{Name: "Mochi"}).Validate())
	assert.Error(t, (&pet.Pet{Level: 3}).Validate())
	assert.Error(t, (&pet.Pet{Name: "Mochi", Level: 1, Attributes: attribute.Loadout{Agility: -2}}).Validate())
	bad := &pet.Pet{Name: "Mochi", Level: 1, Moves: pet.NewMoveLoadout(nil)}
	assert.Error(t, bad.Validate())
	broken := &pet.Pet{Name: "Mochi", Level: 1, Moves: pet.NewMoveLoadout(&move.Move{
		Name:       "Hollow",
		Components: []move.Component{{Kind: move.KindDamage}},
	})}
	err := broken.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no damage payload")
}

func TestLoadFile(t *testing.T) {
	reg := move.NewRegistry()
	require.NoError(t, reg.Create(&move.Move{Name: "Bite", Components: []move.Component{move.DamageComponent(10, 0, move.Physical)}}))
	require.NoError(t, reg.Create(&move.Move{Name: "Spark", Cooldown: 1}))
	genes := gene.NewRegistry()
	require.NoError(t, genes.Register(&gene.Gene{Image: "t.png", Name: "Fox Tail", Type: gene.Tail, Tags: []string{"fox"}}))

	path := filepath.Join(t.TempDir(), "mochi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
id: 0b9f8a2e-64a4-4d62-9d55-3f9f1f2c8a11
name: Mochi
level: 5
attributes:
  undistributed: 2
  strength: 3
  willpower: 1
genes: [Fox Tail]
moves: [Spark, Bite]
`), 0o644))

	p, err := pet.LoadFile(path, reg, genes)
	require.NoError(t, err)
	assert.Equal(t, "0b9f8a2e-64a4-4d62-9d55-3f9f1f2c8a11", p.ID.String())
	assert.Equal(t, 5, p.Level)
	assert.Equal(t, 4, p.Attributes.Derived(attribute.Momentum))
	assert.Equal(t, []string{"Spark", "Bite"}, p.Moves.Names())
	assert.Equal(t, []string{"fox"}, p.Genes.Tags())
}

func TestLoadFile_UnknownMove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: X\nlevel: 1\nmoves: [Nope]\n"), 0o644))
	_, err := pet.LoadFile(path, move.NewRegistry(), nil)
	assert.Error(t, err)
}

func TestLoadFile_GenesWithoutCatalogue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: X\nlevel: 1\ngenes: [Fox Tail]\n"), 0o644))
	_, err := pet.LoadFile(path, move.NewRegistry(), nil)
	assert.Error(t, err)
}

// Property: SetPriority is a permutation, never dropping or duplicating moves.
func TestPropertySetPriorityPermutes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		l := pet.NewMoveLoadout(named(names...)...)
		from := rapid.IntRange(0, n-1).Draw(t, "from")
		to := rapid.IntRange(0, n-1).Draw(t, "to")
		if err := l.SetPriority(from, to); err != nil {
			t.Fatalf("SetPriority(%d,%d): %v", from, to, err)
		}
		got := l.Names()
		if got[to] != names[from] {
			t.Fatalf("position %d = %s, want %s", to, got[to], names[from])
		}
		seen := map[string]bool{}
		for _, g := range got {
			seen[g] = true
		}
		if len(seen) != n {
			t.Fatalf("loadout %v is not a permutation of %v", got, names)
		}
	})
}
