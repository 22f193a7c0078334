package move_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/alchemy/internal/game/attribute"
	"github.com/cory-johannsen/alchemy/internal/game/constraint"
	"github.com/cory-johannsen/alchemy/internal/game/move"
)

func TestSplash(t *testing.T) {
	s := move.Splash()
	assert.Equal(t, move.SplashName, s.Name)
	assert.Empty(t, s.Tags)
	assert.Empty(t, s.Constraints)
	assert.Empty(t, s.Components)
	assert.Equal(t, 0, s.Cooldown)
	assert.False(t, s.HasDamage())
	assert.NoError(t, s.Validate())
}

func TestMove_HasDamage(t *testing.T) {
	m := &move.Move{Name: "Bite", Components: []move.Component{move.DamageComponent(4, 0, move.Physical)}}
	assert.True(t, m.HasDamage())
}

func TestMove_Validate(t *testing.T) {
	tests := []struct {
		name string
		m    move.Move
	}{
		{"empty name", move.Move{}},
		{"negative cooldown", move.Move{Name: "x", Cooldown: -1}},
		{"bad damage type", move.Move{Name: "x", Components: []move.Component{move.DamageComponent(1, 0, "fire")}}},
		{"negative damage", move.Move{Name: "x", Components: []move.Component{move.DamageComponent(-1, 0, move.Magical)}}},
		{"missing payload", move.Move{Name: "x", Components: []move.Component{{Kind: move.KindDamage}}}},
		{"unknown kind", move.Move{Name: "x", Components: []move.Component{{Kind: "heal"}}}},
		{"bad constraint", move.Move{Name: "x", Constraints: []constraint.Constraint{{Kind: "maybe"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.m.Validate())
		})
	}
}

func TestMove_Learnable(t *testing.T) {
	m := &move.Move{
		Name:        "Fireball",
		Constraints: []constraint.Constraint{constraint.Requirement(attribute.OfBase(attribute.Intellect), 3)},
	}
	assert.Error(t, m.Learnable(attribute.Loadout{Intellect: 2}))
	assert.NoError(t, m.Learnable(attribute.Loadout{Intellect: 3}))
}

func TestRegistry_CRUD(t *testing.T) {
	r := move.NewRegistry()
	bite := &move.Move{Name: "Bite", Cooldown: 1}
	require.NoError(t, r.Create(bite))
	assert.True(t, errors.Is(r.Create(&move.Move{Name: "Bite"}), move.ErrMoveExists))

	got, ok := r.Get("Bite")
	require.True(t, ok)
	assert.Same(t, bite, got)

	require.NoError(t, r.Update(&move.Move{Name: "Bite", Cooldown: 3}))
	got, _ = r.Get("Bite")
	assert.Equal(t, 3, got.Cooldown)
	assert.True(t, errors.Is(r.Update(&move.Move{Name: "Claw"}), move.ErrMoveNotFound))

	require.NoError(t, r.Create(&move.Move{Name: "Aura"}))
	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Aura", all[0].Name)

	require.NoError(t, r.Delete("Bite"))
	assert.True(t, errors.Is(r.Delete("Bite"), move.ErrMoveNotFound))
}

func TestRegistry_Resolve(t *testing.T) {
	r := move.NewRegistry()
	require.NoError(t, r.Create(&move.Move{Name: "A"}))
	require.NoError(t, r.Create(&move.Move{Name: "B"}))

	ms, err := r.Resolve([]string{"B", "A", "B"})
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, "B", ms[0].Name)
	assert.Equal(t, "A", ms[1].Name)

	_, err = r.Resolve([]string{"A", "Z"})
	assert.True(t, errors.Is(err, move.ErrMoveNotFound))
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic.yaml"), []byte(`
moves:
  - name: Bite
    tags: [beast]
    cooldown: 0
    components:
      - kind: damage
        damage: {base_damage: 10, base_bypass: 0, type: physical}
  - name: Spark
    cooldown: 2
    constraints:
      - {kind: requirement, attribute: INTELLECT, threshold: 2}
    components:
      - kind: damage
        damage: {base_damage: 4, base_bypass: 2, type: magical}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o644))

	r, err := move.LoadRegistry(dir)
	require.NoError(t, err)
	require.Len(t, r.All(), 2)

	spark, ok := r.Get("Spark")
	require.True(t, ok)
	assert.Equal(t, 2, spark.Cooldown)
	require.Len(t, spark.Components, 1)
	assert.Equal(t, move.Magical, spark.Components[0].Damage.Type)
	assert.Equal(t, 2, spark.Components[0].Damage.BaseBypass)
	assert.Equal(t, ">=_INTELLECT_2", spark.Constraints[0].Signature())
}

func TestLoadMoves_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
moves:
  - name: Broken
    components:
      - kind: damage
        damage: {base_damage: 1, type: fire}
`), 0o644))
	_, err := move.LoadMoves(dir)
	assert.Error(t, err)
}

func TestLoadRegistry_Duplicate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("moves:\n  - name: Bite\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("moves:\n  - name: Bite\n"), 0o644))
	_, err := move.LoadRegistry(dir)
	assert.True(t, errors.Is(err, move.ErrMoveExists))
}
