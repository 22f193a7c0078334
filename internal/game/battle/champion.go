// Package battle implements the turn-based pet battle engine: champion
// state, move execution, damage resolution and the energy-driven scheduler.
package battle

import (
	"github.com/cory-johannsen/alchemy/internal/game/attribute"
	"github.com/cory-johannsen/alchemy/internal/game/move"
	"github.com/cory-johannsen/alchemy/internal/game/pet"
)

// Champion is one pet's mutable state for the duration of a single battle.
//
// Invariant: health and both shields are >= 0; len(cooldowns) == len(moves).
type Champion struct {
	pet *pet.Pet

	maxHealth int
	health    int
	energy    int

	physicalShield int
	magicShield    int

	criticalThreshold int
	criticalStacks    int
	momentumStacks    int
	masteryStacks     int

	moves     []*move.Move
	cooldowns []int
}

// NewChampion derives starting combat state from p.
//
// Precondition: p must be non-nil and valid.
// Postcondition: health == maxHealth == level*10 + Toughness*2; energy == level + Instinct;
// magic shield == Resolve*2; every move is ready.
func NewChampion(p *pet.Pet, criticalThreshold int) *Champion {
	moves := p.Moves.Moves()
	maxHealth := p.Level*10 + p.Attributes.Derived(attribute.Toughness)*2
	return &Champion{
		pet:               p,
		maxHealth:         maxHealth,
		health:            maxHealth,
		energy:            p.Level + p.Attributes.Derived(attribute.Instinct),
		magicShield:       p.Attributes.Derived(attribute.Resolve) * 2,
		criticalThreshold: criticalThreshold,
		moves:             moves,
		cooldowns:         make([]int, len(moves)),
	}
}

// Pet returns the pet this champion fights for.
func (c *Champion) Pet() *pet.Pet { return c.pet }

// Name returns the pet's name.
func (c *Champion) Name() string { return c.pet.Name }

// MaxHealth returns the health the champion started with.
func (c *Champion) MaxHealth() int { return c.maxHealth }

// Health returns the remaining health, never below zero.
func (c *Champion) Health() int { return c.health }

// Energy returns the current energy; it may go negative.
func (c *Champion) Energy() int { return c.energy }

// PhysicalShield returns the shield absorbing physical damage.
func (c *Champion) PhysicalShield() int { return c.physicalShield }

// MagicShield returns the shield absorbing magical damage.
func (c *Champion) MagicShield() int { return c.magicShield }

// CriticalStacks returns the unspent critical stacks.
func (c *Champion) CriticalStacks() int { return c.criticalStacks }

// MomentumStacks returns the bonus added to physical damage.
func (c *Champion) MomentumStacks() int { return c.momentumStacks }

// MasteryStacks returns the bonus added to magical damage.
func (c *Champion) MasteryStacks() int { return c.masteryStacks }

// Attribute reads a derived attribute of the underlying pet.
func (c *Champion) Attribute(d attribute.Derived) int {
	return c.pet.Attributes.Derived(d)
}

// Cooldown returns the remaining cooldown of loadout slot i.
//
// Precondition: 0 <= i < len(moves).
func (c *Champion) Cooldown(i int) int { return c.cooldowns[i] }

// IsAlive reports whether health is above zero.
func (c *Champion) IsAlive() bool { return c.health > 0 }

// UseEnergy pays the level-sized cost of taking a turn. Energy may go
// negative; it is only ever compared against the opponent's.
func (c *Champion) UseEnergy() {
	c.energy -= c.pet.Level
}

// GainEnergy regenerates Instinct energy.
func (c *Champion) GainEnergy() {
	c.energy += c.Attribute(attribute.Instinct)
}

// GainMomentumStacks adds ceil(Momentum/3) momentum stacks.
func (c *Champion) GainMomentumStacks() {
	c.momentumStacks += ceilThird(c.Attribute(attribute.Momentum))
}

// GainMasteryStacks adds ceil(Mastery/3) mastery stacks.
func (c *Champion) GainMasteryStacks() {
	c.masteryStacks += ceilThird(c.Attribute(attribute.Mastery))
}

// GainCriticalStacks adds n critical stacks.
//
// Precondition: n >= 0.
func (c *Champion) GainCriticalStacks(n int) {
	c.criticalStacks += n
}

// GainShield adds n points to the shield matching t; other types are ignored.
//
// Precondition: n >= 0.
func (c *Champion) GainShield(t move.DamageType, n int) {
	switch t {
	case move.Physical:
		c.physicalShield += n
	case move.Magical:
		c.magicShield += n
	}
}

// HasShield reports whether the shield matching t is up.
func (c *Champion) HasShield(t move.DamageType) bool {
	switch t {
	case move.Physical:
		return c.physicalShield > 0
	case move.Magical:
		return c.magicShield > 0
	}
	return false
}

// IsAboveCriticalThreshold reports whether the next damaging move crits.
func (c *Champion) IsAboveCriticalThreshold() bool {
	return c.criticalStacks >= c.criticalThreshold
}

// UseCriticalStacks spends one threshold worth of critical stacks.
//
// Precondition: IsAboveCriticalThreshold() is true; the result is not clamped.
func (c *Champion) UseCriticalStacks() {
	c.criticalStacks -= c.criticalThreshold
}

// NextMove picks the first ready move in loadout order and puts it on
// cooldown. Every other slot still cooling down counts down by one, so a
// move with cooldown N sits out its owner's next N turns.
//
// Postcondition: Returns move.Splash() when no slot is ready.
func (c *Champion) NextMove() *move.Move {
	next := -1
	for i := range c.moves {
		if next < 0 && c.cooldowns[i] == 0 {
			next = i
			continue
		}
		if c.cooldowns[i] > 0 {
			c.cooldowns[i]--
		}
	}
	if next < 0 {
		return move.Splash()
	}
	m := c.moves[next]
	c.cooldowns[next] = m.Cooldown
	return m
}

// ApplyDamages routes amount through the shield matching t, then into
// health. Unknown types are ignored.
func (c *Champion) ApplyDamages(t move.DamageType, amount int) {
	switch t {
	case move.Physical:
		c.ApplyBypassDamages(absorb(&c.physicalShield, amount))
	case move.Magical:
		c.ApplyBypassDamages(absorb(&c.magicShield, amount))
	}
}

// ApplyBypassDamages subtracts amount straight from health.
//
// Postcondition: health >= 0; any excess is discarded.
func (c *Champion) ApplyBypassDamages(amount int) {
	if amount <= 0 {
		return
	}
	c.health -= amount
	if c.health < 0 {
		c.health = 0
	}
}

// absorb drains shield by up to amount and returns what got through.
func absorb(shield *int, amount int) int {
	if amount <= 0 {
		return 0
	}
	if *shield >= amount {
		*shield -= amount
		return 0
	}
	amount -= *shield
	*shield = 0
	return amount
}

func ceilThird(v int) int { return (v + 2) / 3 }

func ceilHalf(v int) int { return (v + 1) / 2 }
