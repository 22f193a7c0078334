package battle

import (
	"fmt"

	"github.com/cory-johannsen/alchemy/internal/game/move"
)

// ExecuteMove runs every component of m, in order, from source against target.
// A move crits when source is at its critical threshold and m deals damage;
// the stacks are spent once per move. Damaging moves grant momentum and
// mastery stacks after all components have resolved.
//
// Postcondition: Returns one event per component; empty for a move without components.
func ExecuteMove(m *move.Move, source, target *Champion) []Event {
	damaging := m.HasDamage()
	critical := damaging && source.IsAboveCriticalThreshold()
	if critical {
		source.UseCriticalStacks()
	}

	events := make([]Event, 0, len(m.Components))
	for _, c := range m.Components {
		events = append(events, executeComponent(c, critical, source, target))
	}

	if damaging {
		source.GainMomentumStacks()
		source.GainMasteryStacks()
	}
	return events
}

// executeComponent dispatches on the component kind.
//
// Precondition: c passed move.Component.Validate; an unknown kind is a
// programming error and panics.
func executeComponent(c move.Component, critical bool, source, target *Champion) Event {
	switch c.Kind {
	case move.KindDamage:
		return ResolveDamage(*c.Damage, critical, source, target)
	}
	panic(fmt.Sprintf("battle: executeComponent: unknown component kind %q", c.Kind))
}
