package battle

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/alchemy/internal/game/attribute"
	"github.com/cory-johannsen/alchemy/internal/game/move"
)

// DamageReport breaks a damage component hit down into its additive terms.
type DamageReport struct {
	Type move.DamageType

	Base     int
	Critical int
	Momentum int
	Mastery  int

	BaseBypass     int
	CriticalBypass int
	Clarity        int
	ClarityBonus   int

	// Mitigation names the stat that produced Reduction.
	Mitigation attribute.Derived
	Reduction  int

	// Damage and Bypass are the pools left after Reduction.
	Damage int
	Bypass int
}

// TotalDamage is the shieldable pool before mitigation.
func (r DamageReport) TotalDamage() int { return r.Base + r.Critical + r.Momentum + r.Mastery }

// TotalBypass is the piercing pool before mitigation.
func (r DamageReport) TotalBypass() int {
	return r.BaseBypass + r.CriticalBypass + r.Clarity + r.ClarityBonus
}

// mitigator returns the champion whose Defence/Adaptation reduces a hit.
// Reduction is read from the attacker.
func mitigator(source, _ *Champion) *Champion {
	return source
}

// ComputeDamage evaluates d for source against target without mutating
// either champion.
func ComputeDamage(d move.Damage, critical bool, source, target *Champion) DamageReport {
	r := DamageReport{Type: d.Type, Base: d.BaseDamage, BaseBypass: d.BaseBypass}
	if critical {
		r.Critical = ceilHalf(d.BaseDamage)
		r.CriticalBypass = ceilHalf(d.BaseBypass)
	}

	switch d.Type {
	case move.Physical:
		r.Momentum = source.MomentumStacks()
		r.Mitigation = attribute.Defence
	case move.Magical:
		r.Mastery = source.MasteryStacks()
		r.Clarity = source.Attribute(attribute.Clarity)
		if target.HasShield(d.Type) {
			r.ClarityBonus = r.Clarity
		}
		r.Mitigation = attribute.Adaptation
	}

	r.Damage = r.TotalDamage()
	r.Bypass = r.TotalBypass()
	if r.Mitigation != 0 {
		r.Reduction = mitigator(source, target).Attribute(r.Mitigation)
	}

	left := r.Reduction
	if left <= r.Damage {
		r.Damage -= left
		return r
	}
	left -= r.Damage
	r.Damage = 0
	if left <= r.Bypass {
		r.Bypass -= left
	} else {
		r.Bypass = 0
	}
	return r
}

// ResolveDamage computes and applies d to target: piercing first, then the
// shieldable pool through target's matching shield.
//
// Postcondition: Returns a DAMAGE_MOVE event narrating every term.
func ResolveDamage(d move.Damage, critical bool, source, target *Champion) Event {
	r := ComputeDamage(d, critical, source, target)
	target.ApplyBypassDamages(r.Bypass)
	target.ApplyDamages(r.Type, r.Damage)
	return Event{
		Type:        EventDamageMove,
		Actor:       source.Name(),
		Description: narrateDamage(r, source.Name(), target.Name()),
	}
}

type term struct {
	amount int
	label  string
}

func writeTerms(b *strings.Builder, terms []term) {
	first := true
	for _, t := range terms {
		if t.amount <= 0 && !(first && t.label == "Base") {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		fmt.Fprintf(b, "%d (%s)", t.amount, t.label)
		first = false
	}
}

func narrateDamage(r DamageReport, source, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s deals %d %s damages (", source, r.TotalDamage(), r.Type)
	writeTerms(&b, []term{
		{r.Base, "Base"},
		{r.Critical, "Critical Hit"},
		{r.Momentum, "Momentum"},
		{r.Mastery, "Mastery"},
	})
	b.WriteString(")")

	if r.TotalBypass() > 0 {
		fmt.Fprintf(&b, " + %d %s piercing damages (", r.TotalBypass(), r.Type)
		writeTerms(&b, []term{
			{r.BaseBypass, "Base Piercing"},
			{r.CriticalBypass, "Critical Hit"},
			{r.Clarity, "Clarity"},
			{r.ClarityBonus, "No Magic Shield"},
		})
		b.WriteString(")")
	}
	fmt.Fprintf(&b, " to %s.", target)

	if r.Reduction > 0 {
		fmt.Fprintf(&b, " The damages were reduced by %d (%s), for a total of %d damages dealt.",
			r.Reduction, mitigationLabel(r.Mitigation), r.Damage+r.Bypass)
	}
	return b.String()
}

func mitigationLabel(d attribute.Derived) string {
	switch d {
	case attribute.Defence:
		return "Defence"
	case attribute.Adaptation:
		return "Adaptation"
	}
	return d.String()
}
