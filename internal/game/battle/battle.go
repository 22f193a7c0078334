package battle

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/alchemy/internal/game/pet"
)

// Battle states. Every state other than StateInProgress is terminal.
const (
	StateInProgress       = "in_progress"
	StateChampion1Fainted = "champion1_fainted"
	StateChampion2Fainted = "champion2_fainted"
	StateBothFainted      = "both_fainted"
	StateTurnLimit        = "turn_limit"
)

const (
	evChampion1Fainted = "champion1_fainted"
	evChampion2Fainted = "champion2_fainted"
	evBothFainted      = "both_fainted"
	evTurnLimit        = "turn_limit"
)

const (
	// DefaultMaxTurns bounds battles in which neither side can finish the other.
	DefaultMaxTurns = 1000
	// DefaultCriticalThreshold is the critical stack count needed for a critical hit.
	DefaultCriticalThreshold = 10
)

// Option customises a Battle.
type Option func(*options)

type options struct {
	maxTurns          int
	criticalThreshold int
	logger            *zap.Logger
}

// WithMaxTurns caps the number of ticks; n <= 0 keeps the default.
func WithMaxTurns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTurns = n
		}
	}
}

// WithCriticalThreshold sets the critical stack threshold of both champions.
func WithCriticalThreshold(n int) Option {
	return func(o *options) { o.criticalThreshold = n }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Result is the complete record of a resolved battle.
type Result struct {
	Outcome Outcome
	// Winner is nil unless Outcome is OutcomeWin.
	Winner *pet.Pet
	// State is the terminal state the battle reached.
	State string
	// TurnLimitReached is true when the battle was cut short by the turn cap.
	TurnLimitReached bool
	Turns            int
	Events           []Event
}

// Battle drives two champions through the tick loop.
// A Battle is not safe for concurrent use; run separate battles instead.
type Battle struct {
	champion1 *Champion
	champion2 *Champion

	machine  *fsm.FSM
	events   []Event
	turn     int
	maxTurns int
	logger   *zap.Logger

	result *Result
}

// New builds a battle between p1 and p2.
//
// Precondition: p1 and p2 must be non-nil, distinct and valid.
// Postcondition: Returns a Battle in StateInProgress or a non-nil error.
func New(p1, p2 *pet.Pet, opts ...Option) (*Battle, error) {
	if p1 == nil || p2 == nil {
		return nil, errors.New("battle requires two pets")
	}
	if p1 == p2 {
		return nil, errors.New("a pet cannot battle itself")
	}
	if err := p1.Validate(); err != nil {
		return nil, fmt.Errorf("champion 1: %w", err)
	}
	if err := p2.Validate(); err != nil {
		return nil, fmt.Errorf("champion 2: %w", err)
	}

	o := options{
		maxTurns:          DefaultMaxTurns,
		criticalThreshold: DefaultCriticalThreshold,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Battle{
		champion1: NewChampion(p1, o.criticalThreshold),
		champion2: NewChampion(p2, o.criticalThreshold),
		machine: fsm.NewFSM(
			StateInProgress,
			fsm.Events{
				{Name: evChampion1Fainted, Src: []string{StateInProgress}, Dst: StateChampion1Fainted},
				{Name: evChampion2Fainted, Src: []string{StateInProgress}, Dst: StateChampion2Fainted},
				{Name: evBothFainted, Src: []string{StateInProgress}, Dst: StateBothFainted},
				{Name: evTurnLimit, Src: []string{StateInProgress}, Dst: StateTurnLimit},
			},
			fsm.Callbacks{},
		),
		maxTurns: o.maxTurns,
		logger:   o.logger,
	}, nil
}

// Champions returns both champions in seat order.
func (b *Battle) Champions() (*Champion, *Champion) { return b.champion1, b.champion2 }

// State returns the current state name.
func (b *Battle) State() string { return b.machine.Current() }

// Turn returns the number of ticks played so far.
func (b *Battle) Turn() int { return b.turn }

// nextActor picks who acts this tick: the side with more energy, champion 1
// on a tie.
func (b *Battle) nextActor() (active, opponent *Champion) {
	if b.champion2.Energy() > b.champion1.Energy() {
		return b.champion2, b.champion1
	}
	return b.champion1, b.champion2
}

// Tick plays one scheduler step: both sides regenerate energy, then the
// active champion pays for its turn and uses its next ready move.
//
// Postcondition: Returns the events produced by the move; returns nil and
// plays nothing once State() is terminal or a champion has fainted.
func (b *Battle) Tick() []Event {
	if b.machine.Current() != StateInProgress || !b.champion1.IsAlive() || !b.champion2.IsAlive() {
		return nil
	}
	b.turn++
	b.champion1.GainEnergy()
	b.champion2.GainEnergy()

	active, opponent := b.nextActor()
	active.UseEnergy()
	m := active.NextMove()
	events := ExecuteMove(m, active, opponent)
	for i := range events {
		events[i].Turn = b.turn
	}
	b.events = append(b.events, events...)

	b.logger.Debug("battle turn",
		zap.Int("turn", b.turn),
		zap.String("actor", active.Name()),
		zap.String("move", m.Name),
		zap.Int("actor_energy", active.Energy()),
		zap.Int("opponent_health", opponent.Health()),
		zap.Int("opponent_magic_shield", opponent.MagicShield()),
	)
	return events
}

// Run ticks until a champion faints or the turn cap is hit, then appends
// fainted and outcome events.
//
// Postcondition: State() is terminal; the event log ends with exactly one
// BATTLE_ENDED event. Calling Run again returns the same Result.
func (b *Battle) Run() Result {
	if b.result != nil {
		return b.copyResult()
	}
	b.logger.Info("battle started",
		zap.String("champion1", b.champion1.Name()),
		zap.String("champion2", b.champion2.Name()),
		zap.Int("max_turns", b.maxTurns),
	)
	for b.champion1.IsAlive() && b.champion2.IsAlive() && b.turn < b.maxTurns {
		b.Tick()
	}
	res := b.finish()
	b.logger.Info("battle ended",
		zap.String("state", res.State),
		zap.Stringer("outcome", res.Outcome),
		zap.Int("turns", res.Turns),
		zap.Int("events", len(res.Events)),
	)
	return res
}

// finish records the terminal transition and the closing events.
func (b *Battle) finish() Result {
	c1, c2 := b.champion1, b.champion2
	res := Result{Turns: b.turn}

	for _, c := range []*Champion{c1, c2} {
		if !c.IsAlive() {
			b.record(EventChampionFainted, c.Name(), c.Name()+" fainted !")
		}
	}

	var ev string
	switch {
	case !c1.IsAlive() && !c2.IsAlive():
		ev = evBothFainted
		res.Outcome = OutcomeDraw
		b.record(EventBattleEnded, "", "It's a draw !")
	case !c2.IsAlive():
		ev = evChampion2Fainted
		res.Outcome = OutcomeWin
		res.Winner = c1.Pet()
		b.record(EventBattleEnded, c1.Name(), c1.Name()+" won !")
	case !c1.IsAlive():
		ev = evChampion1Fainted
		res.Outcome = OutcomeWin
		res.Winner = c2.Pet()
		b.record(EventBattleEnded, c2.Name(), c2.Name()+" won !")
	default:
		ev = evTurnLimit
		res.Outcome = OutcomeDraw
		res.TurnLimitReached = true
		b.record(EventBattleEnded, "", fmt.Sprintf("%s and %s are still standing after %d turns, it's a draw !",
			c1.Name(), c2.Name(), b.turn))
	}

	if err := b.machine.Event(context.Background(), ev); err != nil {
		// Only reachable if finish runs twice on the same battle.
		panic(fmt.Sprintf("battle: finish: %v", err))
	}
	res.State = b.machine.Current()
	res.Events = append([]Event(nil), b.events...)
	b.result = &res
	return b.copyResult()
}

func (b *Battle) copyResult() Result {
	res := *b.result
	res.Events = append([]Event(nil), b.result.Events...)
	return res
}

func (b *Battle) record(t EventType, actor, desc string) {
	b.events = append(b.events, Event{Turn: b.turn, Type: t, Actor: actor, Description: desc})
}

// Resolve runs a complete battle between p1 and p2.
//
// Postcondition: Returns the full ordered event log and outcome, or an error
// when either pet violates a precondition.
func Resolve(p1, p2 *pet.Pet, opts ...Option) (Result, error) {
	b, err := New(p1, p2, opts...)
	if err != nil {
		return Result{}, err
	}
	return b.Run(), nil
}
