package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/grid"
	"github.com/ascentcg/ascent-server-go/internal/game/modifier"
	"github.com/ascentcg/ascent-server-go/internal/game/resource"
)

// Rules configures the match-level constants.
type Rules struct {
	Levels         int
	BaseRadius     int
	StartingHealth int
	OpeningHand    int
	ResourceCap    int
	// TurnLimit counts player turns; when the limit is reached the match
	// ends and remaining avatar health decides the outcome. Zero means
	// no limit.
	TurnLimit int
}

// DefaultRules returns the standard match configuration.
func DefaultRules() Rules {
	return Rules{
		Levels:         3,
		BaseRadius:     4,
		StartingHealth: 20,
		OpeningHand:    3,
		ResourceCap:    10,
		TurnLimit:      40,
	}
}

// PlayerSetup is one player's identity and deck order at match start.
// The engine never shuffles; deck order is fixed by the caller so a
// match replays from its action sequence alone.
type PlayerSetup struct {
	ID   string
	Deck []catalog.CardID
}

type playerState struct {
	id            string
	zones         *Zones
	pool          *resource.Pool
	avatar        *Unit
	turnsTaken    int
	cardsPlayed   int // this turn
	spentThisTurn int
	initialCards  int
}

// trap is an armed trap card on a cell, hidden from the opponent until
// a unit moves through it.
type trap struct {
	owner string
	card  catalog.CardID
}

// pendingTrigger is a sprung trap waiting for the Resolve phase.
// Origin-cell triggers are enqueued strictly before destination-cell
// triggers, which fixes the relative resolution order when one move
// springs both.
type pendingTrigger struct {
	cell  grid.Coord
	card  catalog.CardID
	owner string
	unit  uuid.UUID
}

// Match is one engine instance: the exclusive owner of its grid
// occupancy, both players' zones, all units and the turn state. Access
// is serialized by a single mutex; concurrent matches are independent
// Match values.
type Match struct {
	mu sync.Mutex

	id       uuid.UUID
	rules    Rules
	catalog  *catalog.Catalog
	mountain *grid.Mountain
	players  [2]*playerState
	units    map[uuid.UUID]*Unit
	unitSeq  int
	traps    map[grid.Coord][]*trap
	pending  []pendingTrigger

	turn      int
	activeIdx int
	phase     Phase
	outcome   *MatchOutcome
	fault     error

	setup   [2]PlayerSetup
	actions []RecordedAction

	logger *zap.Logger
}

// NewMatch builds and starts a match: avatars placed at the east and
// west rim of the base level, opening hands drawn, and player one's
// first turn advanced through Start and Draw into Main. The returned
// delta carries the setup events.
func NewMatch(id uuid.UUID, cat *catalog.Catalog, rules Rules, p1, p2 PlayerSetup, logger *zap.Logger) (*Match, *StateDelta, error) {
	if cat == nil {
		return nil, nil, fmt.Errorf("nil catalog")
	}
	if p1.ID == "" || p2.ID == "" || p1.ID == p2.ID {
		return nil, nil, fmt.Errorf("players need distinct non-empty ids")
	}
	for _, setup := range []PlayerSetup{p1, p2} {
		if len(setup.Deck) <= rules.OpeningHand {
			return nil, nil, fmt.Errorf("player %s deck too small: %d cards", setup.ID, len(setup.Deck))
		}
		for _, cardID := range setup.Deck {
			if _, err := cat.CardByID(cardID); err != nil {
				return nil, nil, fmt.Errorf("player %s deck: %w", setup.ID, err)
			}
		}
	}

	mountain, err := grid.NewMountain(rules.Levels, rules.BaseRadius)
	if err != nil {
		return nil, nil, err
	}

	m := &Match{
		id:       id,
		rules:    rules,
		catalog:  cat,
		mountain: mountain,
		units:    make(map[uuid.UUID]*Unit),
		traps:    make(map[grid.Coord][]*trap),
		turn:     1,
		phase:    PhaseStart,
		setup:    [2]PlayerSetup{p1, p2},
		logger:   logger,
	}

	spawns := [2]grid.Coord{
		{Level: 0, Q: -rules.BaseRadius, R: 0},
		{Level: 0, Q: rules.BaseRadius, R: 0},
	}
	for i, setup := range []PlayerSetup{p1, p2} {
		avatar := newAvatar(setup.ID, spawns[i], rules.StartingHealth)
		avatar.ID = m.nextUnitID()
		if err := mountain.Place(avatar.ID, avatar.Coord); err != nil {
			return nil, nil, err
		}
		m.units[avatar.ID] = avatar
		m.players[i] = &playerState{
			id:           setup.ID,
			zones:        NewZones(setup.Deck),
			pool:         resource.NewPool(rules.ResourceCap),
			avatar:       avatar,
			initialCards: len(setup.Deck),
		}
	}

	for _, p := range m.players {
		for i := 0; i < rules.OpeningHand; i++ {
			if _, err := p.zones.Draw(); err != nil {
				return nil, nil, fmt.Errorf("opening hand for %s: %w", p.id, err)
			}
		}
	}

	delta := m.newDelta()
	m.startTurn(delta)
	m.finishDelta(delta)
	return m, delta, nil
}

// nextUnitID derives a deterministic unit id from the match id and a
// sequence number, so a replayed match reproduces identical ids.
func (m *Match) nextUnitID() uuid.UUID {
	m.unitSeq++
	return uuid.NewSHA1(m.id, []byte(fmt.Sprintf("unit-%d", m.unitSeq)))
}

// ID returns the match id.
func (m *Match) ID() uuid.UUID {
	return m.id
}

// Outcome returns the terminal outcome, if the match has reached one.
func (m *Match) Outcome() (MatchOutcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcome == nil {
		return MatchOutcome{}, false
	}
	return *m.outcome, true
}

func (m *Match) player(id string) *playerState {
	for _, p := range m.players {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (m *Match) opponentOf(id string) *playerState {
	for _, p := range m.players {
		if p.id != id {
			return p
		}
	}
	return nil
}

func (m *Match) active() *playerState {
	return m.players[m.activeIdx]
}

func (m *Match) newDelta() *StateDelta {
	return &StateDelta{}
}

func (m *Match) finishDelta(delta *StateDelta) {
	delta.Phase = m.phase
	delta.Turn = m.turn
	delta.ActivePlayer = m.active().id
	if m.outcome != nil {
		out := *m.outcome
		delta.Terminal = &out
	}
}

func (m *Match) event(delta *StateDelta, e Event) {
	delta.Events = append(delta.Events, e)
}

// Submit validates and applies one player action. Illegal actions are
// rejected with a *ValidationError (or a lookup sentinel) and mutate
// nothing; a detected internal inconsistency aborts the match with an
// *InvariantViolation.
func (m *Match) Submit(playerID string, action Action) (*StateDelta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fault != nil {
		return nil, m.fault
	}
	if m.outcome != nil {
		return nil, validationf(ReasonMatchOver, "match already ended: %s", m.outcome)
	}
	p := m.player(playerID)
	if p == nil {
		return nil, validationf(ReasonNotActivePlayer, "unknown player %q", playerID)
	}
	if p != m.active() {
		return nil, validationf(ReasonNotActivePlayer, "it is %s's turn", m.active().id)
	}
	if m.phase != PhaseMain {
		return nil, validationf(ReasonWrongPhase, "actions are only accepted in MAIN, currently %s", m.phase)
	}

	delta := m.newDelta()
	var err error
	switch action.Type {
	case ActionPlayCard:
		err = m.playCard(p, action, delta)
	case ActionMoveUnit:
		err = m.moveUnit(p, action, delta)
	case ActionEndPhase:
		err = m.endPhase(delta)
	default:
		err = validationf(ReasonUnknownAction, "unknown action type %d", int(action.Type))
	}
	if err != nil {
		return nil, err
	}

	m.actions = append(m.actions, RecordedAction{Player: playerID, Action: action})

	if vErr := m.verifyIntegrity(); vErr != nil {
		m.fault = vErr
		if m.logger != nil {
			m.logger.Error("match aborted",
				zap.String("match_id", m.id.String()),
				zap.Error(vErr),
			)
		}
		return nil, vErr
	}

	m.finishDelta(delta)
	if m.logger != nil {
		m.logger.Debug("action applied",
			zap.String("match_id", m.id.String()),
			zap.String("player", playerID),
			zap.Stringer("action", action),
			zap.Int("events", len(delta.Events)),
		)
	}
	return delta, nil
}

func (m *Match) playCard(p *playerState, action Action, delta *StateDelta) error {
	if !p.zones.HandContains(action.Card) {
		return validationf(ReasonCardNotInHand, "card %q is not in hand", action.Card)
	}
	card, err := m.catalog.CardByID(action.Card)
	if err != nil {
		return err
	}
	if card.Cost > p.pool.Current() {
		return validationf(ReasonInsufficientResources,
			"insufficient resources: need %d, have %d", card.Cost, p.pool.Current())
	}

	// Validate the full target before any mutation.
	switch card.Type {
	case catalog.TypeClimber, catalog.TypeTrap:
		cell, err := m.boardTargetCell(p, card, action.Target)
		if err != nil {
			return err
		}
		if err := p.pool.Spend(card.Cost); err != nil {
			return &InvariantViolation{Detail: fmt.Sprintf("validated spend failed: %v", err)}
		}
		p.zones.RemoveFromHand(card.ID)
		if card.Type == catalog.TypeClimber {
			unit := newClimber(p.id, card, cell)
			unit.ID = m.nextUnitID()
			if err := m.mountain.Place(unit.ID, cell); err != nil {
				m.fault = &InvariantViolation{Detail: err.Error()}
				return m.fault
			}
			m.units[unit.ID] = unit
			m.event(delta, Event{Kind: EventSummon, Unit: unit.ID, Player: p.id, Value: unit.Health, Detail: string(card.ID)})
		} else {
			m.traps[cell] = append(m.traps[cell], &trap{owner: p.id, card: card.ID})
			m.event(delta, Event{Kind: EventTrapArmed, Player: p.id, Detail: cell.String()})
		}
	default:
		caster := p.avatar
		targets, err := m.resolveTargets(caster, card.Target, action.Target)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return validationf(ReasonNoTarget, "no unit in the targeted cells")
		}
		if err := p.pool.Spend(card.Cost); err != nil {
			return &InvariantViolation{Detail: fmt.Sprintf("validated spend failed: %v", err)}
		}
		p.zones.RemoveFromHand(card.ID)
		p.zones.ToDiscard(card.ID)
		m.resolveEffects(card, caster, targets, delta)
	}

	p.cardsPlayed++
	p.spentThisTurn += card.Cost
	m.checkAvatarDefeat(delta)
	return nil
}

// boardTargetCell validates the chosen cell for a climber summon or a
// trap placement: present, on the board, in range of the avatar, and
// free for the card's purpose.
func (m *Match) boardTargetCell(p *playerState, card catalog.Card, spec TargetSpec) (grid.Coord, error) {
	if spec.Cell == nil {
		return grid.Coord{}, validationf(ReasonBadTargetSpec, "card %q needs a target cell", card.ID)
	}
	cell := *spec.Cell
	dist, err := m.mountain.Distance(p.avatar.Coord, cell)
	if err != nil {
		return grid.Coord{}, err
	}
	if dist > card.Target.Range {
		return grid.Coord{}, validationf(ReasonOutOfRange,
			"cell %s is %d steps away, range is %d", cell, dist, card.Target.Range)
	}
	if _, occupied, err := m.mountain.OccupantAt(cell); err != nil {
		return grid.Coord{}, err
	} else if occupied && card.Type == catalog.TypeClimber {
		return grid.Coord{}, validationf(ReasonCellOccupied, "cell %s is occupied", cell)
	}
	// Only the player's own traps block placement. Enemy traps stay
	// hidden: the new piece shares the cell and the trap stays armed.
	for _, t := range m.traps[cell] {
		if t.owner == p.id {
			return grid.Coord{}, validationf(ReasonCellArmed, "cell %s already holds your trap", cell)
		}
	}
	return cell, nil
}

func (m *Match) moveUnit(p *playerState, action Action, delta *StateDelta) error {
	unit, ok := m.units[action.Unit]
	if !ok {
		return validationf(ReasonUnknownUnit, "unknown unit %s", action.Unit)
	}
	if unit.Owner != p.id {
		return validationf(ReasonNotOwner, "unit %s belongs to %s", unit.ID, unit.Owner)
	}
	if unit.Defeated {
		return validationf(ReasonUnknownUnit, "unit %s is defeated", unit.ID)
	}

	neighbors, err := m.mountain.Neighbors(unit.Coord)
	if err != nil {
		return err
	}
	adjacent := false
	for _, n := range neighbors {
		if n == action.Dest {
			adjacent = true
			break
		}
	}
	if !adjacent {
		if !m.mountain.Contains(action.Dest) {
			return fmt.Errorf("%w: %s", grid.ErrInvalidCoordinate, action.Dest)
		}
		return validationf(ReasonNotAdjacent, "%s is not adjacent to %s", action.Dest, unit.Coord)
	}
	if _, occupied, err := m.mountain.OccupantAt(action.Dest); err != nil {
		return err
	} else if occupied {
		return validationf(ReasonCellOccupied, "cell %s is occupied", action.Dest)
	}

	origin := unit.Coord
	if err := m.mountain.Move(unit.ID, origin, action.Dest); err != nil {
		m.fault = &InvariantViolation{Detail: err.Error()}
		return m.fault
	}
	unit.Coord = action.Dest
	m.event(delta, Event{Kind: EventMove, Unit: unit.ID, Player: p.id, Detail: fmt.Sprintf("%s -> %s", origin, action.Dest)})

	// Springing order: traps left behind fire before traps stepped on.
	m.springTrap(origin, unit)
	m.springTrap(action.Dest, unit)
	return nil
}

// springTrap queues the enemy traps on cell against unit for the
// Resolve phase, in arming order, and moves each trap card to its
// owner's discard. The unit's own traps stay armed.
func (m *Match) springTrap(cell grid.Coord, unit *Unit) {
	armed := m.traps[cell]
	if len(armed) == 0 {
		return
	}
	kept := armed[:0]
	for _, t := range armed {
		if t.owner == unit.Owner {
			kept = append(kept, t)
			continue
		}
		if owner := m.player(t.owner); owner != nil {
			owner.zones.ToDiscard(t.card)
		}
		m.pending = append(m.pending, pendingTrigger{cell: cell, card: t.card, owner: t.owner, unit: unit.ID})
	}
	if len(kept) == 0 {
		delete(m.traps, cell)
	} else {
		m.traps[cell] = kept
	}
}

func (m *Match) endPhase(delta *StateDelta) error {
	m.phase = PhaseResolve
	m.event(delta, Event{Kind: EventPhase, Detail: PhaseResolve.String()})

	for _, trigger := range m.pending {
		unit, ok := m.units[trigger.unit]
		if !ok || unit.Defeated {
			m.event(delta, Event{Kind: EventSkipped, Unit: trigger.unit,
				Detail: fmt.Sprintf("trap %s: target no longer on the board", trigger.card)})
			continue
		}
		card, err := m.catalog.CardByID(trigger.card)
		if err != nil {
			// A sprung trap always came from the catalog.
			m.fault = &InvariantViolation{Detail: fmt.Sprintf("armed trap %q missing from catalog", trigger.card)}
			return m.fault
		}
		m.event(delta, Event{Kind: EventTrapSprung, Unit: unit.ID, Player: trigger.owner, Detail: string(card.ID)})

		// Trap effects hit the triggering unit directly; the owner's
		// avatar, if still standing, counts as the caster for modifier
		// and scaling purposes.
		var caster *Unit
		if owner := m.player(trigger.owner); owner != nil && !owner.avatar.Defeated {
			caster = owner.avatar
		}
		m.resolveEffects(card, caster, []*Unit{unit}, delta)
		m.checkAvatarDefeat(delta)
	}
	m.pending = nil

	m.phase = PhaseEnd
	m.event(delta, Event{Kind: EventPhase, Detail: PhaseEnd.String()})
	if m.outcome == nil {
		m.checkTurnLimit(delta)
	}
	if m.outcome != nil {
		return nil
	}

	m.activeIdx = 1 - m.activeIdx
	m.turn++
	m.startTurn(delta)
	return nil
}

// startTurn runs the automatic Start and Draw phases for the active
// player and leaves the match waiting in Main.
func (m *Match) startTurn(delta *StateDelta) {
	p := m.active()

	m.phase = PhaseStart
	m.event(delta, Event{Kind: EventPhase, Player: p.id, Detail: PhaseStart.String()})
	p.turnsTaken++
	p.cardsPlayed = 0
	p.spentThisTurn = 0
	for _, unit := range m.unitsOf(p.id) {
		unit.Modifiers.Tick()
	}
	p.pool.ResetForTurn(p.turnsTaken, p.avatar.Modifiers.TotalFor(modifier.StatResource))

	m.phase = PhaseDraw
	m.event(delta, Event{Kind: EventPhase, Player: p.id, Detail: PhaseDraw.String()})
	card, err := p.zones.Draw()
	if err != nil {
		// Drawing from an empty deck loses the match.
		m.declareOutcome(delta, MatchOutcome{Result: ResultVictory, Winner: m.opponentOf(p.id).id},
			fmt.Sprintf("%s must draw from an empty deck", p.id))
		return
	}
	m.event(delta, Event{Kind: EventDraw, Player: p.id, Value: 1, Detail: string(card)})

	m.phase = PhaseMain
	m.event(delta, Event{Kind: EventPhase, Player: p.id, Detail: PhaseMain.String()})
}

// unitsOf returns a player's live units in canonical cell order.
func (m *Match) unitsOf(playerID string) []*Unit {
	units := make([]*Unit, 0, len(m.units))
	for _, u := range m.units {
		if u.Owner == playerID && !u.Defeated {
			units = append(units, u)
		}
	}
	sortUnits(units)
	return units
}

func (m *Match) checkTurnLimit(delta *StateDelta) {
	if m.rules.TurnLimit <= 0 || m.turn < m.rules.TurnLimit {
		return
	}
	h0 := m.players[0].avatar.Health
	h1 := m.players[1].avatar.Health
	switch {
	case h0 == h1:
		m.declareOutcome(delta, MatchOutcome{Result: ResultDraw}, "turn limit reached with equal health")
	case h0 > h1:
		m.declareOutcome(delta, MatchOutcome{Result: ResultVictory, Winner: m.players[0].id}, "turn limit reached")
	default:
		m.declareOutcome(delta, MatchOutcome{Result: ResultVictory, Winner: m.players[1].id}, "turn limit reached")
	}
}

func (m *Match) checkAvatarDefeat(delta *StateDelta) {
	if m.outcome != nil {
		return
	}
	dead0 := m.players[0].avatar.Defeated
	dead1 := m.players[1].avatar.Defeated
	switch {
	case dead0 && dead1:
		m.declareOutcome(delta, MatchOutcome{Result: ResultDraw}, "both avatars defeated")
	case dead0:
		m.declareOutcome(delta, MatchOutcome{Result: ResultVictory, Winner: m.players[1].id}, "avatar defeated")
	case dead1:
		m.declareOutcome(delta, MatchOutcome{Result: ResultVictory, Winner: m.players[0].id}, "avatar defeated")
	}
}

func (m *Match) declareOutcome(delta *StateDelta, outcome MatchOutcome, detail string) {
	if m.outcome != nil {
		return
	}
	m.outcome = &outcome
	m.event(delta, Event{Kind: EventTerminal, Detail: detail})
	if m.logger != nil {
		m.logger.Info("match ended",
			zap.String("match_id", m.id.String()),
			zap.Stringer("outcome", outcome),
			zap.Int("turn", m.turn),
			zap.String("detail", detail),
		)
	}
}

// verifyIntegrity cross-checks the occupancy index against unit records
// and the card conservation law. Any disagreement is a bug, so the
// match halts rather than patching state.
func (m *Match) verifyIntegrity() *InvariantViolation {
	live := 0
	for _, u := range m.units {
		if u.Defeated {
			continue
		}
		live++
		occ, ok, err := m.mountain.OccupantAt(u.Coord)
		if err != nil || !ok || occ != u.ID {
			return &InvariantViolation{Detail: fmt.Sprintf("unit %s records cell %s but occupancy disagrees", u.ID, u.Coord)}
		}
	}
	if occupied := len(m.mountain.Occupied()); occupied != live {
		return &InvariantViolation{Detail: fmt.Sprintf("%d occupied cells for %d live units", occupied, live)}
	}

	for _, p := range m.players {
		total := p.zones.Count()
		for _, u := range m.units {
			if u.Owner == p.id && !u.Defeated && u.Card != "" {
				total++
			}
		}
		for _, armed := range m.traps {
			for _, t := range armed {
				if t.owner == p.id {
					total++
				}
			}
		}
		if total != p.initialCards {
			return &InvariantViolation{Detail: fmt.Sprintf("player %s owns %d cards, started with %d", p.id, total, p.initialCards)}
		}
	}
	return nil
}
