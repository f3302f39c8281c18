package game

import "fmt"

// Phase is one step of a player turn. Start, Draw, Resolve and End run
// inside the engine; Main is the only phase that waits for player
// actions, so control returns to the caller there after every submitted
// action.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseDraw
	PhaseMain
	PhaseResolve
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseStart:   "START",
	PhaseDraw:    "DRAW",
	PhaseMain:    "MAIN",
	PhaseResolve: "RESOLVE",
	PhaseEnd:     "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Result classifies a finished match.
type Result int

const (
	ResultVictory Result = iota
	ResultDraw
)

var resultNames = map[Result]string{
	ResultVictory: "VICTORY",
	ResultDraw:    "DRAW",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RESULT_%d", int(r))
}

// MatchOutcome is the terminal state of a match. For a victory, Winner
// names the winning player (the other player's outcome is the defeat);
// a drawn match has no winner.
type MatchOutcome struct {
	Result Result
	Winner string
}

func (o MatchOutcome) String() string {
	if o.Result == ResultDraw {
		return "DRAW"
	}
	return fmt.Sprintf("VICTORY(%s)", o.Winner)
}
