package entity

// Result tags an Outcome.
type Result uint8

const (
	InProgress Result = iota
	Win
	Draw
)

func (that Result) String() string {
	switch that {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

func (that Result) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

// Outcome is derived from a board and never stored on its own.
// Winner and Line are set only when Result is Win.
type Outcome struct {
	Result Result
	Winner Mark
	Line   Line
}

func InProgressOutcome() Outcome {
	return Outcome{Result: InProgress}
}

func DrawOutcome() Outcome {
	return Outcome{Result: Draw}
}

func WinOutcome(winner Mark, line Line) Outcome {
	return Outcome{Result: Win, Winner: winner, Line: line}
}

// IsTerminal reports whether the match has ended.
func (that Outcome) IsTerminal() bool {
	return that.Result != InProgress
}
