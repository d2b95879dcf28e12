package battle

import "fmt"

// Team identifies one side. Team0 deploys on row 0, Team1 on the last row.
type Team int

const (
	Team0 Team = 0
	Team1 Team = 1
)

// Teams in sweep order.
var Teams = [2]Team{Team0, Team1}

// Opponent returns the other side.
func (t Team) Opponent() Team { return 1 - t }

func (t Team) String() string {
	switch t {
	case Team0:
		return "Red Team"
	case Team1:
		return "Blue Team"
	}
	return fmt.Sprintf("team(%d)", int(t))
}

// Outcome is the terminal state machine of a battle: Running until a roster empties.
type Outcome struct {
	Over   bool `json:"over"`
	Winner Team `json:"winner"`
}

// Running is the outcome of a battle still in progress.
var Running = Outcome{}

// Won returns the terminal outcome for team t.
func Won(t Team) Outcome { return Outcome{Over: true, Winner: t} }

func (o Outcome) String() string {
	if !o.Over {
		return "running"
	}
	return fmt.Sprintf("won(%s)", o.Winner)
}
