package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Position is one test position handed to the model.
type Position struct {
	ID          string `json:"position_id" yaml:"position_id"`
	OpeningName string `json:"opening_name,omitempty" yaml:"opening_name,omitempty"`
	FENBefore   string `json:"fen_before,omitempty" yaml:"fen_before,omitempty"`
	FENAfter    string `json:"fen_after,omitempty" yaml:"fen_after,omitempty"`
	FENString   string `json:"fen,omitempty" yaml:"fen,omitempty"`
	SideToMove  string `json:"side_to_move,omitempty" yaml:"side_to_move,omitempty"`
	LastMove    string `json:"last_move,omitempty" yaml:"last_move,omitempty"`
	Phase       string `json:"phase,omitempty" yaml:"phase,omitempty"`
	Ply         int    `json:"ply,omitempty" yaml:"ply,omitempty"`
}

// FEN returns the position after the last move, falling back to the plain fen field.
func (p Position) FEN() string {
	if p.FENAfter != "" {
		return p.FENAfter
	}
	return p.FENString
}

// Side returns the side to move, derived from the FEN when not set explicitly.
func (p Position) Side() string {
	if p.SideToMove != "" {
		return p.SideToMove
	}
	fields := strings.Fields(p.FEN())
	if len(fields) > 1 && fields[1] == "b" {
		return "Black"
	}
	return "White"
}

// LoadPositions reads a JSON or YAML list of positions. Positions without any
// FEN are rejected.
func LoadPositions(path string) ([]Position, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}

	var ps []Position
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &ps)
	default:
		err = json.Unmarshal(data, &ps)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse positions %s", path)
	}

	for i := range ps {
		if ps[i].FEN() == "" {
			return nil, errors.Errorf("position %d (%q) has no fen", i, ps[i].ID)
		}
		if ps[i].ID == "" {
			ps[i].ID = fmt.Sprintf("pos%03d", i)
		}
	}
	return ps, nil
}

// Generate plays n random games of up to maxPlies plies each and returns the
// position reached at a random ply of every game. The same seed yields the
// same positions.
func Generate(n, maxPlies int, seed int64) []Position {
	r := rand.New(rand.NewSource(seed))
	out := make([]Position, 0, n)
	for i := 0; i < n; i++ {
		g := chess.NewGame()
		target := 1 + r.Intn(maxPlies)

		var last string
		before := g.Position().String()
		ply := 0
		for ; ply < target && g.Outcome() == chess.NoOutcome; ply++ {
			moves := g.ValidMoves()
			if len(moves) == 0 {
				break
			}
			m := moves[r.Intn(len(moves))]
			before = g.Position().String()
			last = chess.AlgebraicNotation{}.Encode(g.Position(), m)
			if err := g.Move(m); err != nil {
				break
			}
		}

		p := Position{
			ID:        fmt.Sprintf("random/%d/ply%d", i, ply),
			FENBefore: before,
			FENAfter:  g.Position().String(),
			LastMove:  last,
			Ply:       ply,
		}
		p.SideToMove = p.Side()
		p.Phase = phaseOf(ply, MustDecode(p.FENAfter))
		out = append(out, p)
	}
	return out
}

func phaseOf(ply int, b *Board) string {
	var total int
	for _, k := range Kinds {
		total += b.counts[k]
	}
	switch {
	case ply <= 20:
		return "opening"
	case total > 14:
		return "middlegame"
	default:
		return "endgame"
	}
}
