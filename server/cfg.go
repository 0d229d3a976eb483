package server

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/khet/model"
)

const DEFAULT_BOARD = "data/boards/duel_4x4.json"

// Config seeds every new session. Board, when set, is used instead of
// reading BoardPath.
type Config struct {
	BoardPath string
	Board     *model.Board
	First     model.Color
}

// Load builds a fresh game from the configured board.
func Load(cfg Config) (*model.Game, error) {
	board := cfg.Board
	if board == nil {
		path := cfg.BoardPath
		if path == "" {
			path = DEFAULT_BOARD
		}
		b, err := model.LoadBoardFile(path)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"path": path, "rows": b.Rows, "cols": b.Cols}).Debug("board loaded")
		board = b
	}
	first := cfg.First
	if first == model.NO_COLOR {
		first = model.SILVER
	}
	g, err := model.NewGame(board, first)
	if err != nil {
		return nil, fmt.Errorf("seeding game: %w", err)
	}
	return g, nil
}
