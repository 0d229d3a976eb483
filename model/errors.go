package model

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrIllegalMove     = errors.New("illegal move")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrGameOver        = errors.New("game over")
	ErrInvalidBoard    = errors.New("invalid board")
	ErrMalformedAction = errors.New("malformed action")
	ErrLaserRunaway    = errors.New("laser exceeded step budget")

	ErrInvalidDestination = fmt.Errorf("%w: destination not legal", ErrIllegalMove)
)
