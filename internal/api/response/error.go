package response

import (
	"errors"
	"net/http"

	"ctchen222/Starter-Kit/internal/game"
)

type Error struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Extras  string `json:"extras"`
}

func (e Error) Error() string {
	return e.Extras
}

func NewError(code int, message string) Error {
	return Error{
		Success: false,
		Code:    code,
		Extras:  message,
	}
}

// FromGameError maps a rejected move to its HTTP status.
func FromGameError(err error) Error {
	switch {
	case errors.Is(err, game.ErrInvalidCell):
		return NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrCellOccupied), errors.Is(err, game.ErrGameFinished):
		return NewError(http.StatusConflict, err.Error())
	default:
		return NewError(http.StatusInternalServerError, err.Error())
	}
}
