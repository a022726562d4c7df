package validator

import (
	"ctchen222/Starter-Kit/internal/game"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// cell: an index on the tic-tac-toe board.
	if err := validate.RegisterValidation("cell", validateCell); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

func validateCell(fl validator.FieldLevel) bool {
	cell := fl.Field().Int()
	return cell >= 0 && cell < game.CellCount
}
