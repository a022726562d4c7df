package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type cellRequest struct {
	Cell *int `validate:"required,cell"`
}

func TestCellValidation(t *testing.T) {
	cell := func(v int) *int { return &v }

	tests := []struct {
		name    string
		req     cellRequest
		wantErr bool
	}{
		{name: "First cell", req: cellRequest{Cell: cell(0)}},
		{name: "Last cell", req: cellRequest{Cell: cell(8)}},
		{name: "Negative", req: cellRequest{Cell: cell(-1)}, wantErr: true},
		{name: "Past the board", req: cellRequest{Cell: cell(9)}, wantErr: true},
		{name: "Missing", req: cellRequest{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
