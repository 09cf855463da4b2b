package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
	}{
		{
			name:    "valid",
			request: CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: "hunter2hunter2"},
		},
		{
			name:    "missing name",
			request: CreateUserRequest{Email: "jane@example.com", Password: "hunter2hunter2"},
			wantErr: true,
		},
		{
			name:    "bad email",
			request: CreateUserRequest{Name: "Jane", Email: "not-an-email", Password: "hunter2hunter2"},
			wantErr: true,
		},
		{
			name:    "short password",
			request: CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: "short"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{Email: "jane@example.com", Password: "x"}
	assert.NoError(t, valid.Validate())

	missing := LoginRequest{Email: "jane@example.com"}
	assert.Error(t, missing.Validate())
}
