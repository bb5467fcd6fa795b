package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLogin(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    LoginRequest
		wantErr string
	}{
		{"valid", `{"username":"alice","password":"pw"}`, LoginRequest{"alice", "pw"}, ""},
		{"username trimmed", `{"username":"  alice ","password":" pw "}`, LoginRequest{"alice", " pw "}, ""},
		{"missing username", `{"password":"pw"}`, LoginRequest{}, "username is required"},
		{"blank username", `{"username":"   ","password":"pw"}`, LoginRequest{}, "username is required"},
		{"missing password", `{"username":"alice"}`, LoginRequest{}, "password is required"},
		{"not json", `username=alice`, LoginRequest{}, "invalid request body"},
		{"unknown field", `{"username":"alice","password":"pw","admin":true}`, LoginRequest{}, "invalid request body"},
		{"oversized", `{"username":"alice","password":"` + strings.Repeat("x", maxBodyBytes) + `"}`, LoginRequest{}, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLogin(strings.NewReader(tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
