package mail

import (
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredAuth_Start(t *testing.T) {
	tests := []struct {
		name     string
		server   smtp.ServerInfo
		wantMech string
		wantErr  error
	}{
		{name: "sin tls", server: smtp.ServerInfo{Name: "relay.local", Auth: []string{"PLAIN"}}, wantErr: ErrInsecureRelay},
		{name: "tls sin auth", server: smtp.ServerInfo{Name: "relay.local", TLS: true}, wantErr: ErrAuthUnavailable},
		{name: "tls solo cram", server: smtp.ServerInfo{Name: "relay.local", TLS: true, Auth: []string{"CRAM-MD5"}}, wantErr: ErrAuthUnavailable},
		{name: "plain preferido", server: smtp.ServerInfo{Name: "relay.local", TLS: true, Auth: []string{"LOGIN", "PLAIN"}}, wantMech: "PLAIN"},
		{name: "login", server: smtp.ServerInfo{Name: "relay.local", TLS: true, Auth: []string{"LOGIN"}}, wantMech: "LOGIN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newRequiredAuth("relay.local", "nomina", "secreto")
			mech, resp, err := a.Start(&tt.server)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp, "no se envían credenciales")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMech, mech)
		})
	}
}

func TestRequiredAuth_HostDistinto(t *testing.T) {
	a := newRequiredAuth("relay.local", "nomina", "secreto")
	_, _, err := a.Start(&smtp.ServerInfo{Name: "otro.host", TLS: true, Auth: []string{"PLAIN"}})
	assert.Error(t, err)
}

func TestLoginAuth_Next(t *testing.T) {
	a := &loginAuth{username: "nomina", password: "secreto"}

	user, err := a.Next([]byte("Username:"), true)
	require.NoError(t, err)
	assert.Equal(t, "nomina", string(user))

	pass, err := a.Next([]byte("Password:"), true)
	require.NoError(t, err)
	assert.Equal(t, "secreto", string(pass))

	done, err := a.Next(nil, false)
	require.NoError(t, err)
	assert.Nil(t, done)

	_, err = a.Next([]byte("Otra cosa"), true)
	assert.Error(t, err)
}
