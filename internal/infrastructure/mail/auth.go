package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"slices"
	"strings"
)

var (
	// ErrInsecureRelay el canal con el relay no está cifrado (ni TLS implícito ni STARTTLS).
	ErrInsecureRelay = errors.New("mail: el relay no ofrece un canal cifrado")
	// ErrAuthUnavailable el relay no anuncia un mecanismo AUTH utilizable.
	ErrAuthUnavailable = errors.New("mail: el relay no anuncia AUTH PLAIN ni LOGIN")
)

// requiredAuth exige canal cifrado y autenticación antes de entregar el correo.
// Se asigna a gomail.Dialer.Auth para que el dialer siempre invoque AUTH: si el
// relay no ofreció STARTTLS o no anuncia AUTH, la conexión se corta sin enviar
// credenciales ni mensaje.
type requiredAuth struct {
	host     string
	username string
	password string
	mech     smtp.Auth
}

func newRequiredAuth(host, username, password string) *requiredAuth {
	return &requiredAuth{host: host, username: username, password: password}
}

func (a *requiredAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, ErrInsecureRelay
	}
	if server.Name != a.host {
		return "", nil, fmt.Errorf("mail: host inesperado %q", server.Name)
	}
	switch {
	case slices.Contains(server.Auth, "PLAIN"):
		a.mech = smtp.PlainAuth("", a.username, a.password, a.host)
	case slices.Contains(server.Auth, "LOGIN"):
		a.mech = &loginAuth{username: a.username, password: a.password}
	default:
		return "", nil, ErrAuthUnavailable
	}
	return a.mech.Start(server)
}

func (a *requiredAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if a.mech == nil {
		return nil, ErrAuthUnavailable
	}
	return a.mech.Next(fromServer, more)
}

// loginAuth implementa AUTH LOGIN (no incluido en net/smtp).
type loginAuth struct {
	username string
	password string
}

func (a *loginAuth) Start(*smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	switch prompt := strings.ToLower(strings.TrimSpace(string(fromServer))); {
	case strings.HasPrefix(prompt, "username"):
		return []byte(a.username), nil
	case strings.HasPrefix(prompt, "password"):
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("mail: respuesta AUTH LOGIN inesperada %q", fromServer)
	}
}
