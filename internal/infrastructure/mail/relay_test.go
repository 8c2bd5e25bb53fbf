package mail_test

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comisiones/internal/infrastructure/mail"
	"github.com/jhoicas/comisiones/pkg/config"
)

// startRelay levanta un relay SMTP en loopback que responde a EHLO con las
// extensiones dadas. Devuelve el puerto y un canal con los comandos recibidos.
func startRelay(t *testing.T, extensions ...string) (int, <-chan []string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	transcript := make(chan []string, 1)
	go func() {
		var lines []string
		defer func() { transcript <- lines }()

		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

		w := bufio.NewWriter(conn)
		reply := func(s string) {
			_, _ = w.WriteString(s + "\r\n")
			_ = w.Flush()
		}
		reply("220 relay.local ESMTP")

		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\r\n")
			lines = append(lines, line)

			switch cmd := strings.ToUpper(strings.SplitN(line, " ", 2)[0]); cmd {
			case "EHLO":
				if len(extensions) == 0 {
					reply("250 relay.local")
					continue
				}
				reply("250-relay.local")
				for i, ext := range extensions {
					if i == len(extensions)-1 {
						reply("250 " + ext)
					} else {
						reply("250-" + ext)
					}
				}
			case "AUTH":
				reply("334 VXNlcm5hbWU6")
			case "QUIT":
				reply("221 bye")
				return
			default:
				reply("250 ok")
			}
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port, transcript
}

func sendThroughRelay(t *testing.T, port int) error {
	t.Helper()
	path, _ := attachment(t)
	n := mail.NewNotifier(config.SMTPConfig{
		Server:      "127.0.0.1",
		Port:        port,
		SenderEmail: "nomina@example.com",
		User:        "nomina",
		Password:    "secreto",
	})
	return n.Send(context.Background(), mail.Message{
		From:        "nomina@example.com",
		To:          []string{"jefe@example.com"},
		Subject:     "Comisiones",
		BodyHTML:    "<p>Adjunto</p>",
		Attachments: []string{path},
	})
}

func receive(t *testing.T, transcript <-chan []string) []string {
	t.Helper()
	select {
	case lines := <-transcript:
		return lines
	case <-time.After(5 * time.Second):
		t.Fatal("el relay no terminó la sesión")
		return nil
	}
}

func TestNewNotifier_RelaySinCifradoFalla(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
	}{
		{name: "solo AUTH LOGIN", extensions: []string{"AUTH LOGIN"}},
		{name: "AUTH PLAIN y LOGIN", extensions: []string{"8BITMIME", "AUTH PLAIN LOGIN"}},
		{name: "sin AUTH", extensions: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, transcript := startRelay(t, tt.extensions...)

			err := sendThroughRelay(t, port)
			require.Error(t, err)
			assert.ErrorIs(t, err, mail.ErrInsecureRelay)

			for _, line := range receive(t, transcript) {
				upper := strings.ToUpper(line)
				assert.False(t, strings.HasPrefix(upper, "AUTH"), "no se envían credenciales: %q", line)
				assert.False(t, strings.HasPrefix(upper, "MAIL FROM"), "no se entrega el mensaje: %q", line)
				assert.False(t, strings.HasPrefix(upper, "DATA"), "no se entrega el mensaje: %q", line)
			}
		})
	}
}
