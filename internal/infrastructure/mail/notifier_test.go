package mail_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	appcommission "github.com/jhoicas/comisiones/internal/application/commission"
	"github.com/jhoicas/comisiones/internal/infrastructure/mail"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func attachment(t *testing.T) (string, []byte) {
	t.Helper()
	data := []byte("PK\x03\x04 contenido binario \x00\xff")
	path := filepath.Join(t.TempDir(), "comisiones_202505.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, data
}

func TestSend_MensajeMultipart(t *testing.T) {
	path, data := attachment(t)
	d := &fakeDialer{}

	err := mail.NewNotifierWithDialer(d).Send(context.Background(), mail.Message{
		From:        "nomina@example.com",
		To:          []string{"jefe@example.com", "rrhh@example.com"},
		Subject:     "Comisiones del periodo",
		BodyHTML:    "<h1>Reporte</h1>",
		Attachments: []string{path},
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"nomina@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"jefe@example.com", "rrhh@example.com"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "multipart/mixed")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "<h1>Reporte</h1>")
	assert.Contains(t, raw, `filename="comisiones_202505.xlsx"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString(data))
}

func TestSend_ErrorDelRelaySePropaga(t *testing.T) {
	path, _ := attachment(t)
	d := &fakeDialer{err: errors.New("535 authentication failed")}

	err := mail.NewNotifierWithDialer(d).Send(context.Background(), mail.Message{
		From: "a@example.com", To: []string{"b@example.com"}, Attachments: []string{path},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
}

func TestBuildMessage_Validaciones(t *testing.T) {
	tests := []struct {
		name string
		msg  mail.Message
	}{
		{name: "sin remitente", msg: mail.Message{To: []string{"b@example.com"}}},
		{name: "sin destinatarios", msg: mail.Message{From: "a@example.com"}},
		{name: "adjunto inexistente", msg: mail.Message{
			From: "a@example.com", To: []string{"b@example.com"},
			Attachments: []string{filepath.Join(t.TempDir(), "no-existe.xlsx")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mail.BuildMessage(tt.msg)
			assert.Error(t, err)
		})
	}
}

func TestSend_NoEnviaSiFallaElAdjunto(t *testing.T) {
	d := &fakeDialer{}
	err := mail.NewNotifierWithDialer(d).Send(context.Background(), mail.Message{
		From: "a@example.com", To: []string{"b@example.com"},
		Attachments: []string{filepath.Join(t.TempDir(), "falta.xlsx")},
	})
	require.Error(t, err)
	assert.Empty(t, d.sent)
}

func TestNotify_AdaptaElCorreoDelCasoDeUso(t *testing.T) {
	path, _ := attachment(t)
	d := &fakeDialer{}

	err := mail.NewNotifierWithDialer(d).Notify(context.Background(), appcommission.Email{
		From:        "nomina@example.com",
		To:          []string{"jefe@example.com"},
		Subject:     "Comisiones 202505",
		BodyHTML:    "<p>ok</p>",
		Attachments: []string{path},
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"jefe@example.com"}, d.sent[0].GetHeader("To"))
}
