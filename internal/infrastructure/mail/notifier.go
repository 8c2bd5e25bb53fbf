// Package mail envía el reporte de comisiones por SMTP autenticado.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"

	"gopkg.in/gomail.v2"

	appcommission "github.com/jhoicas/comisiones/internal/application/commission"
	"github.com/jhoicas/comisiones/pkg/config"
)

var _ appcommission.Notifier = (*Notifier)(nil)

// Message contenido del correo a enviar.
type Message struct {
	From        string
	To          []string
	Subject     string
	BodyHTML    string
	Attachments []string // rutas de archivo; se adjuntan en base64 con su nombre base
}

// Dialer abstrae el envío SMTP (gomail.Dialer en producción).
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Notifier envía mensajes a través de un relay SMTP.
type Notifier struct {
	dialer Dialer
}

// NewNotifier construye el notificador para el relay configurado.
// Puerto 465: TLS implícito; cualquier otro: STARTTLS. Sin canal cifrado o sin AUTH
// en el relay el envío falla antes de mandar credenciales (ver requiredAuth).
func NewNotifier(cfg config.SMTPConfig) *Notifier {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Port == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.Server, MinVersion: tls.VersionTLS12}
	d.Auth = newRequiredAuth(cfg.Server, cfg.User, cfg.Password)
	return &Notifier{dialer: d}
}

// NewNotifierWithDialer permite inyectar otro Dialer (tests).
func NewNotifierWithDialer(d Dialer) *Notifier {
	return &Notifier{dialer: d}
}

// Send arma el mensaje y lo entrega. Cualquier error (adjunto, red, autenticación) se propaga.
func (n *Notifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := BuildMessage(msg)
	if err != nil {
		return err
	}
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar a %v: %w", msg.To, err)
	}
	return nil
}

// Notify implementa appcommission.Notifier.
func (n *Notifier) Notify(ctx context.Context, email appcommission.Email) error {
	return n.Send(ctx, Message{
		From:        email.From,
		To:          email.To,
		Subject:     email.Subject,
		BodyHTML:    email.BodyHTML,
		Attachments: email.Attachments,
	})
}

// BuildMessage construye el mensaje multipart: cuerpo HTML + adjuntos.
func BuildMessage(msg Message) (*gomail.Message, error) {
	if msg.From == "" {
		return nil, errors.New("mail: remitente vacío")
	}
	if len(msg.To) == 0 {
		return nil, errors.New("mail: sin destinatarios")
	}
	for _, path := range msg.Attachments {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("mail: adjunto %s: %w", path, err)
		}
	}

	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.BodyHTML)
	for _, path := range msg.Attachments {
		m.Attach(path)
	}
	return m, nil
}
