// Package mailer implementa el puerto de correo saliente sobre SMTP (gomail).
// Con SMTP_HOST vacío cae a modo log: los correos se registran en vez de
// enviarse, útil en desarrollo y en los tests de integración.
package mailer

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/dulceria-lilis/erp-api/internal/application/ports"
	"github.com/dulceria-lilis/erp-api/pkg/config"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer despacha correos vía SMTP.
type SMTPMailer struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// New construye el mailer con la configuración SMTP.
func New(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// SendInvite envía las credenciales temporales y el código de verificación de
// un usuario recién creado.
func (m *SMTPMailer) SendInvite(ctx context.Context, to, fullName, username, tempPassword, inviteCode string) error {
	subject := "Tu acceso a Dulcería Lilis ERP"
	body := fmt.Sprintf(
		"Hola %s,\n\n"+
			"Se te ha creado un acceso al ERP.\n\n"+
			"Usuario: %s\n"+
			"Contraseña temporal: %s\n"+
			"Código de verificación: %s\n\n"+
			"Al iniciar sesión, se te pedirá cambiar tu contraseña y deberás ingresar ese código.\n\n"+
			"Saludos,\nEquipo ERP",
		fullName, username, tempPassword, inviteCode,
	)
	return m.send(ctx, to, subject, body)
}

// SendPasswordReset envía el token de restablecimiento de contraseña.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, fullName, token string) error {
	subject := "Restablecimiento de contraseña - Dulcería Lilis ERP"
	body := fmt.Sprintf(
		"Hola %s,\n\n"+
			"Recibimos una solicitud para restablecer tu contraseña.\n\n"+
			"Token de restablecimiento: %s\n\n"+
			"El token vence en 30 minutos. Si no lo solicitaste, ignora este correo.\n\n"+
			"Saludos,\nEquipo ERP",
		fullName, token,
	)
	return m.send(ctx, to, subject, body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if m.cfg.Host == "" {
		// Modo log: sin SMTP configurado no se despacha nada.
		m.log.Info().Str("to", to).Str("subject", subject).Msg("mailer: SMTP no configurado, correo solo registrado")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	m.log.Info().Str("to", to).Str("subject", subject).Msg("mailer: correo despachado")
	return nil
}
