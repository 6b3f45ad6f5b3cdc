package services

import (
	"errors"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
)

// EmailService sends the password-reset mail over SMTP. Configuration
// is optional: when incomplete, callers fall back to logging the reset
// link instead of failing the whole flow.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.SMTPHost != "" && s.cfg.SMTPPort != 0 && s.cfg.SMTPUser != "" && s.cfg.SMTPPass != ""
}

func (s *EmailService) from() string {
	if s.cfg.SMTPFrom != "" {
		return s.cfg.SMTPFrom
	}
	return s.cfg.SMTPUser
}

// SendPasswordReset mails the reset link to the user.
func (s *EmailService) SendPasswordReset(to, name, resetURL string) error {
	if !s.IsConfigured() {
		return errors.New("smtp configuration is incomplete: set SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASS")
	}

	displayName := strings.TrimSpace(name)
	if displayName == "" {
		displayName = "deportista"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from())
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Restablece tu contraseña")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\nPara restablecer tu contraseña abre este enlace:\n%s\n\nEl enlace caduca en %d minutos. Si no pediste el cambio, ignora este correo.\n",
		displayName, resetURL, s.cfg.PasswordResetTTLMinutes,
	))
	m.AddAlternative("text/html", fmt.Sprintf(
		`<p>Hola %s,</p><p>Para restablecer tu contraseña pulsa <a href="%s">este enlace</a>.</p><p>El enlace caduca en %d minutos. Si no pediste el cambio, ignora este correo.</p>`,
		displayName, resetURL, s.cfg.PasswordResetTTLMinutes,
	))

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	d.SSL = s.cfg.SMTPPort == 465

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// SMTPErrorHint maps common SMTP failures to an operator-facing
// remediation hint, or "" when nothing specific is recognizable.
func SMTPErrorHint(err error) string {
	if err == nil {
		return ""
	}
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "535") || strings.Contains(message, "authentication"):
		return "El servidor SMTP rechazo las credenciales. Revisa SMTP_USER y SMTP_PASS (con Gmail hace falta una contraseña de aplicacion)."
	case strings.Contains(message, "connection refused") || strings.Contains(message, "no such host"):
		return "No se pudo conectar al servidor SMTP. Revisa SMTP_HOST y SMTP_PORT."
	case strings.Contains(message, "timeout"):
		return "La conexion con el servidor SMTP agoto el tiempo de espera. Puede que el puerto este bloqueado."
	case strings.Contains(message, "incomplete"):
		return "Faltan variables SMTP. Define SMTP_HOST, SMTP_PORT, SMTP_USER y SMTP_PASS."
	default:
		return ""
	}
}
