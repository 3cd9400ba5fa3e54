package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/app"
	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/notify"
)

// errMailNotConfigured is returned when SMTP credentials are missing.
var errMailNotConfigured = errors.New("SMTP credentials not configured")

type contactForm struct {
	FullName string `form:"fullName" binding:"required,max=200"`
	Email    string `form:"email" binding:"required,email,max=320"`
	Message  string `form:"message" binding:"required,max=5000"`
}

type mailer interface {
	Send(form contactForm) error
}

// smtpMailer delivers contact messages with PLAIN auth over SMTP.
type smtpMailer struct {
	cfg  config.SMTPConfig
	log  *zap.Logger
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func newSMTPMailer(cfg config.SMTPConfig, log *zap.Logger) *smtpMailer {
	return &smtpMailer{cfg: cfg, log: log, send: smtp.SendMail}
}

// headerSafe drops line breaks so form input cannot add headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func (m *smtpMailer) Send(form contactForm) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return errMailNotConfigured
	}
	to := m.cfg.To
	if to == "" {
		to = m.cfg.User
	}

	name := headerSafe(form.FullName)
	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, headerSafe(form.Email), form.Message)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(form.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{to}, msg); err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}
	m.log.Info("contact email sent", zap.String("name", name))
	return nil
}

// contact sends the form. A live page gets the outcome as a toast; a plain
// form post gets a result page.
func (s *server) contact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		s.contactResult(c, false, ContactInvalid)
		return
	}
	if err := s.mail.Send(form); err != nil {
		s.log.Warn("contact email failed", zap.Error(err))
		s.contactResult(c, false, ContactFailed)
		return
	}
	s.contactResult(c, true, ContactSent)
}

func (s *server) contactResult(c *gin.Context, ok bool, message string) {
	if sess, live := s.sessions.Get(sessionID(c)); live {
		level := notify.Success
		if !ok {
			level = notify.Error
		}
		var u uiUpdate
		if err := sess.Do(func(p *app.App) {
			p.Notify(message, level)
			u = snapshot(p)
		}); err == nil {
			c.JSON(http.StatusOK, u)
			return
		}
	}
	if ok {
		c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": message})
		return
	}
	c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": message})
}
