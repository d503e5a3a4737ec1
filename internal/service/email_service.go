package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/config"
	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
)

var (
	ErrEmailDisabled      = errors.New("email sending is disabled")
	ErrEmailNotConfigured = errors.New("email transport is not configured")
	ErrInvalidEmail       = errors.New("invalid recipient email address")
)

// EmailService sends transactional order emails over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendOrderStatusEmail sends the email matching the order's status.
// Completed orders get the delivery email with time-boxed download
// links; cancelled orders get a cancellation notice.
func (s *EmailService) SendOrderStatusEmail(order *models.Order, grants []models.OrderDesignFile) error {
	switch order.Status {
	case constants.OrderStatusCompleted:
		return s.sendCompletionEmail(order, grants)
	case constants.OrderStatusCancelled:
		return s.sendCancellationEmail(order)
	default:
		subject := fmt.Sprintf("Order %s update", order.OrderNumber)
		body := fmt.Sprintf("Hello %s,\n\nYour order %s is now %s.\n\nPrestige Designs",
			displayName(order), order.OrderNumber, order.Status)
		return s.sendTextEmail(order.CustomerEmail, subject, body)
	}
}

func (s *EmailService) sendCompletionEmail(order *models.Order, grants []models.OrderDesignFile) error {
	var links bytes.Buffer
	for _, grant := range grants {
		name := "design file"
		if grant.DesignFile != nil {
			name = grant.DesignFile.FileName
		}
		links.WriteString(fmt.Sprintf("- %s: %s\n", name, s.downloadURL(grant.Token)))
	}
	expiry := ""
	if order.DeliveryExpiresAt != nil {
		expiry = fmt.Sprintf("\nThe links above expire on %s.\n", order.DeliveryExpiresAt.Format("2006-01-02"))
	}

	subject := fmt.Sprintf("Your order %s is ready", order.OrderNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour order %s is complete. Your files are ready to download:\n\n%s%s\nThank you for shopping with Prestige Designs!",
		displayName(order), order.OrderNumber, links.String(), expiry)
	return s.sendTextEmail(order.CustomerEmail, subject, body)
}

func (s *EmailService) sendCancellationEmail(order *models.Order) error {
	reason := lastHistoryNote(order, constants.OrderStatusCancelled)
	if reason != "" {
		reason = "\n\n" + reason
	}
	subject := fmt.Sprintf("Order %s cancelled", order.OrderNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour order %s has been cancelled.%s\n\nIf you have questions, just reply to this email.\n\nPrestige Designs",
		displayName(order), order.OrderNumber, reason)
	return s.sendTextEmail(order.CustomerEmail, subject, body)
}

func (s *EmailService) downloadURL(token string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/api/design-files/" + token + "/download"
}

func displayName(order *models.Order) string {
	if strings.TrimSpace(order.CustomerName) != "" {
		return order.CustomerName
	}
	return "customer"
}

func lastHistoryNote(order *models.Order, status string) string {
	for i := len(order.History) - 1; i >= 0; i-- {
		if order.History[i].Status == status {
			return order.History[i].Note
		}
	}
	return ""
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
