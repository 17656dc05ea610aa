package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/storefront/internal/order"
)

// Service sends storefront mail over SMTP.
type Service struct {
	host string
	port string
	from string
	auth smtp.Auth
}

// NewService builds the service. user/password may be empty for an
// unauthenticated relay (local dev, mailhog).
func NewService(host, port, from, user, password string) *Service {
	var a smtp.Auth
	if user != "" {
		a = smtp.PlainAuth("", user, password, host)
	}
	return &Service{host: host, port: port, from: from, auth: a}
}

// SendOrderConfirmation mails the order summary to the shop's orders inbox.
func (s *Service) SendOrderConfirmation(to string, placed order.Placed) error {
	subject := fmt.Sprintf("New order #%d", placed.OrderID)
	body, err := BuildOrderConfirmationBody(placed)
	if err != nil {
		return fmt.Errorf("build confirmation body: %w", err)
	}
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, []string{to}, []byte(msg))
}
