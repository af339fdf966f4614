package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
)

// SMTPMailer delivers through a plain SMTP relay (Mailpit in
// development, a real relay in production).
type SMTPMailer struct {
	Host string
	Port int
	From string
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := m.Host + ":" + strconv.Itoa(m.Port)
	payload := []byte(
		"From: " + m.From + "\r\n" +
			"To: " + msg.To + "\r\n" +
			"Subject: " + msg.Subject + "\r\n" +
			"\r\n" +
			msg.Body + "\r\n")
	if err := smtp.SendMail(addr, nil, m.From, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("mail: smtp send: %w", err)
	}
	return nil
}
