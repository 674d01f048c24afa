package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"wsid/config"
)

// Mailer sends transactional email. OTP dispatch is awaited by callers, so a
// send failure propagates to the request that triggered it.
type Mailer interface {
	SendOTP(to, otp string) error
}

// SMTPMailer delivers mail over implicit TLS (port 465).
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer builds a mailer from the loaded configuration.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		host:     config.AppConfig.SMTPHost,
		port:     config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPEmail,
		password: config.AppConfig.SMTPPassword,
		from:     config.AppConfig.FromEmail,
	}
}

// SendOTP emails a one-time code to the given address.
func (m *SMTPMailer) SendOTP(to, otp string) error {
	subject := "Your OTP Code"
	body := fmt.Sprintf("Your OTP is: %s", otp)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", m.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.host + ":" + m.port
	tlsConfig := &tls.Config{ServerName: m.host}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return fmt.Errorf("mailer: failed to dial %s: %w", serverAddr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("mailer: failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("mailer: auth failed: %w", err)
	}
	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
