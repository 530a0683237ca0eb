package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (c *SMTPConfig) Validate() error {
	if c.Host == "" || c.Port == 0 {
		return fmt.Errorf("smtp host and port are required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config *SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig) (*SMTPProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SMTPProvider{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}, nil
}

func (p *SMTPProvider) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) SendWelcome(to, fullName string) error {
	body := renderWelcome(fullName)
	return p.send(to, "Welcome to CraftFolio", body)
}

func (p *SMTPProvider) SendContactNotification(adminEmail, fromName, fromEmail, message string) error {
	body := renderContactNotification(fromName, fromEmail, message)
	return p.send(adminEmail, "New contact message", body)
}
