package libs

import (
	"fmt"
	"html/template"
	"log"
	"strings"

	"bookstore/config"
	"bookstore/models"
	"bookstore/pricing"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer   *gomail.Dialer
	from     string
	currency string
}

func NewEmailService(cfg *config.Config) (*EmailService, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	return &EmailService{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:     cfg.SMTPFrom,
		currency: cfg.PaymentCurrency,
	}, nil
}

var orderConfirmationTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; background-color: #f6f3ee; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #fff; padding: 30px; border-radius: 8px;">
    <h2 style="color: #3b2f2f;">Thank you for your order</h2>
    <p>Order <strong>{{.Number}}</strong> has been received and paid.</p>
    <table style="width: 100%; border-collapse: collapse;">
      {{range .Lines}}
      <tr>
        <td>{{.Title}} &times; {{.Quantity}}</td>
        <td style="text-align: right;">{{.Amount}}</td>
      </tr>
      {{end}}
      <tr><td>Shipping</td><td style="text-align: right;">{{.Shipping}}</td></tr>
      <tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>{{.Total}}</strong></td></tr>
    </table>
    <p style="color: #666; font-size: 12px;">This is an automated email. Please do not reply.</p>
  </div>
</body>
</html>`))

type emailLine struct {
	Title    string
	Quantity int
	Amount   string
}

func (s *EmailService) SendOrderConfirmation(to string, order *models.Order) error {
	lines := make([]emailLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, emailLine{
			Title:    item.Title,
			Quantity: item.Quantity,
			Amount:   pricing.Format(item.LineTotal, s.currency),
		})
	}

	var body strings.Builder
	err := orderConfirmationTemplate.Execute(&body, map[string]interface{}{
		"Number":   order.OrderNumber,
		"Lines":    lines,
		"Shipping": pricing.Format(order.ShippingFee, s.currency),
		"Total":    pricing.Format(order.Total, s.currency),
	})
	if err != nil {
		return fmt.Errorf("render order email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Order Confirmation #%s", order.OrderNumber))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendReceipt(to string, order *models.Order, receipt string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your receipt #%s", order.OrderNumber))
	m.SetBody("text/plain", receipt)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogMailer is used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) SendOrderConfirmation(to string, order *models.Order) error {
	log.Printf("[mail] order confirmation %s for %s (total %d)", order.OrderNumber, to, order.Total)
	return nil
}

func (LogMailer) SendReceipt(to string, order *models.Order, receipt string) error {
	log.Printf("[mail] receipt %s for %s\n%s", order.OrderNumber, to, receipt)
	return nil
}
