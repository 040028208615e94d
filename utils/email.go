package utils

import (
	"fmt"
	"log"
	"medirural/models"
	"os"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance. When
// POSTMARK_API_TOKEN is not configured it returns nil; callers treat a nil
// service as email notifications disabled.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("POSTMARK_API_TOKEN is not set; email notifications disabled")
		return nil
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation - MediRural"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your order (ID: %s). It has been placed successfully and is being processed.<br><br>Total Amount: <strong>₹%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with MediRural!",
		order.Shipping.Name,
		order.ID.Hex(),
		order.TotalAmount,
		order.PaymentDetails.PaymentMethod,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendRenewalEmail notifies the user that a subscription delivery was scheduled
func (es *EmailService) SendRenewalEmail(toEmail string, order models.Order) error {
	subject := "Subscription Renewed - MediRural"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your %s subscription has been renewed. A new order (ID: %s) has been placed and the next delivery is scheduled for <strong>%s</strong>.<br><br>Thank you for shopping with MediRural!",
		order.Shipping.Name,
		order.SubscriptionDetails.Frequency,
		order.ID.Hex(),
		order.SubscriptionDetails.NextDeliveryDate.Format("2006-01-02"),
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
