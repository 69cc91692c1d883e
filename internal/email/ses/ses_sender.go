package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"budgetbuddy/internal/port"
)

// sendEmailAPI is the slice of the SES client the sender uses.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      sendEmailAPI
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newSender(sesv2.NewFromConfig(cfg), fromAddress, fromName, frontendURL), nil
}

func newSender(client sendEmailAPI, fromAddress, fromName, frontendURL string) *sesSender {
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}
}

func (s *sesSender) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	subject := "Welcome to BudgetBuddy"
	htmlBody := buildWelcomeHTML(toName, s.frontendURL)
	textBody := fmt.Sprintf("Hi %s,\n\nYour BudgetBuddy account is ready. Tell the chat what you spent, for example \"$4.50 coffee this morning\", and it will file the expense for you.\n\nStart here: %s\n\nBudgetBuddy", toName, s.frontendURL)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildWelcomeHTML(name, appURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Welcome to BudgetBuddy</h2>
  <p>Hi %s,</p>
  <p>Your account is ready. Tell the chat what you spent and it will sort the expense into a category for you.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #16A34A; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Log your first expense</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">BudgetBuddy - expense tracking for students</p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(appURL))
}
