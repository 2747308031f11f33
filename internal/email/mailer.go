package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/model"
)

// Sender is implemented by the SES mailer and by test fakes.
type Sender interface {
	SendInvite(ctx context.Context, invite *model.GuestInvite, property *model.Property) error
	SendAccessRequestNotice(ctx context.Context, hostEmail string, request *model.AccessRequest, property *model.Property) error
}

// Mailer sends transactional email through Amazon SES. With no from
// address configured it runs disabled: sends are logged and skipped,
// never failed.
type Mailer struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	baseURL   string
	enabled   bool
}

func NewMailer(ctx context.Context, region, fromEmail, fromName, baseURL string) (*Mailer, error) {
	if fromEmail == "" {
		log.Info().Msg("email disabled: EMAIL_FROM not configured")
		return &Mailer{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	log.Info().Str("from", fromEmail).Str("region", region).Msg("email enabled via SES")

	return &Mailer{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
		enabled:   true,
	}, nil
}

func (m *Mailer) Enabled() bool {
	return m.enabled
}

// SendInvite emails a guest their access code and guide link.
func (m *Mailer) SendInvite(ctx context.Context, invite *model.GuestInvite, property *model.Property) error {
	if !m.enabled {
		log.Info().Str("to", invite.GuestEmail).Msg("skipping invite email: mailer disabled")
		return nil
	}

	guideURL := fmt.Sprintf("%s/guide/%s", m.baseURL, property.ID)
	window := invite.Window()

	subject := fmt.Sprintf("Your guide to %s", property.Name)
	textBody := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your host has shared the house guide for %s with you.\n\n"+
			"Access code: %s\n"+
			"Guide: %s\n\n"+
			"Your code works from %s through %s (stay: %s to %s).\n",
		invite.GuestName, property.Name, invite.AccessCode, guideURL,
		window.Start.Format("Jan 2, 2006"), window.End.Format("Jan 2, 2006"),
		invite.CheckInDate.Format("Jan 2, 2006"), invite.CheckOutDate.Format("Jan 2, 2006"),
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your host has shared the house guide for <strong>%s</strong> with you.</p>
<p>Access code: <strong>%s</strong></p>
<p><a href="%s">Open the guide</a></p>
<p>Your code works from %s through %s.</p>`,
		invite.GuestName, property.Name, invite.AccessCode, guideURL,
		window.Start.Format("Jan 2, 2006"), window.End.Format("Jan 2, 2006"),
	)

	return m.send(ctx, invite.GuestEmail, subject, textBody, htmlBody)
}

// SendAccessRequestNotice tells the host a guest asked for access.
func (m *Mailer) SendAccessRequestNotice(ctx context.Context, hostEmail string, request *model.AccessRequest, property *model.Property) error {
	if !m.enabled {
		log.Info().Str("to", hostEmail).Msg("skipping access request notice: mailer disabled")
		return nil
	}

	subject := fmt.Sprintf("Guest access request for %s", property.Name)
	textBody := fmt.Sprintf(
		"%s (%s) requested access to the guide for %s.\n\n"+
			"Message: %s\n\n"+
			"Issue an invite from your dashboard to grant access.\n",
		request.GuestName, request.GuestEmail, property.Name, request.Message,
	)
	htmlBody := fmt.Sprintf(
		`<p><strong>%s</strong> (%s) requested access to the guide for <strong>%s</strong>.</p>
<p>Message: %s</p>
<p>Issue an invite from your dashboard to grant access.</p>`,
		request.GuestName, request.GuestEmail, property.Name, request.Message,
	)

	return m.send(ctx, hostEmail, subject, textBody, htmlBody)
}

func (m *Mailer) send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	from := fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}

	log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
