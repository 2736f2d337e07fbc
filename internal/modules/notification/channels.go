package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"travelhub/internal/domain"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// EmailChannel mails every notification to the recipient's account email.
type EmailChannel struct {
	client SESService
	users  UserLookup
	from   string
}

func NewEmailChannel(client SESService, users UserLookup, from string) *EmailChannel {
	return &EmailChannel{client: client, users: users, from: from}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Deliver(ctx context.Context, n domain.Notification) error {
	u, err := c.users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("lookup recipient %d: %w", n.RecipientID, err)
	}
	if u.Email == "" {
		return nil
	}

	body := n.Message
	if n.ActionURL != "" {
		body += "\n\n" + n.ActionURL
	}
	_, err = c.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{ToAddresses: []string{u.Email}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(n.Title)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(c.from),
	})
	return err
}

// SMSChannel texts account-status notices (related_type agent) to the recipient's phone.
// Everything else is skipped.
type SMSChannel struct {
	client SNSService
	users  UserLookup
}

func NewSMSChannel(client SNSService, users UserLookup) *SMSChannel {
	return &SMSChannel{client: client, users: users}
}

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) Deliver(ctx context.Context, n domain.Notification) error {
	if n.RelatedType != domain.EntityAgent {
		return nil
	}
	u, err := c.users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("lookup recipient %d: %w", n.RecipientID, err)
	}
	phone := strings.TrimSpace(u.Phone)
	if phone == "" {
		return nil
	}
	_, err = c.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(n.Title + ": " + n.Message),
	})
	return err
}

type AWSOptions struct {
	Region       string
	EmailEnabled bool
	SMSEnabled   bool
	SenderEmail  string
}

// NewAWSChannels builds the enabled external channels from the default AWS credential chain.
func NewAWSChannels(ctx context.Context, opts AWSOptions, users UserLookup) ([]Channel, error) {
	if !opts.EmailEnabled && !opts.SMSEnabled {
		return nil, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var out []Channel
	if opts.EmailEnabled {
		out = append(out, NewEmailChannel(ses.NewFromConfig(cfg), users, opts.SenderEmail))
	}
	if opts.SMSEnabled {
		out = append(out, NewSMSChannel(sns.NewFromConfig(cfg), users))
	}
	return out, nil
}
