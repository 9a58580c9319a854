// Package ses sends notification email through Amazon SES v2.
package ses

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/castrack/internal/tracker/notify"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// API is the part of the SES client the sender uses.
type API interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type Sender struct {
	client API
	from   string
}

var _ notify.Sender = (*Sender)(nil)

// New builds a sender from the default AWS credential chain.
func New(ctx context.Context, region, from string) (*Sender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}
	return NewWithClient(sesv2.NewFromConfig(cfg), from), nil
}

func NewWithClient(client API, from string) *Sender {
	return &Sender{client: client, from: from}
}

func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	if msg.To == "" {
		return notify.ErrNoRecipient
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses: send email: %w", err)
	}
	return nil
}
