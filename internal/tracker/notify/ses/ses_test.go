package ses_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/castrack/internal/tracker/notify"
	"github.com/aussiebroadwan/castrack/internal/tracker/notify/ses"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	in  *sesv2.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSenderBuildsSimpleMessage(t *testing.T) {
	api := &fakeSES{}
	s := ses.NewWithClient(api, "noreply@fountainheadschools.org")

	err := s.Send(context.Background(), notify.Message{To: "a@x.org", Subject: "Hello", Body: "Body"})
	require.NoError(t, err)

	require.Equal(t, "noreply@fountainheadschools.org", aws.ToString(api.in.FromEmailAddress))
	require.Equal(t, []string{"a@x.org"}, api.in.Destination.ToAddresses)
	require.Equal(t, "Hello", aws.ToString(api.in.Content.Simple.Subject.Data))
	require.Equal(t, "Body", aws.ToString(api.in.Content.Simple.Body.Text.Data))
}

func TestSenderWrapsErrors(t *testing.T) {
	boom := errors.New("throttled")
	s := ses.NewWithClient(&fakeSES{err: boom}, "noreply@x.org")

	err := s.Send(context.Background(), notify.Message{To: "a@x.org"})
	require.ErrorIs(t, err, boom)

	require.ErrorIs(t, s.Send(context.Background(), notify.Message{}), notify.ErrNoRecipient)
}
