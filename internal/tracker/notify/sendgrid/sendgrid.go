// Package sendgrid sends notification email through the SendGrid v3 API.
package sendgrid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/castrack/internal/tracker/notify"
	sg "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	DefaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

type Sender struct {
	key  string
	host string
	from *sgmail.Email
}

var _ notify.Sender = (*Sender)(nil)

// New builds a sender. An empty host means DefaultHost.
func New(key, host, fromName, fromEmail string) *Sender {
	if host == "" {
		host = DefaultHost
	}
	return &Sender{
		key:  key,
		host: host,
		from: sgmail.NewEmail(fromName, fromEmail),
	}
}

func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	if msg.To == "" {
		return notify.ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Body))

	req := sg.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sg.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: send: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
