package notifier

import (
	"context"

	"gopkg.in/gomail.v2"

	"internship-watcher/logger"
	apperr "internship-watcher/pkg/errors"
)

// SMTPNotifier delivers notifications over an authenticated mail-submission
// channel as multipart messages with plain-text and HTML alternatives
type SMTPNotifier struct {
	dialer            *gomail.Dialer
	from              string
	recipients        []string
	subscribersCSVURL string
	log               *logger.Logger
}

var _ Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates a notifier for the given submission channel.
// subscribersCSVURL may be empty; when set, recipients published there are
// added to the configured ones on every send.
func NewSMTPNotifier(host string, port int, from, password string, recipients []string, subscribersCSVURL string) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:            gomail.NewDialer(host, port, from, password),
		from:              from,
		recipients:        recipients,
		subscribersCSVURL: subscribersCSVURL,
		log:               logger.ForNotifier(),
	}
}

// Notify builds one message per recipient and sends them over a single
// connection. Exactly one delivery attempt is made; transport failure is
// reported as a delivery error.
func (n *SMTPNotifier) Notify(ctx context.Context, batch Batch) error {
	if len(batch) == 0 {
		return nil
	}

	recipients := n.resolveRecipients()
	if len(recipients) == 0 {
		return apperr.NewDelivery("no recipients resolved", nil)
	}

	htmlPart, err := RenderHTML(batch)
	if err != nil {
		return apperr.NewDelivery("failed to render notification", err)
	}
	textPart := RenderText(batch)
	subject := Subject(batch)

	messages := make([]*gomail.Message, 0, len(recipients))
	for _, rcpt := range recipients {
		m := gomail.NewMessage()
		m.SetHeader("From", n.from)
		m.SetHeader("To", rcpt)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", textPart)
		m.AddAlternative("text/html", htmlPart)
		messages = append(messages, m)
	}

	if err := n.dialer.DialAndSend(messages...); err != nil {
		return apperr.NewDelivery("failed to send notification", err)
	}

	n.log.Info().
		Int("listings", len(batch)).
		Int("recipients", len(recipients)).
		Msg("Notification sent")

	return nil
}

// resolveRecipients merges the configured recipients with the published
// subscriber list, deduplicated. A subscriber fetch failure degrades to the
// configured recipients only.
func (n *SMTPNotifier) resolveRecipients() []string {
	recipients := make([]string, 0, len(n.recipients))
	seen := make(map[string]struct{})

	add := func(addr string) {
		if addr == "" {
			return
		}
		if _, dup := seen[addr]; dup {
			return
		}
		seen[addr] = struct{}{}
		recipients = append(recipients, addr)
	}

	for _, addr := range n.recipients {
		add(addr)
	}

	if n.subscribersCSVURL != "" {
		subscribers, err := FetchSubscribers(n.subscribersCSVURL)
		if err != nil {
			n.log.Warn().Err(err).Msg("Failed to fetch subscribers")
		}
		for _, addr := range subscribers {
			add(addr)
		}
	}

	return recipients
}
