// Package mail sends outbound email through named SMTP transports.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"

	"bookingapi/internal/config"
	"bookingapi/internal/logging"
)

// Transport names.
const (
	TransportNoReply = "noreply"
	TransportSupport = "support"
)

var (
	ErrUnknownTransport = errors.New("mail: unknown transport")
	ErrNoRecipients     = errors.New("mail: no recipients")
)

// Sender delivers prepared messages. *gomail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Message is a single outbound email. At least one of Text and HTML should be set.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

// Transport binds a sender to the address it sends from.
type Transport struct {
	Name   string
	From   string
	Sender Sender
}

// Mailer routes messages to a transport by name.
type Mailer struct {
	transports map[string]Transport
	log        *logrus.Entry
}

// New builds one SMTP client per configured account. An account without a From
// address is skipped, and so is everything when no host is configured.
func New(cfg config.MailConfig, log logrus.FieldLogger) (*Mailer, error) {
	entry := logging.Component(log, "mail")
	if cfg.Host == "" {
		entry.Warn("mail_disabled")
		return NewMailer(log), nil
	}

	accounts := []struct {
		name    string
		account config.SMTPAccount
	}{
		{TransportNoReply, cfg.NoReply},
		{TransportSupport, cfg.Support},
	}

	var transports []Transport
	for _, a := range accounts {
		if a.account.From == "" {
			entry.WithField("transport", a.name).Warn("mail_transport_skipped")
			continue
		}
		client, err := newClient(cfg.Host, cfg.Port, a.account)
		if err != nil {
			return nil, fmt.Errorf("mail transport %s: %w", a.name, err)
		}
		transports = append(transports, Transport{Name: a.name, From: a.account.From, Sender: client})
	}
	return NewMailer(log, transports...), nil
}

func newClient(host string, port int, acc config.SMTPAccount) (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if acc.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(acc.User),
			gomail.WithPassword(acc.Password),
		)
	}
	return gomail.NewClient(host, opts...)
}

// NewMailer wires already-built transports.
func NewMailer(log logrus.FieldLogger, transports ...Transport) *Mailer {
	m := &Mailer{
		transports: make(map[string]Transport, len(transports)),
		log:        logging.Component(log, "mail"),
	}
	for _, t := range transports {
		m.transports[t.Name] = t
	}
	return m
}

// HasTransport reports whether name is configured.
func (m *Mailer) HasTransport(name string) bool {
	_, ok := m.transports[name]
	return ok
}

// Send delivers msg through the named transport. The From address is the transport's.
func (m *Mailer) Send(ctx context.Context, transport string, msg Message) error {
	t, ok := m.transports[transport]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTransport, transport)
	}
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	gm, err := build(t.From, msg)
	if err != nil {
		return err
	}

	log := m.log.WithFields(logrus.Fields{"transport": transport, "recipients": len(msg.To)})
	if err := t.Sender.DialAndSendWithContext(ctx, gm); err != nil {
		log.WithError(err).Error("mail_send_failed")
		return fmt.Errorf("send via %s: %w", transport, err)
	}
	log.Info("mail_sent")
	return nil
}

func build(from string, msg Message) (*gomail.Msg, error) {
	gm := gomail.NewMsg()
	if err := gm.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := gm.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := gm.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to address: %w", err)
		}
	}
	gm.Subject(msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		gm.SetBodyString(gomail.TypeTextPlain, msg.Text)
		gm.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		gm.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		gm.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	return gm, nil
}
