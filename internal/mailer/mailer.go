// Package mailer delivers outbound customer email.
package mailer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"strconv"

	"headstone-api/config"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"go.uber.org/zap"
)

// Message is one plain-text email to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Implementations return the delivery error so
// callers can record it per recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	From() string
}

// New returns an SMTP sender, or a logging sender when no SMTP host is set.
func New(cfg config.EmailConfig, logger *zap.Logger) Sender {
	if cfg.SMTPHost == "" {
		return NewLogSender(cfg.From, logger)
	}
	return NewSMTPSender(cfg, logger)
}

// SMTPSender sends through shoutrrr's smtp:// service.
type SMTPSender struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

func NewSMTPSender(cfg config.EmailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger.Named("mailer")}
}

func (s *SMTPSender) From() string { return s.cfg.From }

// URL builds the shoutrrr service URL for one recipient.
func (s *SMTPSender) URL(to string) string {
	u := url.URL{
		Scheme: "smtp",
		Host:   net.JoinHostPort(s.cfg.SMTPHost, strconv.Itoa(s.cfg.SMTPPort)),
		Path:   "/",
	}
	if s.cfg.SMTPUser != "" {
		u.User = url.UserPassword(s.cfg.SMTPUser, s.cfg.SMTPPassword)
	}
	q := url.Values{}
	q.Set("fromaddress", s.cfg.From)
	q.Set("toaddresses", to)
	if s.cfg.UseTLS {
		q.Set("usestarttls", "yes")
	} else {
		q.Set("usestarttls", "no")
	}
	if s.cfg.SMTPUser == "" {
		q.Set("auth", "None")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sender, err := shoutrrr.CreateSender(s.URL(msg.To))
	if err != nil {
		return fmt.Errorf("failed to create smtp sender: %w", err)
	}
	if s.cfg.Timeout > 0 {
		sender.Timeout = s.cfg.Timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))

	params := stypes.Params{}
	params.SetTitle(msg.Subject)
	for _, e := range sender.Send(msg.Body, &params) {
		if e != nil {
			s.logger.Warn("Email delivery failed", zap.String("to", msg.To), zap.Error(e))
			return e
		}
	}
	s.logger.Debug("Email sent", zap.String("to", msg.To))
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	from   string
	logger *zap.Logger
}

func NewLogSender(from string, logger *zap.Logger) *LogSender {
	return &LogSender{from: from, logger: logger.Named("mailer")}
}

func (s *LogSender) From() string { return s.from }

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("Email (log backend)",
		zap.String("from", s.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = (*LogSender)(nil)
)
