package mailer

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/frescomar/allocation-api/pkg/config"
)

// Result reports the outcome of a single delivery attempt. Detail carries
// an opaque reference: a message id on success, the transport error text
// otherwise.
type Result struct {
	OK     bool
	Detail string
}

// Mailer delivers one message. Implementations never panic and never
// return an error; failures are represented in the Result.
type Mailer interface {
	Deliver(to, subject, body string) Result
}

// SMTP sends mail through a configured SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTP builds an SMTP-backed mailer.
func NewSMTP(cfg config.SMTPConfig, logger *zap.Logger) *SMTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// Deliver sends the message synchronously.
func (m *SMTP) Deliver(to, subject, body string) Result {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Warn("mail delivery failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return Result{OK: false, Detail: fmt.Sprintf("smtp: %v", err)}
	}

	id := uuid.NewString()
	m.logger.Info("mail delivered",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("message_id", id),
	)
	return Result{OK: true, Detail: id}
}

// Simulator logs the message instead of sending it and always succeeds.
// It is the default transport in development environments.
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator builds a log-only mailer.
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// Deliver records the message and returns a fresh reference id.
func (m *Simulator) Deliver(to, subject, body string) Result {
	m.logger.Info("simulated mail",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return Result{OK: true, Detail: uuid.NewString()}
}
