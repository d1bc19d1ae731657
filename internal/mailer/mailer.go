// Package mailer delivers verification and password-reset emails in the
// background so HTTP handlers never block on SMTP.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"sync"

	"github.com/sirupsen/logrus"
)

// Message is a plain-text email to deliver.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender accepts messages for asynchronous delivery.
type Sender interface {
	Enqueue(msg Message)
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Workers  int
	Logger   *logrus.Logger
}

// Mailer delivers messages through a bounded worker pool. Without SMTP
// configuration it logs messages instead of sending them, which keeps local
// development working with no mail server.
type Mailer struct {
	cfg    Config
	queue  chan Message
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg Config) *Mailer {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Mailer{
		cfg:   cfg,
		queue: make(chan Message, 64),
	}
}

func (m *Mailer) Start(ctx context.Context) {
	m.ctx, m.cancel = context.WithCancel(ctx)
	for i := 0; i < m.cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	m.cfg.Logger.Infof("mailer started with %d workers", m.cfg.Workers)
}

func (m *Mailer) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.cfg.Logger.Info("mailer stopped")
}

// Enqueue hands the message to the worker pool. A full queue drops the
// message with a warning rather than blocking the caller; the user can
// request a fresh code.
func (m *Mailer) Enqueue(msg Message) {
	select {
	case m.queue <- msg:
	default:
		m.cfg.Logger.Warnf("mail queue full, dropping message to %s", msg.To)
	}
}

func (m *Mailer) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.ctx.Done():
			return
		case msg := <-m.queue:
			if err := m.deliver(msg); err != nil {
				m.cfg.Logger.Warnf("deliver mail to %s: %v", msg.To, err)
			}
		}
	}
}

func (m *Mailer) deliver(msg Message) error {
	if m.cfg.Host == "" {
		m.cfg.Logger.Infof("mail (log only) to=%s subject=%q body=%q", msg.To, msg.Subject, msg.Body)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, msg.To, msg.Subject, msg.Body)
	return smtp.SendMail(addr, a, m.cfg.From, []string{msg.To}, []byte(payload))
}

var _ Sender = (*Mailer)(nil)
