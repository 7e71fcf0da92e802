package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// SMTPConfig содержит параметры SMTP-сервера.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender отправляет письма через SMTP.
type SMTPSender struct {
	dialer    *mail.Dialer
	from      string
	templates *Templates
}

// NewSMTPSender создаёт отправителя писем через указанный SMTP-сервер.
func NewSMTPSender(cfg SMTPConfig, templates *Templates) *SMTPSender {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	d.StartTLSPolicy = mail.OpportunisticStartTLS

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPSender{
		dialer:    d,
		from:      from,
		templates: templates,
	}
}

// Send рендерит шаблон и отправляет письмо. Отмена ctx прерывает ожидание результата.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	body, err := s.templates.Render(msg)
	if err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", body)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("send mail to %s: %w", msg.To, ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", msg.To, err)
		}
		return nil
	}
}

// LogSender пишет письма в лог вместо отправки. Используется, когда SMTP не настроен.
type LogSender struct {
	logger    *zap.Logger
	templates *Templates
	logData   bool
}

// NewLogSender создаёт отправителя, который только логирует письма.
// Данные шаблона (в том числе коды подтверждения) попадают в лог только при logData.
func NewLogSender(logger *zap.Logger, templates *Templates, logData bool) *LogSender {
	return &LogSender{logger: logger, templates: templates, logData: logData}
}

// Send проверяет, что шаблон рендерится, и логирует письмо.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if _, err := s.templates.Render(msg); err != nil {
		return err
	}
	fields := []zap.Field{
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
	}
	if s.logData {
		fields = append(fields, zap.Any("data", msg.Data))
	}
	s.logger.Info("mail not sent: smtp is not configured", fields...)
	return nil
}
