package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout ограничивает одну отправку письма.
const DefaultTimeout = 15 * time.Second

// Dispatcher отправляет письма в фоне. Ошибки отправки только логируются и
// никогда не возвращаются вызывающему.
type Dispatcher struct {
	sender  Sender
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher создаёт диспетчер поверх отправителя.
func NewDispatcher(sender Sender, logger *zap.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		timeout: timeout,
	}
}

// Go запускает отправку письма в отдельной горутине и сразу возвращает управление.
// Отправка не привязана к контексту запроса: ответ клиенту может уйти раньше.
func (d *Dispatcher) Go(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Error("mail dispatch failed",
				zap.Error(err),
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
			)
			return
		}
		d.logger.Debug("mail dispatched", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	}()
}

// Wait дожидается завершения всех запущенных отправок.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
