package events

import (
	"context"
	"errors"
	"fmt"
)

// Publisher доставляет события подписчикам
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Noop ничего не отправляет
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Multi рассылает событие всем издателям; ошибка одного не мешает остальным
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", ev.Type, err))
		}
	}
	return errors.Join(errs...)
}
