package notify

import "errors"

var (
	// ErrTemplates возвращается, когда встроенные шаблоны не удалось разобрать
	ErrTemplates = errors.New("notify: invalid templates")

	// ErrUnknownEvent возвращается для события без шаблона
	ErrUnknownEvent = errors.New("notify: unknown event")

	// ErrRender возвращается при ошибке подстановки данных в шаблон
	ErrRender = errors.New("notify: failed to render template")

	// ErrPermanent помечает ошибку доставки, которую бессмысленно повторять
	ErrPermanent = errors.New("notify: permanent delivery failure")

	// ErrQueueFull возвращается, когда очередь доставки переполнена
	ErrQueueFull = errors.New("notify: queue is full")

	// ErrStopped возвращается после остановки диспетчера
	ErrStopped = errors.New("notify: dispatcher stopped")
)
