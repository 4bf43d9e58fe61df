package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/metrics"
	"github.com/m04kA/SMC-NailSalon/pkg/ptr"
)

// Options параметры диспетчера
type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	RetryBase   time.Duration
	Metrics     *metrics.Metrics
	ServiceName string

	// DeliveryTimeout ограничивает одну попытку отправки
	DeliveryTimeout time.Duration
	// DrainTimeout сколько Stop ждет доставки очереди, после чего прерывает повторы
	DrainTimeout time.Duration
}

const (
	defaultDeliveryTimeout = 30 * time.Second
	defaultDrainTimeout    = 30 * time.Second
)

// Dispatcher асинхронно доставляет уведомления через каналы
// Notify не блокирует вызывающего; Stop дожидается отправки всего, что уже в очереди
type Dispatcher struct {
	renderer *Renderer
	channels []Channel
	logs     LogStore
	logger   Logger
	opts     Options

	queue  chan domain.Notification
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	stopped bool
	once    sync.Once
}

// NewDispatcher создает диспетчер; каналы с nil пропускаются
func NewDispatcher(renderer *Renderer, logs LogStore, logger Logger, opts Options, channels ...Channel) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = defaultDeliveryTimeout
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = defaultDrainTimeout
	}

	enabled := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			enabled = append(enabled, ch)
		}
	}

	return &Dispatcher{
		renderer: renderer,
		channels: enabled,
		logs:     logs,
		logger:   logger,
		opts:     opts,
		queue:    make(chan domain.Notification, opts.QueueSize),
	}
}

// Start запускает воркеры
// Отмена ctx не прерывает доставку: очередь дочитывается в Stop
func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx, d.cancel = context.WithCancel(context.WithoutCancel(ctx))
	d.group = &errgroup.Group{}
	for i := 0; i < d.opts.Workers; i++ {
		d.group.Go(func() error {
			for n := range d.queue {
				d.deliver(d.ctx, n)
			}
			return nil
		})
	}
	d.logger.Info("Notification dispatcher started: workers=%d, channels=%d", d.opts.Workers, len(d.channels))
}

// Notify ставит уведомление в очередь
func (d *Dispatcher) Notify(n domain.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- n:
		return nil
	default:
		d.logger.Warn("Notification dropped, queue is full: event=%s, user_id=%d", n.Event, n.Recipient.UserID)
		return ErrQueueFull
	}
}

// Stop закрывает очередь и ждет, пока воркеры доставят оставшиеся уведомления
// По истечении DrainTimeout ожидающие повторы прерываются
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()

		if d.group == nil {
			d.logger.Info("Notification dispatcher stopped")
			return
		}

		done := make(chan struct{})
		go func() {
			_ = d.group.Wait()
			close(done)
		}()

		timer := time.NewTimer(d.opts.DrainTimeout)
		defer timer.Stop()

		select {
		case <-done:
		case <-timer.C:
			d.logger.Warn("Notification dispatcher: drain timeout %s exceeded, aborting pending deliveries", d.opts.DrainTimeout)
			d.cancel()
			<-done
		}
		d.cancel()
		d.logger.Info("Notification dispatcher stopped")
	})
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification) {
	data := make(map[string]string, len(n.Data)+1)
	for k, v := range n.Data {
		data[k] = v
	}
	if _, ok := data["name"]; !ok {
		data["name"] = n.Recipient.Name
	}

	for _, ch := range d.channels {
		address := ch.Address(n.Recipient)
		if address == "" {
			continue
		}

		msg, err := d.renderer.Render(n.Event, ch.Name(), data)
		if err != nil {
			d.logger.Error("Failed to render notification: event=%s, channel=%s, error=%v", n.Event, ch.Name(), err)
			continue
		}

		d.deliverWithRetry(ctx, ch, n, address, msg)
	}
}

func (d *Dispatcher) deliverWithRetry(ctx context.Context, ch Channel, n domain.Notification, address string, msg Message) {
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, d.opts.DeliveryTimeout)
		err := ch.Deliver(attemptCtx, address, msg)
		cancel()
		d.record(n, ch.Name(), address, attempt, err)

		if err == nil {
			return
		}
		if errors.Is(err, ErrPermanent) || attempt == d.opts.MaxAttempts {
			d.logger.Error("Notification delivery failed: event=%s, channel=%s, user_id=%d, attempts=%d, error=%v",
				n.Event, ch.Name(), n.Recipient.UserID, attempt, err)
			return
		}

		// Экспоненциальная задержка: base, 2*base, 4*base...
		delay := d.opts.RetryBase << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Warn("Notification retry aborted: event=%s, channel=%s, user_id=%d", n.Event, ch.Name(), n.Recipient.UserID)
			return
		case <-timer.C:
		}
	}
}

func (d *Dispatcher) record(n domain.Notification, channel domain.Channel, address string, attempt int, deliveryErr error) {
	status := domain.DeliverySent
	var errText *string
	if deliveryErr != nil {
		status = domain.DeliveryFailed
		errText = ptr.Ptr(deliveryErr.Error())
	}

	if d.opts.Metrics != nil {
		d.opts.Metrics.NotificationsTotal.WithLabelValues(d.opts.ServiceName, string(channel), status).Inc()
	}

	if d.logs == nil {
		return
	}

	// Контекст воркера при остановке уже может быть отменен
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := &domain.NotificationLog{
		UserID:    n.Recipient.UserID,
		Event:     n.Event,
		Channel:   channel,
		Recipient: address,
		Status:    status,
		Attempt:   attempt,
		Error:     errText,
	}
	if err := d.logs.Create(ctx, entry); err != nil {
		d.logger.Warn("Failed to write notification log: event=%s, error=%v", n.Event, err)
	}
}
