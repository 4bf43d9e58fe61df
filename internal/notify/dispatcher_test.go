package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/integrations/whatsapp"
	"github.com/m04kA/SMC-NailSalon/pkg/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type memLogStore struct {
	mu   sync.Mutex
	logs []domain.NotificationLog
}

func (s *memLogStore) Create(_ context.Context, l *domain.NotificationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *l)
	return nil
}

func (s *memLogStore) all() []domain.NotificationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.NotificationLog(nil), s.logs...)
}

type fakeEmail struct {
	mu       sync.Mutex
	failures int
	sent     []string
}

func (f *fakeEmail) Send(_ context.Context, to, subject, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp: 421 try again")
	}
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

type fakeWhatsApp struct {
	err error
}

func (f *fakeWhatsApp) SendText(context.Context, string, string) (string, error) {
	return "", f.err
}

func newNotification(email, phone string) domain.Notification {
	return domain.Notification{
		Event:     domain.EventAppointmentCreated,
		Recipient: domain.Recipient{UserID: 7, Name: "Anna", Email: email, Phone: phone},
		Data:      map[string]string{"salon": "Nails", "service": "Gel", "date": "02.11.2026", "time": "10:00"},
	}
}

func TestDispatcher_RetriesUntilDelivered(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	store := &memLogStore{}
	mail := &fakeEmail{failures: 2}
	m := metrics.New("test")
	d := NewDispatcher(renderer, store, nopLogger{}, Options{
		Workers: 2, QueueSize: 8, MaxAttempts: 3, RetryBase: time.Millisecond, Metrics: m, ServiceName: "test",
	}, NewEmailChannel(mail), nil)

	d.Start(context.Background())
	require.NoError(t, d.Notify(newNotification("anna@example.com", "")))
	d.Stop()

	require.Equal(t, []string{"anna@example.com|Nails: запись создана"}, mail.sent)

	logs := store.all()
	require.Len(t, logs, 3)
	assert.Equal(t, domain.DeliveryFailed, logs[0].Status)
	assert.Equal(t, domain.DeliveryFailed, logs[1].Status)
	assert.Equal(t, domain.DeliverySent, logs[2].Status)
	assert.Equal(t, 3, logs[2].Attempt)
	assert.Equal(t, int64(7), logs[2].UserID)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("test", "email", domain.DeliveryFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("test", "email", domain.DeliverySent)))
}

func TestDispatcher_PermanentFailureIsNotRetried(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	store := &memLogStore{}
	wa := &fakeWhatsApp{err: whatsapp.ErrRejected}
	d := NewDispatcher(renderer, store, nopLogger{}, Options{MaxAttempts: 5, RetryBase: time.Millisecond},
		NewWhatsAppChannel(wa), NewEmailChannel(&fakeEmail{}))

	d.Start(context.Background())
	// без email канал email пропускается
	require.NoError(t, d.Notify(newNotification("", "+79001234567")))
	d.Stop()

	logs := store.all()
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ChannelWhatsApp, logs[0].Channel)
	assert.Equal(t, domain.DeliveryFailed, logs[0].Status)
	require.NotNil(t, logs[0].Error)
	assert.Contains(t, *logs[0].Error, "rejected")
}

func TestDispatcher_QueueFullAndStopped(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	mail := &fakeEmail{}
	d := NewDispatcher(renderer, nil, nopLogger{}, Options{QueueSize: 1}, NewEmailChannel(mail))

	// воркеры не запущены: второе уведомление не помещается
	require.NoError(t, d.Notify(newNotification("anna@example.com", "")))
	assert.ErrorIs(t, d.Notify(newNotification("olga@example.com", "")), ErrQueueFull)

	d.Start(context.Background())
	d.Stop()
	d.Stop()

	assert.Len(t, mail.sent, 1)
	assert.ErrorIs(t, d.Notify(newNotification("anna@example.com", "")), ErrStopped)
}

// ctxEmail отправляет письмо только при живом контексте, как SMTP клиент
type ctxEmail struct {
	mu   sync.Mutex
	sent int
}

func (f *ctxEmail) Send(ctx context.Context, _, _, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent++
	return nil
}

func TestDispatcher_DrainsQueueAfterStartContextCancelled(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	store := &memLogStore{}
	mail := &ctxEmail{}
	d := NewDispatcher(renderer, store, nopLogger{}, Options{QueueSize: 8, MaxAttempts: 2, RetryBase: time.Millisecond},
		NewEmailChannel(mail))

	// Порядок остановки сервера: сначала отменяется общий контекст, затем Stop
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Notify(newNotification("anna@example.com", "")))
	}
	d.Stop()

	assert.Equal(t, 5, mail.sent)
	logs := store.all()
	require.Len(t, logs, 5)
	for _, l := range logs {
		assert.Equal(t, domain.DeliverySent, l.Status)
	}
}

func TestDispatcher_DrainTimeoutAbortsRetries(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	store := &memLogStore{}
	mail := &fakeEmail{failures: 10}
	d := NewDispatcher(renderer, store, nopLogger{}, Options{
		MaxAttempts: 10, RetryBase: time.Hour, DrainTimeout: 20 * time.Millisecond,
	}, NewEmailChannel(mail))

	d.Start(context.Background())
	require.NoError(t, d.Notify(newNotification("anna@example.com", "")))

	require.Eventually(t, func() bool { return len(store.all()) == 1 }, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after drain timeout")
	}
	assert.Len(t, store.all(), 1)
}
