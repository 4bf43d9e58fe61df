package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

func TestRenderer_AllEventsHaveTemplates(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	events := []domain.NotificationEvent{
		domain.EventAppointmentCreated,
		domain.EventAppointmentConfirmed,
		domain.EventAppointmentCancelled,
		domain.EventWaitlistSlot,
		domain.EventAppointmentReminder,
	}
	data := map[string]string{"salon": "Nails", "name": "Anna", "service": "Gel", "date": "02.11.2026", "time": "10:00", "expires": "11:00"}

	for _, event := range events {
		for _, ch := range []domain.Channel{domain.ChannelEmail, domain.ChannelWhatsApp} {
			msg, err := r.Render(event, ch, data)
			require.NoError(t, err, "%s/%s", event, ch)
			assert.NotEmpty(t, msg.Subject)
			assert.Contains(t, msg.Body, "10:00")
			assert.NotContains(t, msg.Body, "<no value>")
		}
	}
}

func TestRenderer_OptionalFields(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data := map[string]string{"salon": "Nails", "name": "Anna", "service": "Gel", "date": "02.11.2026", "time": "10:00"}
	msg, err := r.Render(domain.EventAppointmentCancelled, domain.ChannelWhatsApp, data)
	require.NoError(t, err)
	assert.NotContains(t, msg.Body, "Причина")

	data["reason"] = "мастер заболел"
	msg, err = r.Render(domain.EventAppointmentCancelled, domain.ChannelEmail, data)
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Причина: мастер заболел.")
	assert.Equal(t, "Nails: запись отменена", msg.Subject)
}

func TestRenderer_Errors(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render("unknown_event", domain.ChannelEmail, nil)
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = ParseTemplates([]byte("broken:\n  subject: \"{{.x\"\n"))
	assert.ErrorIs(t, err, ErrTemplates)

	_, err = ParseTemplates([]byte("- not a map"))
	assert.ErrorIs(t, err, ErrTemplates)
}

func TestRenderer_AdminAudience(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data := map[string]string{"salon": "Nails", "name": "Admin", "service": "Gel", "date": "02.11.2026", "time": "10:00", "client": "Anna"}
	msg, err := r.Render(domain.EventAppointmentCreated, domain.ChannelEmail, data)
	require.NoError(t, err)
	assert.Equal(t, "Nails: новая запись", msg.Subject)
	assert.Contains(t, msg.Body, "Новая запись: Anna")
	assert.NotContains(t, msg.Body, "До встречи")

	delete(data, "client")
	msg, err = r.Render(domain.EventAppointmentCreated, domain.ChannelEmail, data)
	require.NoError(t, err)
	assert.Equal(t, "Nails: запись создана", msg.Subject)
	assert.Contains(t, msg.Body, "До встречи в Nails!")
}
