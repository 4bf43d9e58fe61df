package notify

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

//go:embed templates.yaml
var templatesYAML []byte

// Message готовое к отправке сообщение
type Message struct {
	Subject string
	Body    string
}

type templateSource struct {
	Subject  string `yaml:"subject"`
	Email    string `yaml:"email"`
	WhatsApp string `yaml:"whatsapp"`
}

type eventTemplates struct {
	subject  *template.Template
	email    *template.Template
	whatsapp *template.Template
}

// Renderer подставляет данные события в шаблоны каналов
type Renderer struct {
	events map[domain.NotificationEvent]eventTemplates
}

// NewRenderer разбирает встроенный каталог шаблонов
func NewRenderer() (*Renderer, error) {
	return ParseTemplates(templatesYAML)
}

// ParseTemplates разбирает YAML каталог шаблонов
func ParseTemplates(data []byte) (*Renderer, error) {
	var sources map[string]templateSource
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplates, err)
	}

	r := &Renderer{events: make(map[domain.NotificationEvent]eventTemplates, len(sources))}
	for name, src := range sources {
		var (
			et  eventTemplates
			err error
		)
		if et.subject, err = parse(name+".subject", src.Subject); err != nil {
			return nil, err
		}
		if et.email, err = parse(name+".email", src.Email); err != nil {
			return nil, err
		}
		if et.whatsapp, err = parse(name+".whatsapp", src.WhatsApp); err != nil {
			return nil, err
		}
		r.events[domain.NotificationEvent(name)] = et
	}
	return r, nil
}

func parse(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplates, name, err)
	}
	return t, nil
}

// Render сообщение события для канала
func (r *Renderer) Render(event domain.NotificationEvent, channel domain.Channel, data map[string]string) (Message, error) {
	et, ok := r.events[event]
	if !ok {
		return Message{}, fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}

	body := et.email
	if channel == domain.ChannelWhatsApp {
		body = et.whatsapp
	}

	subject, err := execute(et.subject, data)
	if err != nil {
		return Message{}, err
	}
	text, err := execute(body, data)
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: subject, Body: text}, nil
}

func execute(t *template.Template, data map[string]string) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, t.Name(), err)
	}
	return strings.TrimSpace(b.String()), nil
}
