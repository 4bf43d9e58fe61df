package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/m04kA/SMC-NailSalon/internal/config"
)

// DefaultUserInfoURL адрес OpenID Connect userinfo Google
const DefaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Client вход через Google (OAuth2 authorization code flow)
type Client struct {
	oauth       *oauth2.Config
	userInfoURL string
}

// Option настройка клиента
type Option func(*Client)

// WithEndpoint подменяет адреса OAuth2 и userinfo (для тестов)
func WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) Option {
	return func(c *Client) {
		c.oauth.Endpoint = endpoint
		c.userInfoURL = userInfoURL
	}
}

// NewClient создает клиент по настройкам
func NewClient(cfg config.GoogleConfig, opts ...Option) *Client {
	c := &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userInfoURL: DefaultUserInfoURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthCodeURL адрес страницы согласия Google со значением state
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange обменивает код на токен и возвращает профиль пользователя
func (c *Client) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUserInfo, err)
	}

	resp, err := c.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrUserInfo, resp.StatusCode, string(body))
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUserInfo, err)
	}
	if !info.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return &info, nil
}
