package reconciler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"dcpstore/internal/apperror"
	"dcpstore/internal/domain"
)

// HTTPBackend is a client of the JSON API. The cookie jar carries the sid
// cookie across calls, exactly like a browser.
type HTTPBackend struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPBackend(baseURL string) (*HTTPBackend, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPBackend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}, nil
}

type apiEnvelope struct {
	Success  bool              `json:"success"`
	Error    string            `json:"error"`
	LoggedIn bool              `json:"loggedIn"`
	User     *domain.User      `json:"user"`
	Cart     []domain.CartLine `json:"cart"`
}

func (b *HTTPBackend) do(method, path string, body any) (*apiEnvelope, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, b.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, apperror.Infra("server unreachable", err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, apperror.Infra("bad server response", err)
	}
	if resp.StatusCode >= 400 {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, apperror.Auth(msg)
		case http.StatusBadRequest:
			return nil, apperror.Validation(msg)
		default:
			return nil, apperror.Infra(msg, nil)
		}
	}
	return &env, nil
}

func (b *HTTPBackend) Session() (domain.SessionState, error) {
	env, err := b.do(http.MethodGet, "/api/session", nil)
	if err != nil {
		return domain.SessionState{}, err
	}
	return domain.SessionState{LoggedIn: env.LoggedIn, User: env.User}, nil
}

func (b *HTTPBackend) Register(username, email, password string) (*domain.User, error) {
	env, err := b.do(http.MethodPost, "/api/register", map[string]string{
		"username": username, "email": email, "password": password,
	})
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (b *HTTPBackend) Login(ident, password string) (*domain.User, error) {
	env, err := b.do(http.MethodPost, "/api/login", map[string]string{
		"username": ident, "password": password,
	})
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (b *HTTPBackend) Logout() error {
	_, err := b.do(http.MethodPost, "/api/logout", nil)
	return err
}

func (b *HTTPBackend) FetchCart() ([]domain.CartLine, error) {
	env, err := b.do(http.MethodGet, "/api/cart", nil)
	if err != nil {
		return nil, err
	}
	return env.Cart, nil
}

func (b *HTTPBackend) AddLine(productID, qty int) error {
	_, err := b.do(http.MethodPost, "/api/cart/add", map[string]int{
		"productId": productID, "quantity": qty,
	})
	return err
}

func (b *HTTPBackend) ReplaceLine(productID, qty int) error {
	_, err := b.do(http.MethodPut, "/api/cart/update", map[string]int{
		"productId": productID, "quantity": qty,
	})
	return err
}

func (b *HTTPBackend) ClearCart() error {
	_, err := b.do(http.MethodDelete, "/api/cart/clear", nil)
	return err
}
