package reconciler

import (
	"dcpstore/internal/apperror"
	"dcpstore/internal/domain"
	"dcpstore/internal/services"
)

// DirectBackend drives the services in-process with a fixed sid, the same
// way the HTTP layer does for one client. Every cart operation re-checks
// the session, matching the API's auth gate.
type DirectBackend struct {
	Auth *services.AuthService
	Cart *services.CartService
	SID  string
}

func NewDirectBackend(auth *services.AuthService, cart *services.CartService, sid string) *DirectBackend {
	return &DirectBackend{Auth: auth, Cart: cart, SID: sid}
}

func (b *DirectBackend) Session() (domain.SessionState, error) {
	return b.Auth.CurrentSession(b.SID), nil
}

func (b *DirectBackend) Register(username, email, password string) (*domain.User, error) {
	return b.Auth.Register(b.SID, username, email, password)
}

func (b *DirectBackend) Login(ident, password string) (*domain.User, error) {
	return b.Auth.Login(b.SID, ident, password)
}

func (b *DirectBackend) Logout() error {
	return b.Auth.Logout(b.SID)
}

func (b *DirectBackend) userID() (int64, error) {
	st := b.Auth.CurrentSession(b.SID)
	if !st.LoggedIn {
		return 0, apperror.Auth("authentication required")
	}
	return st.User.ID, nil
}

func (b *DirectBackend) FetchCart() ([]domain.CartLine, error) {
	uid, err := b.userID()
	if err != nil {
		return nil, err
	}
	return b.Cart.Lines(uid)
}

func (b *DirectBackend) AddLine(productID, qty int) error {
	uid, err := b.userID()
	if err != nil {
		return err
	}
	return b.Cart.Add(uid, productID, qty)
}

func (b *DirectBackend) ReplaceLine(productID, qty int) error {
	uid, err := b.userID()
	if err != nil {
		return err
	}
	return b.Cart.Update(uid, productID, qty)
}

func (b *DirectBackend) ClearCart() error {
	uid, err := b.userID()
	if err != nil {
		return err
	}
	return b.Cart.Clear(uid)
}
