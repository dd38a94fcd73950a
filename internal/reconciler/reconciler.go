// Package reconciler keeps the logical cart consistent between the
// always-available local cache and the per-user durable mirror. The local
// cache is the source of truth for rendering at all times; the durable
// mirror only exists so a cart survives logout/login across sessions.
package reconciler

import (
	"errors"
	"log"

	"dcpstore/internal/catalog"
	"dcpstore/internal/domain"
	"dcpstore/internal/localstore"
)

// Backend is the durable side of the reconciliation: session state plus the
// per-user cart mirror. DirectBackend serves tests and in-process callers;
// HTTPBackend speaks the JSON API.
type Backend interface {
	Session() (domain.SessionState, error)
	Register(username, email, password string) (*domain.User, error)
	Login(ident, password string) (*domain.User, error)
	Logout() error

	FetchCart() ([]domain.CartLine, error)
	// AddLine inserts or increments a durable line.
	AddLine(productID, qty int) error
	// ReplaceLine sets a durable line's quantity outright; qty <= 0 deletes.
	ReplaceLine(productID, qty int) error
	ClearCart() error
}

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrUnknownProduct = errors.New("product not in catalog")
)

type Reconciler struct {
	store   localstore.Store
	catalog *catalog.Catalog
	backend Backend

	// onChange is invoked after every committed local mutation. Registered
	// explicitly by rendering collaborators; nil means nobody listens.
	onChange func()
}

func New(store localstore.Store, cat *catalog.Catalog, backend Backend) *Reconciler {
	return &Reconciler{store: store, catalog: cat, backend: backend}
}

// OnChange registers the mutation notifier.
func (r *Reconciler) OnChange(fn func()) { r.onChange = fn }

func (r *Reconciler) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}

// Initialize runs the page-load reconciliation: if a session is live, the
// durable cart overwrites the local cache wholesale; anonymous clients keep
// whatever the cache already holds. Backend failures leave the cache as-is.
func (r *Reconciler) Initialize() error {
	st, err := r.backend.Session()
	if err != nil {
		log.Printf("[reconciler] session check failed: %v", err)
		return nil
	}
	if !st.LoggedIn {
		return nil
	}
	if err := r.pullDurable(); err != nil {
		log.Printf("[reconciler] cart fetch failed: %v", err)
	}
	return nil
}

// pullDurable fetches the durable cart, joins it against the catalog and
// overwrites the local cache. Lines whose product id no longer resolves are
// skipped, not fatal.
func (r *Reconciler) pullDurable() error {
	lines, err := r.backend.FetchCart()
	if err != nil {
		return err
	}
	items := make([]domain.LocalCartItem, 0, len(lines))
	for _, ln := range lines {
		p, ok := r.catalog.Lookup(ln.ProductID)
		if !ok {
			log.Printf("[reconciler] skipping unknown product %d", ln.ProductID)
			continue
		}
		items = append(items, denormalize(p, ln.Quantity))
	}
	if err := r.store.Save(items); err != nil {
		return err
	}
	r.notify()
	return nil
}

func denormalize(p domain.Product, qty int) domain.LocalCartItem {
	return domain.LocalCartItem{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: qty,
	}
}

// Items returns the current local cart.
func (r *Reconciler) Items() ([]domain.LocalCartItem, error) {
	return r.store.Load()
}

// Count returns the total quantity across all lines.
func (r *Reconciler) Count() int {
	items, err := r.store.Load()
	if err != nil {
		return 0
	}
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Total returns the exact sum of unit price times quantity over all lines.
func (r *Reconciler) Total() float64 {
	items, err := r.store.Load()
	if err != nil {
		return 0
	}
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Add puts one unit of the product into the cart, incrementing an existing
// line or inserting a new denormalized one.
func (r *Reconciler) Add(productID int) error {
	return r.mutate(func(items []domain.LocalCartItem) ([]domain.LocalCartItem, error) {
		for i := range items {
			if items[i].ID == productID {
				items[i].Quantity++
				return items, nil
			}
		}
		p, ok := r.catalog.Lookup(productID)
		if !ok {
			return nil, ErrUnknownProduct
		}
		return append(items, denormalize(p, 1)), nil
	})
}

// Increment raises an existing line by one; it is a no-op for a product not
// in the cart.
func (r *Reconciler) Increment(productID int) error {
	return r.mutate(func(items []domain.LocalCartItem) ([]domain.LocalCartItem, error) {
		for i := range items {
			if items[i].ID == productID {
				items[i].Quantity++
				break
			}
		}
		return items, nil
	})
}

// Decrement lowers a line by one; a line already at quantity 1 is removed
// entirely, never stored as zero.
func (r *Reconciler) Decrement(productID int) error {
	return r.mutate(func(items []domain.LocalCartItem) ([]domain.LocalCartItem, error) {
		for i := range items {
			if items[i].ID != productID {
				continue
			}
			if items[i].Quantity > 1 {
				items[i].Quantity--
			} else {
				items = append(items[:i], items[i+1:]...)
			}
			break
		}
		return items, nil
	})
}

// Remove drops the line regardless of quantity.
func (r *Reconciler) Remove(productID int) error {
	return r.mutate(func(items []domain.LocalCartItem) ([]domain.LocalCartItem, error) {
		for i := range items {
			if items[i].ID == productID {
				items = append(items[:i], items[i+1:]...)
				break
			}
		}
		return items, nil
	})
}

// mutate applies a read-modify-write to the local cache, then mirrors the
// result to the durable store when a session is live. A failed mirror push
// is logged and left for the next successful resync; local state is never
// rolled back.
func (r *Reconciler) mutate(apply func([]domain.LocalCartItem) ([]domain.LocalCartItem, error)) error {
	items, err := r.store.Load()
	if err != nil {
		return err
	}
	items, err = apply(items)
	if err != nil {
		return err
	}
	if err := r.store.Save(items); err != nil {
		return err
	}
	r.notify()
	r.syncIfAuthenticated()
	return nil
}

// syncIfAuthenticated runs a full resynchronization: the durable cart is
// cleared and every local line re-inserted. Not an incremental diff; the
// cart is small and last-writer-wins at cart granularity is acceptable.
func (r *Reconciler) syncIfAuthenticated() {
	st, err := r.backend.Session()
	if err != nil || !st.LoggedIn {
		return
	}
	if err := r.push(); err != nil {
		log.Printf("[reconciler] cart sync failed: %v", err)
	}
}

func (r *Reconciler) push() error {
	items, err := r.store.Load()
	if err != nil {
		return err
	}
	if err := r.backend.ClearCart(); err != nil {
		return err
	}
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		if err := r.backend.ReplaceLine(it.ID, qty); err != nil {
			return err
		}
	}
	return nil
}

// pushGuestAdditive folds guest-accumulated lines into the durable cart via
// increment-style adds, leaving any pre-existing durable lines in place.
// Used only for the login/register hand-off; see the union semantics note
// in DESIGN.md.
func (r *Reconciler) pushGuestAdditive() error {
	items, err := r.store.Load()
	if err != nil {
		return err
	}
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		if err := r.backend.AddLine(it.ID, qty); err != nil {
			return err
		}
	}
	return nil
}

// LoginAndSync authenticates, pushes guest lines into the durable cart, and
// only then fetches it back over the local cache. Push strictly precedes
// fetch: the other order would overwrite the guest-accumulated items and
// silently lose them.
func (r *Reconciler) LoginAndSync(ident, password string) (*domain.User, error) {
	u, err := r.backend.Login(ident, password)
	if err != nil {
		return nil, err
	}
	if err := r.pushGuestAdditive(); err != nil {
		log.Printf("[reconciler] guest cart push failed: %v", err)
	}
	if err := r.pullDurable(); err != nil {
		log.Printf("[reconciler] post-login fetch failed: %v", err)
	}
	return u, nil
}

// RegisterAndSync registers (which auto-logs-in), then runs the same
// push-then-fetch hand-off as LoginAndSync.
func (r *Reconciler) RegisterAndSync(username, email, password string) (*domain.User, error) {
	u, err := r.backend.Register(username, email, password)
	if err != nil {
		return nil, err
	}
	if err := r.pushGuestAdditive(); err != nil {
		log.Printf("[reconciler] guest cart push failed: %v", err)
	}
	if err := r.pullDurable(); err != nil {
		log.Printf("[reconciler] post-register fetch failed: %v", err)
	}
	return u, nil
}

// LogoutAndSync pushes a final save so the mirror reflects the last local
// state, then invalidates the session. The local cart is deliberately kept
// for continued guest browsing.
func (r *Reconciler) LogoutAndSync() error {
	st, err := r.backend.Session()
	if err == nil && st.LoggedIn {
		if err := r.push(); err != nil {
			log.Printf("[reconciler] pre-logout save failed: %v", err)
		}
	}
	return r.backend.Logout()
}

// Checkout returns the order total, then clears the local cart and, for an
// authenticated client, the durable mirror. Terminal: no order record.
func (r *Reconciler) Checkout() (float64, error) {
	items, err := r.store.Load()
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, ErrEmptyCart
	}
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	if err := r.store.Save(nil); err != nil {
		return 0, err
	}
	r.notify()
	if st, err := r.backend.Session(); err == nil && st.LoggedIn {
		if err := r.backend.ClearCart(); err != nil {
			log.Printf("[reconciler] durable clear failed: %v", err)
		}
	}
	return total, nil
}
