package reconciler_test

import (
	"errors"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"dcpstore/internal/catalog"
	"dcpstore/internal/domain"
	"dcpstore/internal/localstore"
	"dcpstore/internal/reconciler"
	"dcpstore/internal/repos"
	"dcpstore/internal/services"
)

type rig struct {
	auth    *services.AuthService
	cart    *services.CartService
	store   *localstore.MemStore
	backend *reconciler.DirectBackend
	rec     *reconciler.Reconciler
}

func newRig(t *testing.T, sid string) *rig {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	auth := services.NewAuthService(repos.NewUserRepo(db))
	cart := services.NewCartService(repos.NewCartRepo(db))
	store := localstore.NewMemStore()
	backend := reconciler.NewDirectBackend(auth, cart, sid)
	rec := reconciler.New(store, catalog.Default(), backend)
	return &rig{auth: auth, cart: cart, store: store, backend: backend, rec: rec}
}

func localQty(t *testing.T, rec *reconciler.Reconciler) map[int]int {
	t.Helper()
	items, err := rec.Items()
	if err != nil {
		t.Fatal(err)
	}
	out := map[int]int{}
	for _, it := range items {
		if it.Quantity == 0 {
			t.Fatalf("zero-quantity line present: %+v", it)
		}
		out[it.ID] = it.Quantity
	}
	return out
}

func durableQty(t *testing.T, r *rig, uid int64) map[int]int {
	t.Helper()
	ls, err := r.cart.Lines(uid)
	if err != nil {
		t.Fatal(err)
	}
	out := map[int]int{}
	for _, l := range ls {
		out[l.ProductID] = l.Quantity
	}
	return out
}

func TestLocalMutationsNetSum(t *testing.T) {
	r := newRig(t, "sid-net")

	// add 3 three times, decrement once: net 2
	for i := 0; i < 3; i++ {
		if err := r.rec.Add(3); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.rec.Decrement(3); err != nil {
		t.Fatal(err)
	}
	// add 7 once, decrement at quantity 1 removes the line
	if err := r.rec.Add(7); err != nil {
		t.Fatal(err)
	}
	if err := r.rec.Decrement(7); err != nil {
		t.Fatal(err)
	}
	// decrementing an absent line is a no-op
	if err := r.rec.Decrement(7); err != nil {
		t.Fatal(err)
	}

	got := localQty(t, r.rec)
	if got[3] != 2 {
		t.Fatalf("want 3:2, got %v", got)
	}
	if _, present := got[7]; present {
		t.Fatalf("line 7 should be removed, got %v", got)
	}
	if r.rec.Count() != 2 {
		t.Fatalf("want count 2, got %d", r.rec.Count())
	}
}

func TestRemoveDropsWholeLine(t *testing.T) {
	r := newRig(t, "sid-rm")
	for i := 0; i < 4; i++ {
		_ = r.rec.Add(5)
	}
	if err := r.rec.Remove(5); err != nil {
		t.Fatal(err)
	}
	if got := localQty(t, r.rec); len(got) != 0 {
		t.Fatalf("want empty cart, got %v", got)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	r := newRig(t, "sid-unk")
	if err := r.rec.Add(999); !errors.Is(err, reconciler.ErrUnknownProduct) {
		t.Fatalf("want ErrUnknownProduct, got %v", err)
	}
}

func TestTotalIsExactSum(t *testing.T) {
	r := newRig(t, "sid-total")
	_ = r.rec.Add(3) // 29900
	_ = r.rec.Add(3)
	_ = r.rec.Add(7) // 79900
	want := 2*29900.0 + 79900.0
	if got := r.rec.Total(); got != want {
		t.Fatalf("want total %v, got %v", want, got)
	}
}

// Guest adds 3 twice and 7 once, registers; both carts must hold {3:2, 7:1}.
func TestGuestRegisterPushThenFetch(t *testing.T) {
	r := newRig(t, "sid-reg")

	_ = r.rec.Add(3)
	_ = r.rec.Add(3)
	_ = r.rec.Add(7)

	u, err := r.rec.RegisterAndSync("masha", "masha@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	local := localQty(t, r.rec)
	if local[3] != 2 || local[7] != 1 || len(local) != 2 {
		t.Fatalf("local after register: want {3:2 7:1}, got %v", local)
	}
	durable := durableQty(t, r, u.ID)
	if durable[3] != 2 || durable[7] != 1 || len(durable) != 2 {
		t.Fatalf("durable after register: want {3:2 7:1}, got %v", durable)
	}
}

// Guest lines union additively with pre-existing durable content on login;
// durable lines the guest lacks survive into the local cache.
func TestLoginUnionsGuestAndDurable(t *testing.T) {
	r := newRig(t, "sid-union")

	u, err := r.auth.Register("sid-other", "masha", "masha@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.cart.Add(u.ID, 5, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.cart.Add(u.ID, 3, 1); err != nil {
		t.Fatal(err)
	}

	// guest accumulates on this client
	_ = r.rec.Add(3)
	_ = r.rec.Add(3)

	if _, err := r.rec.LoginAndSync("masha", "secret1"); err != nil {
		t.Fatal(err)
	}

	local := localQty(t, r.rec)
	if local[3] != 3 || local[5] != 1 {
		t.Fatalf("want union {3:3 5:1}, got %v", local)
	}
	durable := durableQty(t, r, u.ID)
	if durable[3] != 3 || durable[5] != 1 {
		t.Fatalf("want durable union {3:3 5:1}, got %v", durable)
	}
}

// Authenticated user with durable {5:1} decrements: line disappears from the
// local cache and the resync leaves zero durable rows for product 5.
func TestAuthedDecrementRemovesDurableRow(t *testing.T) {
	r := newRig(t, "sid-dec")

	u, err := r.rec.RegisterAndSync("masha", "masha@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.cart.Add(u.ID, 5, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.rec.Initialize(); err != nil {
		t.Fatal(err)
	}
	if got := localQty(t, r.rec); got[5] != 1 {
		t.Fatalf("precondition: want local {5:1}, got %v", got)
	}

	if err := r.rec.Decrement(5); err != nil {
		t.Fatal(err)
	}

	if got := localQty(t, r.rec); len(got) != 0 {
		t.Fatalf("want empty local cart, got %v", got)
	}
	if got := durableQty(t, r, u.ID); len(got) != 0 {
		t.Fatalf("want zero durable rows, got %v", got)
	}
}

func TestInitializeSkipsUnresolvableProducts(t *testing.T) {
	r := newRig(t, "sid-skip")

	u, err := r.rec.RegisterAndSync("masha", "masha@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.cart.Add(u.ID, 3, 2); err != nil {
		t.Fatal(err)
	}
	// a product that no longer exists in the catalog
	if err := r.cart.Add(u.ID, 999, 4); err != nil {
		t.Fatal(err)
	}

	if err := r.rec.Initialize(); err != nil {
		t.Fatal(err)
	}
	got := localQty(t, r.rec)
	if got[3] != 2 || len(got) != 1 {
		t.Fatalf("want only resolvable line {3:2}, got %v", got)
	}
}

func TestInitializeLeavesGuestCartAlone(t *testing.T) {
	r := newRig(t, "sid-guest")
	_ = r.rec.Add(3)
	if err := r.rec.Initialize(); err != nil {
		t.Fatal(err)
	}
	if got := localQty(t, r.rec); got[3] != 1 {
		t.Fatalf("guest cart must persist across page loads, got %v", got)
	}
}

func TestCheckoutClearsBothStores(t *testing.T) {
	r := newRig(t, "sid-co")

	u, err := r.rec.RegisterAndSync("masha", "masha@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	_ = r.rec.Add(3)
	_ = r.rec.Add(7)

	total, err := r.rec.Checkout()
	if err != nil {
		t.Fatal(err)
	}
	if want := 29900.0 + 79900.0; total != want {
		t.Fatalf("want total %v, got %v", want, total)
	}
	if got := localQty(t, r.rec); len(got) != 0 {
		t.Fatalf("local cart not cleared: %v", got)
	}
	if got := durableQty(t, r, u.ID); len(got) != 0 {
		t.Fatalf("durable cart not cleared: %v", got)
	}
	if r.rec.Count() != 0 {
		t.Fatalf("want count 0, got %d", r.rec.Count())
	}

	if _, err := r.rec.Checkout(); !errors.Is(err, reconciler.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart on empty checkout, got %v", err)
	}
}

func TestLogoutPushesThenKeepsLocal(t *testing.T) {
	r := newRig(t, "sid-lo")

	u, err := r.rec.RegisterAndSync("masha", "masha@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	_ = r.rec.Add(3)
	_ = r.rec.Add(3)

	if err := r.rec.LogoutAndSync(); err != nil {
		t.Fatal(err)
	}

	// mirror reflects the final state, session is gone, local is retained
	if got := durableQty(t, r, u.ID); got[3] != 2 {
		t.Fatalf("durable mirror missing final save: %v", got)
	}
	if st, _ := r.backend.Session(); st.LoggedIn {
		t.Fatal("session survived logout")
	}
	if got := localQty(t, r.rec); got[3] != 2 {
		t.Fatalf("local cart must survive logout for guest browsing: %v", got)
	}
}

func TestOnChangeNotifier(t *testing.T) {
	r := newRig(t, "sid-nt")
	fired := 0
	r.rec.OnChange(func() { fired++ })

	_ = r.rec.Add(3)
	_ = r.rec.Add(3)
	_ = r.rec.Decrement(3)
	if fired != 3 {
		t.Fatalf("want 3 notifications, got %d", fired)
	}
}

// faultyBackend reports a live session but fails every cart call.
type faultyBackend struct{ inner reconciler.Backend }

var errDown = errors.New("backend down")

func (f *faultyBackend) Session() (domain.SessionState, error) { return f.inner.Session() }
func (f *faultyBackend) Register(u, e, p string) (*domain.User, error) {
	return f.inner.Register(u, e, p)
}
func (f *faultyBackend) Login(i, p string) (*domain.User, error) { return f.inner.Login(i, p) }
func (f *faultyBackend) Logout() error                           { return f.inner.Logout() }
func (f *faultyBackend) FetchCart() ([]domain.CartLine, error)   { return nil, errDown }
func (f *faultyBackend) AddLine(int, int) error                  { return errDown }
func (f *faultyBackend) ReplaceLine(int, int) error              { return errDown }
func (f *faultyBackend) ClearCart() error                        { return errDown }

// A failed sync degrades to a no-op: local state stays intact and correct.
func TestBackendFailureLeavesLocalIntact(t *testing.T) {
	r := newRig(t, "sid-fail")
	if _, err := r.auth.Register("sid-fail", "masha", "masha@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}

	rec := reconciler.New(r.store, catalog.Default(), &faultyBackend{inner: r.backend})
	if err := rec.Add(3); err != nil {
		t.Fatalf("local mutation must succeed despite sync failure: %v", err)
	}
	if err := rec.Initialize(); err != nil {
		t.Fatalf("initialize must degrade, not fail: %v", err)
	}
	if got := localQty(t, rec); got[3] != 1 {
		t.Fatalf("local cart corrupted by failed sync: %v", got)
	}
}
