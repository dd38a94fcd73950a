package services_test

import (
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"dcpstore/internal/domain"
	"dcpstore/internal/repos"
	"dcpstore/internal/services"
)

func newCart(t *testing.T) (*services.CartService, int64) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	auth := services.NewAuthService(repos.NewUserRepo(db))
	u, err := auth.Register("sid-cart", "ivan", "ivan@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	return services.NewCartService(repos.NewCartRepo(db)), u.ID
}

func lines(t *testing.T, svc *services.CartService, uid int64) map[int]int {
	t.Helper()
	ls, err := svc.Lines(uid)
	if err != nil {
		t.Fatal(err)
	}
	out := map[int]int{}
	for _, l := range ls {
		out[l.ProductID] = l.Quantity
	}
	return out
}

func TestCartAddIncrements(t *testing.T) {
	svc, uid := newCart(t)

	if err := svc.Add(uid, 3, 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(uid, 3, 2); err != nil {
		t.Fatal(err)
	}
	got := lines(t, svc, uid)
	if got[3] != 3 {
		t.Fatalf("want quantity 3, got %v", got)
	}
}

func TestCartUpdateReplacesAndDeletes(t *testing.T) {
	svc, uid := newCart(t)

	if err := svc.Update(uid, 7, 5); err != nil {
		t.Fatal(err)
	}
	if err := svc.Update(uid, 7, 2); err != nil {
		t.Fatal(err)
	}
	if got := lines(t, svc, uid); got[7] != 2 {
		t.Fatalf("want replaced quantity 2, got %v", got)
	}

	// quantity <= 0 deletes the line, never stores zero
	if err := svc.Update(uid, 7, 0); err != nil {
		t.Fatal(err)
	}
	if got := lines(t, svc, uid); len(got) != 0 {
		t.Fatalf("want empty cart, got %v", got)
	}
}

func TestCartClear(t *testing.T) {
	svc, uid := newCart(t)
	_ = svc.Add(uid, 1, 1)
	_ = svc.Add(uid, 2, 1)
	if err := svc.Clear(uid); err != nil {
		t.Fatal(err)
	}
	if got := lines(t, svc, uid); len(got) != 0 {
		t.Fatalf("want empty cart after clear, got %v", got)
	}
}

func TestMergeGuestAddsQuantities(t *testing.T) {
	svc, uid := newCart(t)
	if err := svc.Add(uid, 5, 1); err != nil {
		t.Fatal(err)
	}

	guest := []domain.CartLine{
		{ProductID: 5, Quantity: 2},
		{ProductID: 9, Quantity: 1},
	}
	if err := svc.MergeGuest(uid, guest); err != nil {
		t.Fatal(err)
	}

	got := lines(t, svc, uid)
	if got[5] != 3 || got[9] != 1 {
		t.Fatalf("want union {5:3 9:1}, got %v", got)
	}
}
