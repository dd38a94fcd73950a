package services

import (
	"dcpstore/internal/apperror"
	"dcpstore/internal/domain"
	"dcpstore/internal/repos"
	"dcpstore/internal/validate"
)

// CartService owns the durable per-user cart mirror.
type CartService struct {
	Carts *repos.CartRepo
}

func NewCartService(carts *repos.CartRepo) *CartService {
	return &CartService{Carts: carts}
}

func (s *CartService) Lines(userID int64) ([]domain.CartLine, error) {
	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return nil, apperror.Infra("could not load cart", err)
	}
	return lines, nil
}

// Add inserts or increments a line.
func (s *CartService) Add(userID int64, productID, qty int) error {
	if productID <= 0 {
		return apperror.Validation("product id is required")
	}
	if err := s.Carts.AddLine(userID, productID, validate.Qty(qty)); err != nil {
		return apperror.Infra("could not update cart", err)
	}
	return nil
}

// Update replaces a line's quantity; zero or less deletes the line.
func (s *CartService) Update(userID int64, productID, qty int) error {
	if productID <= 0 {
		return apperror.Validation("product id is required")
	}
	if qty <= 0 {
		if err := s.Carts.DeleteLine(userID, productID); err != nil {
			return apperror.Infra("could not update cart", err)
		}
		return nil
	}
	if err := s.Carts.ReplaceLine(userID, productID, qty); err != nil {
		return apperror.Infra("could not update cart", err)
	}
	return nil
}

func (s *CartService) Clear(userID int64) error {
	if err := s.Carts.Clear(userID); err != nil {
		return apperror.Infra("could not clear cart", err)
	}
	return nil
}

// MergeGuest folds guest-accumulated lines into the user's cart, adding
// quantities on collision.
func (s *CartService) MergeGuest(userID int64, lines []domain.CartLine) error {
	if err := s.Carts.MergeLines(userID, lines); err != nil {
		return apperror.Infra("could not merge cart", err)
	}
	return nil
}
