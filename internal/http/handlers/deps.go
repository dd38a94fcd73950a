package handlers

import (
	"dcpstore/internal/catalog"
	"dcpstore/internal/repos"
	"dcpstore/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler *AuthHandler
	CartHandler *CartHandler
	PageHandler *PageHandler
	Auth        *services.AuthService
}

func NewDeps(db *sqlx.DB, cat *catalog.Catalog) *Deps {
	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)

	authSvc := services.NewAuthService(userRepo)
	cartSvc := services.NewCartService(cartRepo)

	return &Deps{
		AuthHandler: &AuthHandler{Auth: authSvc},
		CartHandler: &CartHandler{Cart: cartSvc},
		PageHandler: &PageHandler{Catalog: cat, Cart: cartSvc},
		Auth:        authSvc,
	}
}
