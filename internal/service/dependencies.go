package service

import (
	"tienda-api/internal/auth"
	"tienda-api/internal/broker"
	"tienda-api/internal/notify"
	"tienda-api/internal/redisclient"
	"tienda-api/internal/store"
)

// Dependencies bundles every service, wired once at startup and injected
// into the HTTP layer.
type Dependencies struct {
	Auth      *AuthService
	Users     *UserService
	Catalog   *CatalogService
	Cart      *CartService
	Orders    *OrderService
	Inventory *InventoryService
	Admin     *AdminService
	Reviews   *ReviewService
	Account   *AccountService
	Support   *SupportService
}

// NewDependencies wires the full service graph.
func NewDependencies(
	st *store.Store,
	redis *redisclient.Client,
	events *broker.EventPublisher,
	mailer *notify.Mailer,
	tokens *auth.TokenIssuer,
) *Dependencies {
	return &Dependencies{
		Auth:      NewAuthService(st, tokens),
		Users:     NewUserService(st),
		Catalog:   NewCatalogService(st),
		Cart:      NewCartService(st),
		Orders:    NewOrderService(st, events, mailer),
		Inventory: NewInventoryService(st, events),
		Admin:     NewAdminService(st, redis),
		Reviews:   NewReviewService(st),
		Account:   NewAccountService(st),
		Support:   NewSupportService(st),
	}
}
