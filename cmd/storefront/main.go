// Command storefront wires the full client stack against a backend and
// runs a short browsing session: a smoke check for the whole stack, and a
// reference for how the stores compose.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"storefront/config"
	"storefront/internal/httpclient"
	"storefront/internal/localstore"
	"storefront/model"
	"storefront/pkg/logger"
	"storefront/service"
	"storefront/store/auth"
	"storefront/store/cart"
	"storefront/store/catalog"
	"storefront/store/compare"
	"storefront/store/notify"
	"storefront/store/order"
	"storefront/store/user"
	"storefront/store/wishlist"

	"go.uber.org/zap"
)

type app struct {
	client *httpclient.Client
	local  *localstore.SQLite

	Auth     *auth.Store
	Cart     *cart.Store
	Catalog  *catalog.Store
	Order    *order.Store
	User     *user.Store
	Wishlist *wishlist.Store
	Compare  *compare.Store
}

func newApp(cfg *config.Config, notifier notify.Notifier) (*app, error) {
	local, err := localstore.Open(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	creds := auth.NewCredentials(local)
	client := httpclient.New(&cfg.API, creds)

	authStore := auth.New(cfg.Auth, service.NewAuth(client), creds, local, notifier)
	authStore.BindTransport(client)

	cartStore := cart.New(service.NewCart(client), cart.NewLocal(local), authStore, notifier)

	return &app{
		client:   client,
		local:    local,
		Auth:     authStore,
		Cart:     cartStore,
		Catalog:  catalog.New(cfg.Catalog, service.NewCatalog(client), notifier),
		Order:    order.New(service.NewOrder(client), cartStore, notifier),
		User:     user.New(service.NewUser(client), authStore, notifier),
		Wishlist: wishlist.New(local, notifier),
		Compare:  compare.New(cfg.Compare, local, notifier),
	}, nil
}

func (a *app) close() {
	a.Cart.Close()
	a.User.Close()
	_ = a.local.Close()
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	email := flag.String("email", "", "sign in with this email")
	password := flag.String("password", "", "password for -email")
	mock := flag.Bool("mock", false, "serve canned responses without a backend")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	a, err := newApp(cfg, notify.Logging{})
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.close()

	if *mock {
		a.client.SetMockEnabled(true)
	}

	ctx := context.Background()

	if *email != "" {
		if err := a.Auth.Login(ctx, model.LoginRequest{Email: *email, Password: *password}); err != nil {
			logger.Error("login failed", zap.Error(err))
			os.Exit(1)
		}
	}

	if err := a.Catalog.FetchProducts(ctx); err != nil {
		logger.Error("catalog fetch failed", zap.Error(err))
		os.Exit(1)
	}

	st := a.Catalog.State()
	fmt.Printf("%d products (page %d of %d):\n",
		st.Pagination.TotalElements, st.Pagination.Page+1, st.Pagination.TotalPages)
	for _, p := range st.Products {
		fmt.Printf("  %-40s $%8.2f  rating %.1f\n", p.Name, p.Price, p.Rating)
	}

	if a.Auth.IsAuthenticated() {
		a.Cart.Refresh(ctx)
		fmt.Printf("cart: %d item(s), total $%.2f\n", a.Cart.ItemCount(), a.Cart.Total())
	}
}
