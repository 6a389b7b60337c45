package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davemtz/storefront-api/api/controllers"
	"github.com/davemtz/storefront-api/api/middleware"
	"github.com/davemtz/storefront-api/pkg/config"
	"github.com/davemtz/storefront-api/pkg/logger"
	"github.com/davemtz/storefront-api/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	idempotencyStore redis.IdempotencyStore,
	healthDeps map[string]controllers.Pinger,
	productService controllers.ProductService,
	cartService controllers.CartService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthDeps))
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Post("/", controllers.CreateProduct(productService, logg))
		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", controllers.GetProduct(productService, logg))
			r.Put("/", controllers.UpdateProduct(productService, logg))
			r.Delete("/", controllers.DeleteProduct(productService, logg))
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))
		r.Get("/", controllers.CartList(cartService, logg))
		r.Post("/add", controllers.CartAdd(cartService, logg))
		r.Delete("/", controllers.CartClear(cartService, logg))
		r.Delete("/{cartItemId}", controllers.CartRemove(cartService, logg))
	})

	return r
}
