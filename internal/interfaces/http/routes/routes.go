// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/estim-games/estim-api/internal/interfaces/http/handlers"
	"github.com/estim-games/estim-api/internal/interfaces/http/middleware"
	"github.com/estim-games/estim-api/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Dependencies groups everything the routes are wired to
type Dependencies struct {
	Games   *handlers.GameHandler
	Cart    *handlers.CartHandler
	Auth    *handlers.AuthHandler
	Orders  *handlers.OrderHandler
	Admin   *handlers.AdminHandler
	JWT     *auth.JWTManager
	Session middleware.SessionConfig
}

// SetupRoutes registers every API route on r
func SetupRoutes(r gin.IRouter, deps Dependencies) {
	SetupGameRoutes(r, deps.Games)
	SetupCartRoutes(r, deps)
	SetupAuthRoutes(r, deps)
	SetupOrderRoutes(r, deps)
	SetupAdminRoutes(r, deps)
}

// SetupGameRoutes sets up catalog routes. Listing paths answer with and
// without a trailing slash so they are never captured by /games/:id.
func SetupGameRoutes(r gin.IRouter, h *handlers.GameHandler) {
	games := r.Group("/games")
	{
		both(games, "", h.List)
		both(games, "/search", h.Search)
		both(games, "/search/genre", h.SearchByGenre)
		both(games, "/popular", h.Popular)
		both(games, "/recent", h.Recent)
		both(games, "/featured", h.Featured)
		both(games, "/new", h.Newest)
		both(games, "/filter", h.Filter)

		games.GET("/:id", h.GetGame)
		games.GET("/:id/related", h.Related)
	}
}

// SetupCartRoutes sets up shopping cart routes (guest sessions or authenticated users)
func SetupCartRoutes(r gin.IRouter, deps Dependencies) {
	cart := r.Group("/shopping_cart")
	cart.Use(middleware.OptionalAuthMiddleware(deps.JWT))
	cart.Use(middleware.CartSession(deps.Session))
	{
		cart.GET("", deps.Cart.GetCart)
		cart.GET("/total", deps.Cart.GetTotal)
		cart.GET("/receipt", deps.Cart.DownloadReceipt)
		cart.POST("/items/:game_id", deps.Cart.AddGame)
		cart.DELETE("/items/:game_id", deps.Cart.RemoveGame)
		cart.DELETE("/clear", deps.Cart.ClearCart)
	}
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(r gin.IRouter, deps Dependencies) {
	auth := r.Group("/auth")
	{
		// Sign in endpoints pick up the guest cart session
		signIn := auth.Group("")
		signIn.Use(middleware.CartSession(deps.Session))
		{
			signIn.POST("/register", deps.Auth.Register)
			signIn.POST("/login", deps.Auth.Login)
			signIn.POST("/token", deps.Auth.Token)
		}

		auth.POST("/refresh", deps.Auth.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWT))
		{
			protected.GET("/profile", deps.Auth.GetProfile)
			protected.PUT("/password", deps.Auth.ChangePassword)
		}
	}
}

// SetupOrderRoutes sets up purchase routes for signed in users
func SetupOrderRoutes(r gin.IRouter, deps Dependencies) {
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWT))
	{
		protected.POST("/checkout", deps.Orders.Checkout)
		protected.GET("/orders/history", deps.Orders.History)
		protected.GET("/recommendations", deps.Games.Recommendations)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(r gin.IRouter, deps Dependencies) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(deps.JWT))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/seed-data", deps.Admin.SeedData)
		admin.GET("/tables", deps.Admin.Tables)
	}
}

func both(g *gin.RouterGroup, path string, handler gin.HandlerFunc) {
	g.GET(path, handler)
	g.GET(path+"/", handler)
}
