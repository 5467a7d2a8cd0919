package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"mingle/auth"
	"mingle/db"
	"mingle/middleware"
	"mingle/posts"
	"mingle/profile"
	"mingle/ratelim"
	"mingle/utils"
)

// Deps are the handlers the router dispatches to.
type Deps struct {
	Authn     *middleware.Authenticator
	Auth      *auth.Handler
	Profile   *profile.Handler
	Posts     *posts.Handler
	Users     db.UserStore
	UploadDir string
	Logger    *zap.Logger
}

// RoutesWrapper builds the router with every route registered.
func RoutesWrapper(d Deps, rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Health(d.Users, d.Logger))
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	AddStaticRoutes(router, d.UploadDir)
	AddAuthRoutes(router, d, rateLimiter)
	AddProfileRoutes(router, d)
	AddPostRoutes(router, d)
	return router
}
