package routes

import (
	"net/http"
	"os"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"mingle/db"
	"mingle/globals"
	"mingle/ratelim"
	"mingle/utils"
)

// Health answers 200 with the user count while the store responds, 503 otherwise.
func Health(users db.UserStore, logger *zap.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		n, err := users.CountUsers(r.Context())
		if err != nil {
			logger.Warn("health check", zap.Error(err))
			utils.RespondWithError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"status": "ok", "users": n})
	}
}

// filesOnly hides directories so upload names cannot be listed.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles(globals.AssetsPrefix+"/*filepath", filesOnly{fs: http.Dir(uploadDir)})
}

func AddAuthRoutes(router *httprouter.Router, d Deps, rateLimiter *ratelim.RateLimiter) {
	router.POST("/auth/register", rateLimiter.Limit(d.Auth.Register))
	router.POST("/auth/login", rateLimiter.Limit(d.Auth.Login))
	router.POST("/auth/logout", d.Authn.Authenticate(d.Auth.Logout))
}

func AddProfileRoutes(router *httprouter.Router, d Deps) {
	router.GET("/users/:id", d.Authn.Authenticate(d.Profile.GetUser))
	router.GET("/users/:id/friends", d.Authn.Authenticate(d.Profile.GetUserFriends))
	router.PATCH("/users/:id", d.Authn.Authenticate(d.Profile.EditProfile))
	router.PATCH("/users/:id/:friendId", d.Authn.Authenticate(d.Profile.AddRemoveFriend))
}

func AddPostRoutes(router *httprouter.Router, d Deps) {
	router.POST("/posts", d.Authn.Authenticate(d.Posts.CreatePost))
	router.GET("/posts", d.Authn.Authenticate(d.Posts.GetFeedPosts))
	router.GET("/posts/:id", d.Authn.Authenticate(d.Posts.GetPost))
	router.GET("/posts/:id/posts", d.Authn.Authenticate(d.Posts.GetUserPosts))
	router.PATCH("/posts/:id/like", d.Authn.Authenticate(d.Posts.LikePost))
	router.POST("/posts/:id/comments", d.Authn.Authenticate(d.Posts.AddComment))
}
