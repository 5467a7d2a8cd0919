package posts

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mingle/models"
	"mingle/utils"
)

func filterFrom(q utils.QueryOptions) models.PostFilter {
	return models.PostFilter{UserID: q.UserID, Skip: q.Skip(), Limit: int64(q.Limit)}
}

// GetFeedPosts handles GET /posts?userId=&page=&limit=
func (h *Handler) GetFeedPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	feed, err := h.svc.Feed(r.Context(), filterFrom(utils.ParseQueryOptions(r)))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, feed)
}

// GetUserPosts handles GET /posts/:id/posts
func (h *Handler) GetUserPosts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	posts, err := h.svc.UserPosts(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"), filterFrom(utils.ParseQueryOptions(r)))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, posts)
}
