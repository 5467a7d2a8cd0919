package posts

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mingle/models"
	"mingle/utils"
)

// LikePost handles PATCH /posts/:id/like
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	post, err := h.svc.ToggleLike(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, post)
}

// AddComment handles POST /posts/:id/comments
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req models.CommentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	post, err := h.svc.Comment(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"), req)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, post)
}
