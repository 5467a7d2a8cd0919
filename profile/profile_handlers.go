package profile

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"mingle/filemgr"
	"mingle/utils"
)

type Handler struct {
	svc      *Service
	uploader *filemgr.Uploader
	logger   *zap.Logger
}

func NewHandler(svc *Service, uploader *filemgr.Uploader, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, uploader: uploader, logger: logger}
}

// GetUser handles GET /users/:id
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.svc.GetUser(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// GetUserFriends handles GET /users/:id/friends
func (h *Handler) GetUserFriends(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	friends, err := h.svc.Friends(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, friends)
}
