package profile

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mingle/utils"
)

// AddRemoveFriend handles PATCH /users/:id/:friendId
func (h *Handler) AddRemoveFriend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	friends, err := h.svc.ToggleFriend(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"), ps.ByName("friendId"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, friends)
}
