package profile

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mingle/filemgr"
	"mingle/models"
	"mingle/utils"
)

// EditProfile handles PATCH /users/:id. Fields may come as JSON or multipart, the picture only as multipart.
func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	defer utils.RemoveMultipart(r)

	req, multipart, err := updateRequest(r)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}

	var picture filemgr.PictureFunc
	if multipart {
		picture = h.uploader.Picture(r)
	}

	user, err := h.svc.UpdateProfile(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"), req, picture)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func updateRequest(r *http.Request) (models.UpdateProfileRequest, bool, error) {
	var req models.UpdateProfileRequest
	if !utils.IsMultipart(r) {
		return req, false, utils.DecodeJSON(r, &req)
	}

	if err := utils.ParseMultipart(r); err != nil {
		return req, true, err
	}
	req.FirstName = formField(r, "firstName")
	req.LastName = formField(r, "lastName")
	req.Location = formField(r, "location")
	req.Occupation = formField(r, "occupation")
	return req, true, utils.Validate(req)
}

func formField(r *http.Request, key string) *string {
	if v, ok := utils.FormString(r, key); ok {
		return &v
	}
	return nil
}
