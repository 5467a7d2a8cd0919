package posts

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"mingle/filemgr"
	"mingle/models"
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

// CreatePost handles POST /posts, as multipart form (optional "picture") or JSON.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	defer utils.RemoveMultipart(r)

	var (
		req     models.CreatePostRequest
		picture filemgr.PictureFunc
	)
	if utils.IsMultipart(r) {
		if err := utils.ParseMultipart(r); err != nil {
			utils.WriteError(w, h.logger, err)
			return
		}
		req.Description, _ = utils.FormString(r, "description")
		if err := utils.Validate(req); err != nil {
			utils.WriteError(w, h.logger, err)
			return
		}
		picture = h.uploader.Picture(r)
	} else if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}

	feed, err := h.svc.Create(r.Context(), utils.GetUserIDFromRequest(r), req, picture)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, feed)
}

// GetPost handles GET /posts/:id
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	post, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, post)
}
