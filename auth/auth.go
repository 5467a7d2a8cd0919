package auth

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"mingle/apperr"
	"mingle/filemgr"
	"mingle/middleware"
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

// Register handles POST /auth/register, as multipart form (optional "picture") or JSON.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	defer utils.RemoveMultipart(r)

	req, err := h.registerRequest(r)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}

	resp, err := h.svc.Register(r.Context(), req, h.uploader.Picture(r))
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *Handler) registerRequest(r *http.Request) (models.RegisterRequest, error) {
	var req models.RegisterRequest
	if !utils.IsMultipart(r) {
		return req, utils.DecodeJSON(r, &req)
	}

	if err := utils.ParseMultipart(r); err != nil {
		return req, err
	}
	req.FirstName, _ = utils.FormString(r, "firstName")
	req.LastName, _ = utils.FormString(r, "lastName")
	req.Email, _ = utils.FormString(r, "email")
	req.Location, _ = utils.FormString(r, "location")
	req.Occupation, _ = utils.FormString(r, "occupation")
	if r.MultipartForm != nil && len(r.MultipartForm.Value["password"]) > 0 {
		req.Password = r.MultipartForm.Value["password"][0]
	}
	return req, utils.Validate(req)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}

	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout behind Authenticate.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		utils.WriteError(w, h.logger, apperr.Auth("Missing token"))
		return
	}
	if err := h.svc.Logout(r.Context(), claims); err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}
