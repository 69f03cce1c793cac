package upload

import (
	"errors"
	"net/http"

	"leadboard/internal/domain"
	"leadboard/internal/middleware"
	"leadboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/upload")
	g.POST("/leads", h.UploadLeads)
	g.GET("/template", h.Template)
}

// UploadLeads imports a workbook. mode=replace wipes existing leads and is
// limited to admins.
// @Router /upload/leads [POST]
func (h *Handler) UploadLeads(c *gin.Context) {
	replace := c.Query("mode") == "replace"
	if replace && !middleware.HasRole(c, domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only Admin can replace all leads")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "FILE_REQUIRED", "No file provided")
		return
	}
	if !IsWorkbookName(fh.Filename) {
		h.handleError(c, ErrUnsupportedFile)
		return
	}
	if fh.Size == 0 {
		h.handleError(c, ErrEmptyFile)
		return
	}
	if fh.Size > MaxFileSize {
		h.handleError(c, ErrFileTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to open file", err)
		return
	}
	defer f.Close()

	res, err := h.svc.Import(c.Request.Context(), middleware.UserID(c), fh.Filename, f, replace)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Template describes the columns an upload may carry.
func (h *Handler) Template(c *gin.Context) {
	response.Success(c, http.StatusOK, Template())
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedFile):
		response.Error(c, http.StatusBadRequest, "UNSUPPORTED_FILE", err.Error())
	case errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, ErrUnreadableFile):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "Failed to process file")
	default:
		response.Internal(c, "INTERNAL", "Failed to process file", err)
	}
}
