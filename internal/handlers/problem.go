package handlers

import (
	"errors"
	"net/http"

	"LCID/internal/models"
	"LCID/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Sites are the base URLs the redirect routes point at.
type Sites struct {
	Primary string
	Mirror  string
}

type ProblemHandler struct {
	problems *services.ProblemService
	sites    Sites
	log      *zap.Logger
}

// NewProblemHandler creates a new problem handler
func NewProblemHandler(problems *services.ProblemService, sites Sites, log *zap.Logger) *ProblemHandler {
	return &ProblemHandler{
		problems: problems,
		sites:    sites,
		log:      log.Named("handlers"),
	}
}

// RedirectPrimary sends the client to the problem page on the primary site.
func (h *ProblemHandler) RedirectPrimary(c *gin.Context) {
	h.redirect(c, h.sites.Primary)
}

// RedirectMirror sends the client to the problem page on the mirror site.
func (h *ProblemHandler) RedirectMirror(c *gin.Context) {
	h.redirect(c, h.sites.Mirror)
}

func (h *ProblemHandler) redirect(c *gin.Context, site string) {
	problem, err := h.problems.LoadProblem(c.Request.Context(), c.Param("problem_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, ProblemURL(site, problem.TitleSlug))
}

// GetCatalog returns the whole stored catalog as-is.
func (h *ProblemHandler) GetCatalog(c *gin.Context) {
	raw, err := h.problems.LoadCatalogJSON(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// GetProblem returns one catalog entry.
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	entry, err := h.problems.LoadProblemJSON(c.Request.Context(), c.Param("problem_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", entry)
}

// writeError renders err as {code, message}; anything that is not already a
// ServerError becomes a 500.
func (h *ProblemHandler) writeError(c *gin.Context, err error) {
	var serverErr *models.ServerError
	if !errors.As(err, &serverErr) {
		h.log.Error("Unexpected error on read path",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		serverErr = &models.ServerError{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error.",
		}
	}

	c.JSON(serverErr.Code, serverErr)
}

// ProblemURL builds the problem page URL for slug on site.
func ProblemURL(site, slug string) string {
	return site + "/problems/" + slug + "/"
}

// RegisterRoutes registers the problem handler routes
func (h *ProblemHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/:problem_id", h.RedirectPrimary)
	router.GET("/cn/:problem_id", h.RedirectMirror)

	infoGroup := router.Group("/info")
	{
		infoGroup.GET("", h.GetCatalog)
		infoGroup.GET("/:problem_id", h.GetProblem)
	}
}
