package web

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/extresolve/resolve"
)

// ResolverFunc returns the resolver for the current request. Services that
// reload configuration swap the resolver behind it.
type ResolverFunc func() *resolve.Resolver

type resolveRequest struct {
	Specifier string `json:"specifier" binding:"required"`
	ParentURL string `json:"parentURL"`
}

type resolveResponse struct {
	Specifier string         `json:"specifier"`
	URL       string         `json:"url"`
	Format    resolve.Format `json:"format,omitempty"`
}

// ResolveRoutes mounts POST /v1/resolve, which runs one specifier through
// the resolver against host.
func ResolveRoutes(current ResolverFunc, host resolve.DefaultResolver, l *slog.Logger) func(Router) {
	return func(r Router) {
		r.POST("/v1/resolve", func(c *gin.Context) {
			var req resolveRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				Problem(c, http.StatusBadRequest, err.Error())
				return
			}

			res, err := current().Resolve(c.Request.Context(), req.Specifier, resolve.Context{ParentURL: req.ParentURL}, host)
			if err != nil {
				if resolve.IsNotFound(err) {
					Problem(c, http.StatusNotFound, err.Error())
					return
				}
				l.Error("resolve failed",
					"specifier", req.Specifier,
					"parent", req.ParentURL,
					"error", err,
					"req_id", c.GetString(requestIDKey),
				)
				Problem(c, http.StatusInternalServerError, "resolution failed")
				return
			}

			c.JSON(http.StatusOK, resolveResponse{
				Specifier: req.Specifier,
				URL:       res.URL,
				Format:    res.Format,
			})
		})
	}
}
