package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkly-be/internal/middleware"
	"linkly-be/internal/models"
	"linkly-be/internal/service"
)

type ShortenerController struct {
	linkService service.LinkService
	baseURL     string
}

func NewShortenerController(linkService service.LinkService, baseURL string) *ShortenerController {
	return &ShortenerController{
		linkService: linkService,
		baseURL:     baseURL,
	}
}

// CreateLink handles POST /api/v1/links
func (sc *ShortenerController) CreateLink(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	link, err := sc.linkService.CreateShortLink(c.Request.Context(), req.URL, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewLinkResponse(link, sc.baseURL))
}

// Redirect handles GET /:shortCode. Unknown codes go to the landing page.
func (sc *ShortenerController) Redirect(c *gin.Context) {
	target := sc.linkService.Visit(c.Request.Context(), c.Param("shortCode"), service.RequestMeta{
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   c.GetHeader("Referer"),
		IPAddress: middleware.VisitorIP(c),
	})

	c.Redirect(http.StatusFound, target.URL)
}

// ListLinks handles GET /api/v1/links - the caller's links, newest first
func (sc *ShortenerController) ListLinks(c *gin.Context) {
	links, err := sc.linkService.ListLinks(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.LinkListItem, 0, len(links))
	for _, l := range links {
		items = append(items, models.LinkListItem{
			LinkResponse: models.NewLinkResponse(&l.Link, sc.baseURL),
			ClickCount:   l.ClickCount,
		})
	}

	c.JSON(http.StatusOK, items)
}

// GetLink handles GET /api/v1/links/:id
func (sc *ShortenerController) GetLink(c *gin.Context) {
	detail, err := sc.linkService.GetLink(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LinkDetailResponse{
		LinkResponse: models.NewLinkResponse(detail.Link, sc.baseURL),
		ClickCount:   detail.ClickCount,
		RecentClicks: detail.RecentClicks,
	})
}

// DeleteLink handles DELETE /api/v1/links/:id
func (sc *ShortenerController) DeleteLink(c *gin.Context) {
	if err := sc.linkService.DeleteLink(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Link deleted successfully",
	})
}

// GetAnalytics handles GET /api/v1/links/:id/analytics
func (sc *ShortenerController) GetAnalytics(c *gin.Context) {
	summary, err := sc.linkService.GetAnalytics(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
