package recalls

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"plainrecalls/internal/logging"
	"plainrecalls/internal/store"
)

// MinSearchLen is the shortest query /search runs; shorter ones return an
// empty result.
const MinSearchLen = 2

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recalls", h.list)                // GET /recalls?agency=&category=&manufacturer=&year=&from=&to=&q=
	rg.GET("/recalls/:slug", h.getBySlug)     // GET /recalls/:slug
	rg.GET("/search", h.search)               // GET /search?q=
	rg.GET("/categories", h.categories)       // GET /categories
	rg.GET("/categories/:slug", h.category)   // GET /categories/:slug
	rg.GET("/manufacturers", h.manufacturers) // GET /manufacturers?q=
	rg.GET("/manufacturers/:slug", h.manufacturer)
	rg.GET("/agencies", h.agencies)
	rg.GET("/agencies/:slug", h.agency)
	rg.GET("/stats", h.stats)
}

// pageQuery reads limit plus either offset or a 1-based page.
func pageQuery(c *gin.Context) (limit, offset int) {
	limit = NormalizeLimit(parseInt(c.Query("limit"), DefaultLimit))
	if page := parseInt(c.Query("page"), 0); page > 0 {
		return limit, (page - 1) * limit
	}
	return limit, max(parseInt(c.Query("offset"), 0), 0)
}

func (h *Handler) listResponse(c *gin.Context, q ListQuery) {
	ctx := c.Request.Context()

	total, err := h.Repo.Count(ctx, q)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("count recalls")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(ctx, q)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("list recalls")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:              c.Query("q"),
		Agency:         c.Query("agency"),
		CategoryID:     c.Query("category"),
		ManufacturerID: c.Query("manufacturer"),
		Year:           parseInt(c.Query("year"), 0),
		From:           c.Query("from"),
		To:             c.Query("to"),
	}
	q.Limit, q.Offset = pageQuery(c)
	h.listResponse(c, q)
}

func (h *Handler) search(c *gin.Context) {
	kw := strings.TrimSpace(c.Query("q"))
	if len([]rune(kw)) < MinSearchLen {
		c.JSON(http.StatusOK, gin.H{"total": 0, "items": []any{}})
		return
	}
	q := ListQuery{Q: kw}
	q.Limit, q.Offset = pageQuery(c)
	h.listResponse(c, q)
}

func (h *Handler) getBySlug(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.Repo.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("get recall")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	related, err := h.Repo.Related(ctx, *rec, 5)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("related recalls")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "related failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recall": rec, "related": related})
}

func (h *Handler) categories(c *gin.Context) {
	cs, err := h.Repo.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "categories failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cs})
}

func (h *Handler) category(c *gin.Context) {
	cat, err := h.Repo.CategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "category failed"})
		return
	}
	if cat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) manufacturers(c *gin.Context) {
	ms, err := h.Repo.TopManufacturers(c.Request.Context(), c.Query("q"), parseInt(c.Query("limit"), 100))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "manufacturers failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ms})
}

func (h *Handler) manufacturer(c *gin.Context) {
	m, err := h.Repo.ManufacturerBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "manufacturer failed"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) agencies(c *gin.Context) {
	as, err := h.Repo.Agencies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "agencies failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": as})
}

func (h *Handler) agency(c *gin.Context) {
	a, err := h.Repo.AgencyBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "agency failed"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) stats(c *gin.Context) {
	s, err := h.Repo.Stats(c.Request.Context())
	if errors.Is(err, store.ErrNoStats) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store not ready"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
