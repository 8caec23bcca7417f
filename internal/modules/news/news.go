package news

import (
	"bytes"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/pkg/response"
	"github.com/impactflow/core/internal/store"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return buf.String()
}

type Handler struct{ st *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{st: st} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/news")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type newsView struct {
	models.NewsModel
	ContentHTML string `json:"contentHtml"`
}

func toView(n models.NewsModel) newsView {
	return newsView{NewsModel: n, ContentHTML: renderMarkdown(n.Content)}
}

// GET /news
func (h *Handler) list(c *gin.Context) {
	items := h.st.News()
	out := make([]newsView, 0, len(items))
	for _, n := range items {
		out = append(out, toView(n))
	}
	response.OK(c, out)
}

// GET /news/:id
func (h *Handler) get(c *gin.Context) {
	n, ok := h.st.NewsByID(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "news not found")
		return
	}
	response.OK(c, toView(n))
}

type newsDTO struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
	ImageURL string    `json:"imageUrl"`
}

// POST /news
func (h *Handler) create(c *gin.Context) {
	var dto newsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(dto.Title) == "" {
		response.UnprocessableEntity(c, "title is required")
		return
	}

	n, err := h.st.CreateNews(c.Request.Context(), models.NewsModel{
		Title:    strings.TrimSpace(dto.Title),
		Content:  dto.Content,
		Author:   dto.Author,
		Date:     dto.Date,
		ImageURL: dto.ImageURL,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toView(n))
}

// PUT /news/:id
func (h *Handler) update(c *gin.Context) {
	existing, ok := h.st.NewsByID(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "news not found")
		return
	}

	var dto newsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(dto.Title) == "" {
		response.UnprocessableEntity(c, "title is required")
		return
	}

	existing.Title = strings.TrimSpace(dto.Title)
	existing.Content = dto.Content
	existing.Author = dto.Author
	if !dto.Date.IsZero() {
		existing.Date = dto.Date
	}
	existing.ImageURL = dto.ImageURL

	n, err := h.st.UpdateNews(c.Request.Context(), existing)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toView(n))
}

// DELETE /news/:id
func (h *Handler) delete(c *gin.Context) {
	if _, ok := h.st.NewsByID(c.Param("id")); !ok {
		response.NotFoundMsg(c, "news not found")
		return
	}
	if err := h.st.DeleteNews(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
