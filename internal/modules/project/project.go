package project

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/models"
	"github.com/impactflow/core/internal/pkg/response"
	"github.com/impactflow/core/internal/store"
)

type Handler struct{ st *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{st: st} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/projects")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /projects?category=...&q=...
func (h *Handler) list(c *gin.Context) {
	projects := h.st.Projects()

	if category := strings.TrimSpace(c.Query("category")); category != "" && category != "All" {
		filtered := projects[:0]
		for _, p := range projects {
			if string(p.Category) == category {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}

	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		filtered := projects[:0]
		for _, p := range projects {
			if strings.Contains(strings.ToLower(p.Title), q) ||
				strings.Contains(strings.ToLower(p.Description), q) {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}

	response.OK(c, projects)
}

// GET /projects/:id
func (h *Handler) get(c *gin.Context) {
	p, ok := h.st.ProjectByID(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "project not found")
		return
	}
	response.OK(c, p)
}

type projectDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Goal        float64 `json:"goal"`
	ImageURL    string  `json:"imageUrl"`
}

func (dto *projectDTO) validate() string {
	if strings.TrimSpace(dto.Title) == "" {
		return "title is required"
	}
	if dto.Goal <= 0 {
		return "goal must be positive"
	}
	if !models.ValidProjectCategory(models.ProjectCategory(dto.Category)) {
		return "unknown category"
	}
	return ""
}

// POST /projects
func (h *Handler) create(c *gin.Context) {
	var dto projectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if msg := dto.validate(); msg != "" {
		response.UnprocessableEntity(c, msg)
		return
	}

	p, err := h.st.CreateProject(c.Request.Context(), models.ProjectModel{
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Category:    models.ProjectCategory(dto.Category),
		Goal:        dto.Goal,
		ImageURL:    dto.ImageURL,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, p)
}

// PUT /projects/:id
func (h *Handler) update(c *gin.Context) {
	existing, ok := h.st.ProjectByID(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "project not found")
		return
	}

	var dto projectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if msg := dto.validate(); msg != "" {
		response.UnprocessableEntity(c, msg)
		return
	}

	existing.Title = strings.TrimSpace(dto.Title)
	existing.Description = dto.Description
	existing.Category = models.ProjectCategory(dto.Category)
	existing.Goal = dto.Goal
	existing.ImageURL = dto.ImageURL

	p, err := h.st.UpdateProject(c.Request.Context(), existing)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, p)
}

// DELETE /projects/:id
func (h *Handler) delete(c *gin.Context) {
	if _, ok := h.st.ProjectByID(c.Param("id")); !ok {
		response.NotFoundMsg(c, "project not found")
		return
	}
	if err := h.st.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
