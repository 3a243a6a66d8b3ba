package template

import (
	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/pkg/pagination"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/templates")

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /templates?search=&business_type=&month=&page=&limit=
func (h *Handler) list(c *gin.Context) {
	var filter ListQuery
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q := pagination.FromContext(c)

	items, pag, err := h.svc.List(q, filter)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c, "템플릿을 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"data": t})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateTemplateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"data": t})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateTemplateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c, "템플릿을 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"data": t})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFound(c, "템플릿을 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"message": "Template deleted successfully"})
}
