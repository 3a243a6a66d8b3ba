package client

import (
	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/pkg/pagination"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/clients")

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/meta", h.meta)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

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

// meta exposes the closed sets the admin UI builds its pickers from.
func (h *Handler) meta(c *gin.Context) {
	response.OK(c, gin.H{
		"business_types": models.BusinessTypes,
		"managers":       models.Managers,
	})
}

func (h *Handler) get(c *gin.Context) {
	cl, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cl == nil {
		response.NotFound(c, "고객을 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"data": cl})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateClientDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cl, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"data": cl})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateClientDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cl, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cl == nil {
		response.NotFound(c, "고객을 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"data": cl})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFound(c, "고객을 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"message": "Client deactivated successfully"})
}
