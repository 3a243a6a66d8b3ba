package backup

import (
	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/backups")

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:filename", h.download)
	g.DELETE("/:filename", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	response.OK(c, gin.H{"data": h.svc.List()})
}

func (h *Handler) create(c *gin.Context) {
	item, err := h.svc.Create(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"data": item})
}

func (h *Handler) download(c *gin.Context) {
	p, ok := h.svc.Path(c.Param("filename"))
	if !ok {
		response.NotFound(c, "백업 파일을 찾을 수 없습니다.")
		return
	}
	c.FileAttachment(p, c.Param("filename"))
}

func (h *Handler) delete(c *gin.Context) {
	if !h.svc.Delete(c.Param("filename")) {
		response.NotFound(c, "백업 파일을 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"message": "Backup deleted successfully"})
}
