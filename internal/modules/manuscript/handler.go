package manuscript

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/pkg/pagination"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/manuscripts")

	g.GET("", h.list)
	g.POST("", h.dispatch)
	g.GET("/stats", h.stats)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.POST("/:id/resend", h.resend)
	g.POST("/:id/change-template", h.changeTemplate)

	rg.POST("/custom-send", h.customSend)
}

// writeError maps lifecycle engine errors onto the HTTP surface.
func writeError(c *gin.Context, err error) {
	var ap *AlreadyProcessedError
	switch {
	case errors.As(err, &ap):
		response.BadRequestWith(c, "이미 처리된 원고입니다.", gin.H{"status": ap.Status})
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "원고를 찾을 수 없습니다.")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, "해당 원고에 대한 권한이 없습니다.")
	case errors.Is(err, ErrEmptyRevision):
		response.BadRequest(c, "수정 요청 내용을 입력해주세요.")
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(c, "유효하지 않은 상태값입니다.")
	case errors.Is(err, ErrNoTemplates), errors.Is(err, ErrTooManyTemplates):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
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

func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.Stats()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": st})
}

func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c, "원고를 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"data": m})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateManuscriptDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c, "원고를 찾을 수 없습니다.")
		return
	}
	response.OK(c, gin.H{"data": m})
}

// POST /manuscripts — the bulk dispatch entry point.
func (h *Handler) dispatch(c *gin.Context) {
	var dto DispatchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.svc.Dispatch(c.Request.Context(), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, res)
}

func (h *Handler) resend(c *gin.Context) {
	var dto ResendDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, notify, err := h.svc.Resend(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"data": m, "alimtalk": notify})
}

func (h *Handler) changeTemplate(c *gin.Context) {
	var dto ChangeTemplateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, notify, err := h.svc.ChangeTemplate(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"data": m, "alimtalk": notify})
}

func (h *Handler) customSend(c *gin.Context) {
	var dto CustomSendDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, notify, err := h.svc.CustomSend(c.Request.Context(), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, gin.H{"data": m, "alimtalk": notify})
}
