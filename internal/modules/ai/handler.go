package ai

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rewrite", h.rewrite)
	rg.POST("/custom-generate", h.generate)
}

type rewriteDTO struct {
	Title           string `json:"title"   binding:"required"`
	Content         string `json:"content" binding:"required"`
	RevisionRequest string `json:"revision_request"`
	Mode            string `json:"mode" binding:"omitempty,oneof=rewrite revision"`
}

type generateDTO struct {
	ClientID string `json:"client_id" binding:"required"`
	Topic    string `json:"topic"     binding:"required"`
}

func (h *Handler) rewrite(c *gin.Context) {
	var dto rewriteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	revision := ""
	if dto.Mode == "revision" {
		revision = dto.RevisionRequest
	}
	out, err := h.svc.Rewrite(c.Request.Context(), dto.Title, dto.Content, revision)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}

func (h *Handler) generate(c *gin.Context) {
	var dto generateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	out, err := h.svc.Generate(c.Request.Context(), dto.ClientID, dto.Topic)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			response.NotFound(c, "고객을 찾을 수 없습니다.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}
