// Package notification exposes the staff-facing direct alimtalk send,
// used to manually retry recipients that failed during a bulk dispatch.
package notification

import (
	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/pkg/alimtalk"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
)

type Handler struct{ svc *alimtalk.Service }

func NewHandler(svc *alimtalk.Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notifications/send", h.send)
}

type sendDTO struct {
	Phone        string        `json:"phone"         binding:"required"`
	ClientName   string        `json:"client_name"   binding:"required"`
	ConfirmURL   string        `json:"confirm_url"   binding:"required"`
	TemplateCode alimtalk.Code `json:"template_code"`
	ClientID     string        `json:"client_id"`
	ManuscriptID string        `json:"manuscript_id"`
}

func (h *Handler) send(c *gin.Context) {
	var dto sendDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.TemplateCode == "" {
		dto.TemplateCode = alimtalk.CodeConfirmRequest
	}
	if !dto.TemplateCode.Valid() {
		response.BadRequest(c, "유효하지 않은 템플릿 코드입니다.")
		return
	}
	if !alimtalk.ValidMobile(dto.Phone) {
		response.BadRequest(c, "유효하지 않은 휴대폰 번호입니다.")
		return
	}

	res := h.svc.SendOne(c.Request.Context(), alimtalk.Message{
		Phone:        alimtalk.NormalizePhone(dto.Phone),
		ClientName:   dto.ClientName,
		ConfirmURL:   dto.ConfirmURL,
		Code:         dto.TemplateCode,
		ClientID:     dto.ClientID,
		ManuscriptID: dto.ManuscriptID,
	})
	if !res.Success {
		response.OK(c, gin.H{"data": res, "message": "발송 실패"})
		return
	}
	response.OK(c, gin.H{"data": res})
}
