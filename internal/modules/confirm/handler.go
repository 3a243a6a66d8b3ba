package confirm

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/modules/manuscript"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
)

type Handler struct{ svc *manuscript.Service }

func NewHandler(svc *manuscript.Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/confirm")

	g.GET("/:token", h.view)
	g.POST("/:token", h.act)
}

// manuscriptView is one group member as shown on the confirmation page.
type manuscriptView struct {
	ID              string                  `json:"id"`
	Title           string                  `json:"title"`
	Content         string                  `json:"content"`
	ContentHTML     string                  `json:"content_html"`
	Status          models.ManuscriptStatus `json:"status"`
	RevisionRequest *string                 `json:"revision_request"`
	RevisionCount   int                     `json:"revision_count"`
	Topic           *string                 `json:"topic"`
}

type confirmView struct {
	ClientName   string           `json:"client_name"`
	Region       string           `json:"region"`
	BusinessType string           `json:"business_type"`
	Grouped      bool             `json:"grouped"`
	Manuscripts  []manuscriptView `json:"manuscripts"`
}

// actionDTO is the advertiser's decision.
type actionDTO struct {
	Action          string `json:"action" binding:"required,oneof=approve revision"`
	RevisionRequest string `json:"revision_request"`
	ManuscriptID    string `json:"manuscript_id"`
}

func (h *Handler) view(c *gin.Context) {
	gv, err := h.svc.GetByToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, manuscript.ErrNotFound) {
			response.NotFound(c, "유효하지 않은 링크입니다.")
			return
		}
		response.InternalError(c, err)
		return
	}

	view := confirmView{Grouped: gv.Representative.GroupID != nil}
	if cl := gv.Representative.Client; cl != nil {
		view.ClientName = cl.Name
		view.Region = cl.Region
		view.BusinessType = cl.BusinessType
	}
	for _, m := range gv.Siblings {
		mv := manuscriptView{
			ID:              m.ID,
			Title:           m.Title,
			Content:         m.Content,
			ContentHTML:     renderHTML(m.Content),
			Status:          m.Status,
			RevisionRequest: m.RevisionRequest,
			RevisionCount:   m.RevisionCount,
		}
		if m.Template != nil {
			mv.Topic = m.Template.Topic
		}
		view.Manuscripts = append(view.Manuscripts, mv)
	}
	response.OK(c, gin.H{"data": view})
}

func (h *Handler) act(c *gin.Context) {
	var dto actionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token := c.Param("token")

	var outcome *manuscript.ConfirmOutcome
	var err error
	switch dto.Action {
	case "approve":
		outcome, err = h.svc.ApproveByToken(token, dto.ManuscriptID)
	case "revision":
		outcome, err = h.svc.RequestRevisionByToken(token, dto.RevisionRequest, dto.ManuscriptID)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, gin.H{"data": outcome})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var ap *manuscript.AlreadyProcessedError
	switch {
	case errors.As(err, &ap):
		response.BadRequestWith(c, "이미 처리된 원고입니다.", gin.H{"status": ap.Status})
	case errors.Is(err, manuscript.ErrNotFound):
		response.NotFound(c, "유효하지 않은 링크입니다.")
	case errors.Is(err, manuscript.ErrForbidden):
		response.Forbidden(c, "해당 원고에 대한 권한이 없습니다.")
	case errors.Is(err, manuscript.ErrEmptyRevision):
		response.BadRequest(c, "수정 요청 내용을 입력해주세요.")
	default:
		response.InternalError(c, err)
	}
}
