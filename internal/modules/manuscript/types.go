package manuscript

import (
	"encoding/json"
	"errors"

	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/pkg/alimtalk"
)

var (
	// ErrNotFound means the manuscript, token, client or template did not
	// resolve. The confirm endpoint deliberately reports unknown and invalid
	// tokens identically.
	ErrNotFound = errors.New("manuscript not found")
	// ErrEmptyRevision means a revision request arrived without text.
	ErrEmptyRevision = errors.New("revision request text is required")
	// ErrInvalidStatus means a staff update carried an unknown status value.
	ErrInvalidStatus = errors.New("invalid manuscript status")
	// ErrForbidden means the manuscript_id sent with a token does not belong
	// to that token's group.
	ErrForbidden = errors.New("manuscript does not belong to this confirmation group")
	// ErrTooManyTemplates means the bulk dispatch was given more than two
	// distinct templates.
	ErrTooManyTemplates = errors.New("at most two templates per dispatch")
	// ErrNoTemplates means the bulk dispatch was given no template at all.
	ErrNoTemplates = errors.New("at least one template is required")
)

// AlreadyProcessedError is returned when a confirm action finds no pending
// manuscript left in its target set. Status is the representative
// manuscript's current status, surfaced to the advertiser UI.
type AlreadyProcessedError struct {
	Status models.ManuscriptStatus
}

func (e *AlreadyProcessedError) Error() string {
	return "already processed: " + string(e.Status)
}

// ConfirmOutcome reports a group approve/revision action.
type ConfirmOutcome struct {
	Updated []models.ManuscriptModel `json:"updated"`
	Count   int                      `json:"count"`
}

// GroupView is the advertiser-facing confirmation page payload: the token's
// manuscript plus, when grouped, every sibling ordered by creation.
type GroupView struct {
	Representative *models.ManuscriptModel  `json:"manuscript"`
	Siblings       []models.ManuscriptModel `json:"group"`
}

// RewrittenContent is one pre-rewritten title/content pair supplied by the
// dispatch caller, overriding the template renderer for one
// (template, client) combination.
type RewrittenContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RewrittenMap is keyed template_id then client_id.
type RewrittenMap map[string]map[string]RewrittenContent

// DispatchDTO is the bulk-create request body. template_ids carries one or
// two templates; the singular template_id is the legacy single-template path
// and takes the flat client_id-keyed rewritten map.
type DispatchDTO struct {
	TemplateIDs       []string        `json:"template_ids"`
	TemplateID        string          `json:"template_id"`
	ClientIDs         []string        `json:"client_ids" binding:"required,min=1"`
	RewrittenContents json.RawMessage `json:"rewritten_contents"`
}

// RewrittenMap normalizes the raw rewritten_contents payload. The legacy
// single-template path sends a flat client_id map which is nested under the
// lone template id here.
func (d *DispatchDTO) RewrittenMap(templateIDs []string) (RewrittenMap, error) {
	if len(d.RewrittenContents) == 0 {
		return nil, nil
	}
	if d.TemplateID != "" && len(d.TemplateIDs) == 0 {
		var flat map[string]RewrittenContent
		if err := json.Unmarshal(d.RewrittenContents, &flat); err != nil {
			return nil, err
		}
		if len(templateIDs) == 0 {
			return nil, nil
		}
		return RewrittenMap{templateIDs[0]: flat}, nil
	}
	var nested RewrittenMap
	if err := json.Unmarshal(d.RewrittenContents, &nested); err != nil {
		return nil, err
	}
	return nested, nil
}

// ConfirmLink is the one advertiser-facing link per dispatched client.
type ConfirmLink struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	URL        string `json:"url"`
}

// DispatchResult is the orchestrator's response.
type DispatchResult struct {
	Manuscripts  []models.ManuscriptModel `json:"data"`
	ConfirmLinks []ConfirmLink            `json:"confirmLinks"`
	Alimtalk     alimtalk.Summary         `json:"alimtalk"`
}

// UpdateManuscriptDTO is the staff PATCH body.
type UpdateManuscriptDTO struct {
	Status          *models.ManuscriptStatus `json:"status"`
	Title           *string                  `json:"title"`
	Content         *string                  `json:"content"`
	RevisionRequest *string                  `json:"revision_request"`
}

// ResendDTO optionally replaces title/content before the re-send.
type ResendDTO struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// ChangeTemplateDTO swaps a manuscript onto a different template. Title and
// content default to the new template rendered against the client.
type ChangeTemplateDTO struct {
	TemplateID string  `json:"template_id" binding:"required"`
	Title      *string `json:"title"`
	Content    *string `json:"content"`
}

// CustomSendDTO creates and dispatches one template-less manuscript.
type CustomSendDTO struct {
	ClientID string `json:"client_id" binding:"required"`
	Title    string `json:"title"    binding:"required"`
	Content  string `json:"content"  binding:"required"`
}

// ListQuery holds query params for listing manuscripts.
type ListQuery struct {
	Status           string `form:"status"`
	ClientID         string `form:"client_id"`
	ExcludeCancelled bool   `form:"exclude_cancelled"`
}

// Stats aggregates manuscripts per status.
type Stats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}
