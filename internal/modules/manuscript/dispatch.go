package manuscript

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/modules/template"
	"github.com/wiztheplanning/blogflow/internal/pkg/alimtalk"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dedupe keeps first occurrences, preserving order.
func dedupe(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// templatesByIDs returns active templates matching ids, in the ids' order.
// Unresolved ids are silently dropped.
func templatesByIDs(db *gorm.DB, ids []string) ([]models.TemplateModel, error) {
	var rows []models.TemplateModel
	if err := db.Where("id IN ? AND is_active = ?", ids, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := map[string]models.TemplateModel{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]models.TemplateModel, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func clientsByIDs(db *gorm.DB, ids []string) ([]models.ClientModel, error) {
	var rows []models.ClientModel
	if err := db.Where("id IN ? AND is_active = ?", ids, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := map[string]models.ClientModel{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]models.ClientModel, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Dispatch is the bulk-send orchestrator. It fans selected templates out
// over selected clients: one group per client, clients outer and templates
// inner so the first manuscript created for a client is always its group
// representative. All rows and counter increments are persisted in one
// transaction before any notification leaves the building.
func (s *Service) Dispatch(ctx context.Context, dto *DispatchDTO) (*DispatchResult, error) {
	templateIDs := dedupe(dto.TemplateIDs)
	legacy := false
	if len(templateIDs) == 0 && dto.TemplateID != "" {
		templateIDs = []string{dto.TemplateID}
		legacy = true
	}
	if len(templateIDs) == 0 {
		return nil, ErrNoTemplates
	}
	if len(templateIDs) > 2 {
		return nil, ErrTooManyTemplates
	}

	rewritten, err := dto.RewrittenMap(templateIDs)
	if err != nil {
		return nil, err
	}

	templates, err := templatesByIDs(s.db, templateIDs)
	if err != nil {
		return nil, err
	}
	clients, err := clientsByIDs(s.db, dedupe(dto.ClientIDs))
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{
		Manuscripts:  []models.ManuscriptModel{},
		ConfirmLinks: []ConfirmLink{},
		Alimtalk:     alimtalk.Summary{Errors: []string{}},
	}
	if len(templates) == 0 || len(clients) == 0 {
		return result, nil
	}

	// the legacy singular path keeps its ungrouped one-manuscript semantics
	grouped := !legacy
	var msgs []alimtalk.Message

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, client := range clients {
			var groupID *string
			if grouped {
				gid := uuid.NewString()
				groupID = &gid
			}

			var repToken, repID string
			for i, tpl := range templates {
				title := template.Render(tpl.Title, &client)
				content := template.Render(tpl.Content, &client)
				if rw, ok := rewritten[tpl.ID][client.ID]; ok {
					if rw.Title != "" {
						title = rw.Title
					}
					if rw.Content != "" {
						content = rw.Content
					}
				}

				m := models.ManuscriptModel{
					ClientID:     client.ID,
					TemplateID:   &tpl.ID,
					Title:        title,
					Content:      content,
					Status:       models.StatusPending,
					ConfirmToken: uuid.NewString(),
					GroupID:      groupID,
					SentAt:       now,
				}
				if err := tx.Create(&m).Error; err != nil {
					return err
				}
				result.Manuscripts = append(result.Manuscripts, m)
				if i == 0 {
					repToken = m.ConfirmToken
					repID = m.ID
				}
			}

			url := s.ConfirmURL(repToken)
			result.ConfirmLinks = append(result.ConfirmLinks, ConfirmLink{
				ClientID:   client.ID,
				ClientName: client.Name,
				URL:        url,
			})
			msgs = append(msgs, alimtalk.Message{
				Phone:        alimtalk.NormalizePhone(models.FieldOrEmpty(client.Contact)),
				ClientName:   client.Name,
				ConfirmURL:   url,
				Code:         alimtalk.CodeConfirmRequest,
				ClientID:     client.ID,
				ManuscriptID: repID,
			})
		}

		// one increment per client per template
		for _, tpl := range templates {
			if err := tx.Model(&models.TemplateModel{}).
				Where("id = ?", tpl.ID).
				UpdateColumn("send_count", gorm.Expr("send_count + ?", len(clients))).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Alimtalk = s.notifier.SendBulk(ctx, msgs)

	s.logger.Info("대량 발송 완료",
		zap.Int("templates", len(templates)),
		zap.Int("clients", len(clients)),
		zap.Int("manuscripts", len(result.Manuscripts)),
		zap.Int("notify_failed", result.Alimtalk.Failed),
	)
	return result, nil
}
