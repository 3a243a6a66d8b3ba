package manuscript

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/modules/template"
	"github.com/wiztheplanning/blogflow/internal/pkg/alimtalk"
	"github.com/wiztheplanning/blogflow/internal/pkg/pagination"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the manuscript lifecycle engine. All counter updates go through
// atomic conditional writes so concurrent confirmations and double-clicks
// cannot double-increment.
type Service struct {
	db       *gorm.DB
	notifier *alimtalk.Service
	appURL   string
	logger   *zap.Logger
}

func NewService(db *gorm.DB, notifier *alimtalk.Service, appURL string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, notifier: notifier, appURL: appURL, logger: logger.Named("ManuscriptService")}
}

// ConfirmURL builds the advertiser-facing confirmation link for a token.
func (s *Service) ConfirmURL(token string) string {
	return s.appURL + "/confirm/" + token
}

func (s *Service) List(q pagination.Query, filter ListQuery) ([]models.ManuscriptModel, response.Pagination, error) {
	tx := s.db.Model(&models.ManuscriptModel{}).
		Preload("Client").
		Preload("Template").
		Order("sent_at DESC")

	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	} else if filter.ExcludeCancelled {
		tx = tx.Where("status <> ?", models.StatusCancelled)
	}
	if filter.ClientID != "" {
		tx = tx.Where("client_id = ?", filter.ClientID)
	}

	var items []models.ManuscriptModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.ManuscriptModel, error) {
	var m models.ManuscriptModel
	err := s.db.Preload("Client").Preload("Template").First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetByToken resolves a confirm token to its manuscript and, when grouped,
// all group siblings ordered by creation.
func (s *Service) GetByToken(token string) (*GroupView, error) {
	var rep models.ManuscriptModel
	err := s.db.Preload("Client").Preload("Template").
		First(&rep, "confirm_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	view := &GroupView{Representative: &rep}
	if rep.GroupID != nil {
		err = s.db.Preload("Client").Preload("Template").
			Where("group_id = ?", *rep.GroupID).
			Order("created_at ASC, id ASC").
			Find(&view.Siblings).Error
		if err != nil {
			return nil, err
		}
	} else {
		view.Siblings = []models.ManuscriptModel{rep}
	}
	return view, nil
}

// resolveTargets determines the manuscripts a token-borne action applies to.
// An explicit manuscript_id must be the token's own manuscript or one of its
// group siblings.
func (s *Service) resolveTargets(token, manuscriptID string) (*models.ManuscriptModel, []models.ManuscriptModel, error) {
	var rep models.ManuscriptModel
	if err := s.db.First(&rep, "confirm_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if manuscriptID != "" {
		if manuscriptID == rep.ID {
			return &rep, []models.ManuscriptModel{rep}, nil
		}
		if rep.GroupID == nil {
			return nil, nil, ErrForbidden
		}
		var target models.ManuscriptModel
		if err := s.db.First(&target, "id = ?", manuscriptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrForbidden
			}
			return nil, nil, err
		}
		if target.GroupID == nil || *target.GroupID != *rep.GroupID {
			return nil, nil, ErrForbidden
		}
		return &rep, []models.ManuscriptModel{target}, nil
	}

	if rep.GroupID != nil {
		var siblings []models.ManuscriptModel
		if err := s.db.Where("group_id = ?", *rep.GroupID).
			Order("created_at ASC, id ASC").
			Find(&siblings).Error; err != nil {
			return nil, nil, err
		}
		return &rep, siblings, nil
	}
	return &rep, []models.ManuscriptModel{rep}, nil
}

// alreadyProcessed reloads the representative and wraps its current status.
func (s *Service) alreadyProcessed(repID string) error {
	var cur models.ManuscriptModel
	if err := s.db.Select("status").First(&cur, "id = ?", repID).Error; err != nil {
		return err
	}
	return &AlreadyProcessedError{Status: cur.Status}
}

// ApproveByToken transitions every pending manuscript in the token's target
// set to approved. The update is conditional on status so a racing second
// call sees zero affected rows and gets AlreadyProcessed.
func (s *Service) ApproveByToken(token, manuscriptID string) (*ConfirmOutcome, error) {
	rep, targets, err := s.resolveTargets(token, manuscriptID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	perTemplate := map[string]int{}
	var updated []models.ManuscriptModel

	for _, m := range targets {
		res := s.db.Model(&models.ManuscriptModel{}).
			Where("id = ? AND status = ?", m.ID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":       models.StatusApproved,
				"confirmed_at": now,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		m.Status = models.StatusApproved
		m.ConfirmedAt = &now
		updated = append(updated, m)
		if m.TemplateID != nil {
			perTemplate[*m.TemplateID]++
		}
	}

	if len(updated) == 0 {
		return nil, s.alreadyProcessed(rep.ID)
	}

	// aggregated per template, equivalent to per-row increments
	for tid, n := range perTemplate {
		if err := s.db.Model(&models.TemplateModel{}).
			Where("id = ?", tid).
			UpdateColumn("approve_count", gorm.Expr("approve_count + ?", n)).Error; err != nil {
			return nil, err
		}
	}

	s.logger.Info("원고 승인",
		zap.String("token", token),
		zap.Int("count", len(updated)),
	)
	return &ConfirmOutcome{Updated: updated, Count: len(updated)}, nil
}

// RequestRevisionByToken transitions every pending target to revision and
// bumps each row's revision counter atomically.
func (s *Service) RequestRevisionByToken(token, revisionText, manuscriptID string) (*ConfirmOutcome, error) {
	if revisionText == "" {
		return nil, ErrEmptyRevision
	}
	rep, targets, err := s.resolveTargets(token, manuscriptID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var updated []models.ManuscriptModel

	for _, m := range targets {
		res := s.db.Model(&models.ManuscriptModel{}).
			Where("id = ? AND status = ?", m.ID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":           models.StatusRevision,
				"revision_request": revisionText,
				"revision_count":   gorm.Expr("revision_count + 1"),
				"confirmed_at":     now,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		m.Status = models.StatusRevision
		m.RevisionRequest = &revisionText
		m.RevisionCount++
		m.ConfirmedAt = &now
		updated = append(updated, m)
	}

	if len(updated) == 0 {
		return nil, s.alreadyProcessed(rep.ID)
	}

	s.logger.Info("수정 요청",
		zap.String("token", token),
		zap.Int("count", len(updated)),
	)
	return &ConfirmOutcome{Updated: updated, Count: len(updated)}, nil
}

// Resend issues a fresh confirm token and returns the manuscript to pending.
// revision_count and group_id survive; the advertiser is re-notified with the
// revision-complete message when the manuscript was in revision.
func (s *Service) Resend(ctx context.Context, id string, dto *ResendDTO) (*models.ManuscriptModel, *alimtalk.Result, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, ErrNotFound
	}

	wasRevision := m.Status == models.StatusRevision
	newToken := uuid.NewString()

	updates := map[string]interface{}{
		"confirm_token":    newToken,
		"status":           models.StatusPending,
		"sent_at":          time.Now(),
		"confirmed_at":     nil,
		"revision_request": nil,
	}
	if dto != nil && dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto != nil && dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if err := s.db.Model(m).Updates(updates).Error; err != nil {
		return nil, nil, err
	}

	code := alimtalk.CodeConfirmRequest
	if wasRevision {
		code = alimtalk.CodeRevisionDone
	}
	res := s.notifyClient(ctx, m.Client, m.ID, newToken, code)

	fresh, err := s.GetByID(id)
	if err != nil {
		return nil, res, err
	}
	return fresh, res, nil
}

func (s *Service) notifyClient(ctx context.Context, client *models.ClientModel, manuscriptID, token string, code alimtalk.Code) *alimtalk.Result {
	if client == nil {
		return nil
	}
	res := s.notifier.SendOne(ctx, alimtalk.Message{
		Phone:        alimtalk.NormalizePhone(models.FieldOrEmpty(client.Contact)),
		ClientName:   client.Name,
		ConfirmURL:   s.ConfirmURL(token),
		Code:         code,
		ClientID:     client.ID,
		ManuscriptID: manuscriptID,
	})
	return &res
}

// ChangeTemplate cancels a manuscript and replaces it with a fresh one on a
// different template inside a single transaction; there is no partial state
// to compensate. The replacement inherits revision_count but leaves its
// group, and the new template's send_count goes up by one.
func (s *Service) ChangeTemplate(ctx context.Context, id string, dto *ChangeTemplateDTO) (*models.ManuscriptModel, *alimtalk.Result, error) {
	var replacement models.ManuscriptModel
	var client *models.ClientModel

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old models.ManuscriptModel
		if err := tx.Preload("Client").First(&old, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		client = old.Client

		var tpl models.TemplateModel
		if err := tx.First(&tpl, "id = ? AND is_active = ?", dto.TemplateID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&old).Update("status", models.StatusCancelled).Error; err != nil {
			return err
		}

		title := template.Render(tpl.Title, client)
		content := template.Render(tpl.Content, client)
		if dto.Title != nil {
			title = *dto.Title
		}
		if dto.Content != nil {
			content = *dto.Content
		}

		replacement = models.ManuscriptModel{
			ClientID:      old.ClientID,
			TemplateID:    &tpl.ID,
			Title:         title,
			Content:       content,
			Status:        models.StatusPending,
			RevisionCount: old.RevisionCount,
			ConfirmToken:  uuid.NewString(),
			SentAt:        time.Now(),
		}
		if err := tx.Create(&replacement).Error; err != nil {
			return err
		}

		return tx.Model(&models.TemplateModel{}).
			Where("id = ?", tpl.ID).
			UpdateColumn("send_count", gorm.Expr("send_count + 1")).Error
	})
	if err != nil {
		return nil, nil, err
	}

	res := s.notifyClient(ctx, client, replacement.ID, replacement.ConfirmToken, alimtalk.CodeConfirmRequest)
	return &replacement, res, nil
}

// CustomSend creates one template-less manuscript and notifies the client.
func (s *Service) CustomSend(ctx context.Context, dto *CustomSendDTO) (*models.ManuscriptModel, *alimtalk.Result, error) {
	var client models.ClientModel
	if err := s.db.First(&client, "id = ? AND is_active = ?", dto.ClientID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	m := models.ManuscriptModel{
		ClientID:     client.ID,
		Title:        dto.Title,
		Content:      dto.Content,
		Status:       models.StatusPending,
		ConfirmToken: uuid.NewString(),
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, nil, err
	}

	res := s.notifyClient(ctx, &client, m.ID, m.ConfirmToken, alimtalk.CodeConfirmRequest)
	return &m, res, nil
}

// Update is the staff patch path; counters are out of its reach.
func (s *Service) Update(id string, dto *UpdateManuscriptDTO) (*models.ManuscriptModel, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}

	updates := map[string]interface{}{}
	if dto.Status != nil {
		if !dto.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *dto.Status
		// approved/revision count as a confirmation even when staff sets it
		if *dto.Status == models.StatusApproved || *dto.Status == models.StatusRevision {
			updates["confirmed_at"] = time.Now()
		}
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.RevisionRequest != nil {
		updates["revision_request"] = *dto.RevisionRequest
	}
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.db.Model(m).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Stats aggregates manuscripts per status for the dashboard.
func (s *Service) Stats() (*Stats, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := s.db.Model(&models.ManuscriptModel{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	st := &Stats{ByStatus: map[string]int64{}}
	for _, status := range models.Statuses {
		st.ByStatus[string(status)] = 0
	}
	for _, r := range rows {
		st.ByStatus[r.Status] = r.N
		st.Total += r.N
	}
	return st, nil
}

// AutoApproveOverdue moves pending manuscripts older than the SLA window to
// auto_approved. Counters and confirmed_at are untouched: this is not an
// advertiser confirmation.
func (s *Service) AutoApproveOverdue(window time.Duration) (int64, error) {
	cutoff := time.Now().Add(-window)
	res := s.db.Model(&models.ManuscriptModel{}).
		Where("status = ? AND sent_at < ?", models.StatusPending, cutoff).
		Update("status", models.StatusAutoApproved)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.logger.Info("기한 초과 원고 자동 승인", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

// RemindUnconfirmed nudges group representatives whose manuscripts have been
// pending past the reminder window without a reminder yet. Groups whose send
// went through get reminded_at stamped across every member so the next sweep
// skips them.
func (s *Service) RemindUnconfirmed(ctx context.Context, window time.Duration) (alimtalk.Summary, error) {
	cutoff := time.Now().Add(-window)

	var overdue []models.ManuscriptModel
	err := s.db.Preload("Client").
		Where("status = ? AND sent_at < ? AND reminded_at IS NULL", models.StatusPending, cutoff).
		Order("created_at ASC, id ASC").
		Find(&overdue).Error
	if err != nil {
		return alimtalk.Summary{}, err
	}

	// first pending row per group is the representative; ungrouped rows
	// represent themselves
	seenGroup := map[string]bool{}
	var reps []models.ManuscriptModel
	for _, m := range overdue {
		if m.GroupID != nil {
			if seenGroup[*m.GroupID] {
				continue
			}
			seenGroup[*m.GroupID] = true
		}
		reps = append(reps, m)
	}
	if len(reps) == 0 {
		return alimtalk.Summary{Errors: []string{}}, nil
	}

	var msgs []alimtalk.Message
	for _, rep := range reps {
		var phone, name, clientID string
		if rep.Client != nil {
			phone = alimtalk.NormalizePhone(models.FieldOrEmpty(rep.Client.Contact))
			name = rep.Client.Name
			clientID = rep.Client.ID
		}
		msgs = append(msgs, alimtalk.Message{
			Phone:        phone,
			ClientName:   name,
			ConfirmURL:   s.ConfirmURL(rep.ConfirmToken),
			Code:         alimtalk.CodeReminder,
			ClientID:     clientID,
			ManuscriptID: rep.ID,
		})
	}

	sum := s.notifier.SendBulk(ctx, msgs)

	// failed sends stay unstamped so the next sweep retries them
	now := time.Now()
	for i, rep := range reps {
		if i >= len(sum.Results) || !sum.Results[i].Success {
			continue
		}
		tx := s.db.Model(&models.ManuscriptModel{})
		if rep.GroupID != nil {
			tx = tx.Where("group_id = ?", *rep.GroupID)
		} else {
			tx = tx.Where("id = ?", rep.ID)
		}
		if err := tx.Update("reminded_at", now).Error; err != nil {
			return sum, err
		}
	}
	return sum, nil
}
