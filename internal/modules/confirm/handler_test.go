package confirm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/modules/manuscript"
	"github.com/wiztheplanning/blogflow/internal/pkg/alimtalk"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type nopGateway struct{}

func (nopGateway) Send(ctx context.Context, code alimtalk.Code, phone string, vars map[string]string) (string, error) {
	return "nop", nil
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.ClientModel{}, &models.TemplateModel{}, &models.ManuscriptModel{}, &models.NotificationLogModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	notifier := alimtalk.NewService(nopGateway{}, db, 0, nil)
	svc := manuscript.NewService(db, notifier, "http://localhost:3000", nil)

	r := gin.New()
	api := r.Group("/api")
	NewHandler(svc).RegisterRoutes(api)
	return r, db
}

func seedManuscript(t *testing.T, db *gorm.DB, status models.ManuscriptStatus) *models.ManuscriptModel {
	t.Helper()
	client := models.ClientModel{Name: "가나학원", Region: "강남", BusinessType: "수학학원", IsActive: true}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	m := models.ManuscriptModel{
		ClientID:     client.ID,
		Title:        "겨울방학 특강 안내",
		Content:      "## 소개\n\n**강남** 최고의 학원입니다.",
		Status:       status,
		ConfirmToken: uuid.NewString(),
		SentAt:       time.Now(),
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed manuscript: %v", err)
	}
	return &m
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestViewUnknownTokenReturns404(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/confirm/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestViewRendersContentHTML(t *testing.T) {
	r, db := setupRouter(t)
	m := seedManuscript(t, db, models.StatusPending)

	w := doJSON(t, r, http.MethodGet, "/api/confirm/"+m.ConfirmToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data struct {
			ClientName  string `json:"client_name"`
			Manuscripts []struct {
				ContentHTML string `json:"content_html"`
			} `json:"manuscripts"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.ClientName != "가나학원" {
		t.Errorf("client_name = %q", resp.Data.ClientName)
	}
	if len(resp.Data.Manuscripts) != 1 {
		t.Fatalf("manuscripts = %d, want 1", len(resp.Data.Manuscripts))
	}
	html := resp.Data.Manuscripts[0].ContentHTML
	if !strings.Contains(html, "<h2") || !strings.Contains(html, "<strong>강남</strong>") {
		t.Errorf("content_html missing markdown rendering: %q", html)
	}
}

func TestApproveActionTransitionsManuscript(t *testing.T) {
	r, db := setupRouter(t)
	m := seedManuscript(t, db, models.StatusPending)

	w := doJSON(t, r, http.MethodPost, "/api/confirm/"+m.ConfirmToken, gin.H{"action": "approve"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var stored models.ManuscriptModel
	db.First(&stored, "id = ?", m.ID)
	if stored.Status != models.StatusApproved {
		t.Errorf("status = %s, want approved", stored.Status)
	}
}

func TestAlreadyProcessedIncludesCurrentStatus(t *testing.T) {
	r, db := setupRouter(t)
	m := seedManuscript(t, db, models.StatusApproved)

	w := doJSON(t, r, http.MethodPost, "/api/confirm/"+m.ConfirmToken, gin.H{"action": "approve"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "approved" {
		t.Errorf("status field = %q, want approved", resp.Status)
	}
}

func TestForeignManuscriptIDForbidden(t *testing.T) {
	r, db := setupRouter(t)
	m := seedManuscript(t, db, models.StatusPending)
	other := seedManuscript(t, db, models.StatusPending)

	w := doJSON(t, r, http.MethodPost, "/api/confirm/"+m.ConfirmToken, gin.H{
		"action":        "approve",
		"manuscript_id": other.ID,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRevisionActionRequiresText(t *testing.T) {
	r, db := setupRouter(t)
	m := seedManuscript(t, db, models.StatusPending)

	w := doJSON(t, r, http.MethodPost, "/api/confirm/"+m.ConfirmToken, gin.H{"action": "revision"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRevisionActionRecordsRequest(t *testing.T) {
	r, db := setupRouter(t)
	m := seedManuscript(t, db, models.StatusPending)

	w := doJSON(t, r, http.MethodPost, "/api/confirm/"+m.ConfirmToken, gin.H{
		"action":           "revision",
		"revision_request": "두 번째 문단을 빼주세요",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var stored models.ManuscriptModel
	db.First(&stored, "id = ?", m.ID)
	if stored.Status != models.StatusRevision {
		t.Errorf("status = %s, want revision", stored.Status)
	}
	if stored.RevisionRequest == nil || *stored.RevisionRequest != "두 번째 문단을 빼주세요" {
		t.Errorf("revision_request = %v", stored.RevisionRequest)
	}
	if stored.RevisionCount != 1 {
		t.Errorf("revision_count = %d, want 1", stored.RevisionCount)
	}
}
