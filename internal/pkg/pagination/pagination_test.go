package pagination

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFromContextDefaultsAndClamps(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=0", 1, 20},
		{"page=-5&limit=-1", 1, 20},
		{"limit=1000", 1, 100},
		{"page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/clients?"+tt.query, nil)

		q := FromContext(c)
		if q.Page != tt.wantPage || q.Limit != tt.wantLimit {
			t.Errorf("query %q: got page=%d limit=%d, want page=%d limit=%d",
				tt.query, q.Page, q.Limit, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestPaginateMetadata(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.ClientModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	for i := 0; i < 25; i++ {
		c := models.ClientModel{Name: "고객", Region: "강남", BusinessType: "수학학원", IsActive: true}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	var page2 []models.ClientModel
	meta, err := Paginate(db.Model(&models.ClientModel{}), Query{Page: 2, Limit: 10}, &page2)
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	if len(page2) != 10 {
		t.Errorf("page 2 rows = %d, want 10", len(page2))
	}
	if meta.Total != 25 {
		t.Errorf("total = %d, want 25", meta.Total)
	}
	if meta.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", meta.TotalPages)
	}

	var page3 []models.ClientModel
	meta, err = Paginate(db.Model(&models.ClientModel{}), Query{Page: 3, Limit: 10}, &page3)
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	if len(page3) != 5 {
		t.Errorf("page 3 rows = %d, want 5", len(page3))
	}
}
