package client

import (
	"path/filepath"
	"testing"

	"github.com/wiztheplanning/blogflow/internal/models"
	"github.com/wiztheplanning/blogflow/internal/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
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
	return NewService(db), db
}

func strptr(s string) *string { return &s }

func TestCreateDefaultsToTemplateType(t *testing.T) {
	svc, _ := testService(t)

	cl, err := svc.Create(&CreateClientDTO{Name: "가나학원", Region: "강남", BusinessType: "수학학원"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cl.ClientType != models.ClientTypeTemplate {
		t.Errorf("client_type = %s, want template", cl.ClientType)
	}
	if !cl.IsActive {
		t.Error("new client should be active")
	}
}

func TestListHidesInactiveByDefault(t *testing.T) {
	svc, _ := testService(t)

	active, err := svc.Create(&CreateClientDTO{Name: "활성", Region: "강남", BusinessType: "수학학원"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inactive, err := svc.Create(&CreateClientDTO{Name: "비활성", Region: "강남", BusinessType: "수학학원"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Delete(inactive.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	items, _, err := svc.List(pagination.Query{Page: 1, Limit: 20}, ListQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != active.ID {
		t.Fatalf("default list = %d items, want only the active client", len(items))
	}

	// explicit is_active=false surfaces the deactivated client
	no := false
	items, _, err = svc.List(pagination.Query{Page: 1, Limit: 20}, ListQuery{IsActive: &no})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != inactive.ID {
		t.Fatalf("inactive list = %d items, want only the deactivated client", len(items))
	}
}

func TestDeleteSoftDeactivatesAndKeepsRecord(t *testing.T) {
	svc, db := testService(t)

	cl, err := svc.Create(&CreateClientDTO{Name: "가나학원", Region: "강남", BusinessType: "수학학원"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ok, err := svc.Delete(cl.ID)
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v", ok, err)
	}

	var stored models.ClientModel
	if err := db.First(&stored, "id = ?", cl.ID).Error; err != nil {
		t.Fatalf("record should survive deactivation: %v", err)
	}
	if stored.IsActive {
		t.Error("is_active should be false after delete")
	}

	ok, err = svc.Delete("no-such-id")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok {
		t.Error("deleting an unknown id should report false")
	}
}

func TestUpdateReactivatesClient(t *testing.T) {
	svc, _ := testService(t)

	cl, err := svc.Create(&CreateClientDTO{Name: "가나학원", Region: "강남", BusinessType: "수학학원"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Delete(cl.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	yes := true
	updated, err := svc.Update(cl.ID, &UpdateClientDTO{
		IsActive: &yes,
		Manager:  strptr("주미"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.IsActive {
		t.Error("client should be active again")
	}
	if updated.Manager == nil || *updated.Manager != "주미" {
		t.Errorf("manager = %v, want 주미", updated.Manager)
	}
}
