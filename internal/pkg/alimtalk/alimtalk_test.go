package alimtalk

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/wiztheplanning/blogflow/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.NotificationLogModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type stubGateway struct {
	calls int
	fail  error
}

func (g *stubGateway) Send(ctx context.Context, code Code, phone string, vars map[string]string) (string, error) {
	g.calls++
	if g.fail != nil {
		return "", g.fail
	}
	return "stub-key", nil
}

func TestSendOneMissingPhoneFailsLocally(t *testing.T) {
	db := testDB(t)
	gw := &stubGateway{}
	svc := NewService(gw, db, 0, nil)

	res := svc.SendOne(context.Background(), Message{
		Phone:      "",
		ClientName: "가나학원",
		ConfirmURL: "http://localhost:3000/confirm/x",
		Code:       CodeConfirmRequest,
	})

	if res.Success {
		t.Error("send without phone must fail")
	}
	if res.Error != ErrNoPhone.Error() {
		t.Errorf("error = %q, want %q", res.Error, ErrNoPhone.Error())
	}
	if gw.calls != 0 {
		t.Errorf("gateway called %d times, want 0 (local failure)", gw.calls)
	}

	// failure is still logged
	var count int64
	db.Model(&models.NotificationLogModel{}).Where("status = ?", "fail").Count(&count)
	if count != 1 {
		t.Errorf("notification_logs fail rows = %d, want 1", count)
	}
}

func TestSendBulkAggregatesPerRecipient(t *testing.T) {
	db := testDB(t)
	gw := &stubGateway{}
	svc := NewService(gw, db, 0, nil)

	msgs := []Message{
		{Phone: "01011112222", ClientName: "가나학원", Code: CodeConfirmRequest},
		{Phone: "", ClientName: "번호없는곳", Code: CodeConfirmRequest},
		{Phone: "01033334444", ClientName: "다라카페", Code: CodeConfirmRequest},
	}
	sum := svc.SendBulk(context.Background(), msgs)

	if sum.Total != 3 || sum.Success != 2 || sum.Failed != 1 {
		t.Errorf("summary = %+v, want total 3 / success 2 / failed 1", sum)
	}
	if len(sum.Results) != 3 {
		t.Errorf("results = %d, want 3", len(sum.Results))
	}
	if len(sum.Errors) != 1 {
		t.Errorf("errors = %v, want one entry", sum.Errors)
	}

	var count int64
	db.Model(&models.NotificationLogModel{}).Count(&count)
	if count != 3 {
		t.Errorf("notification_logs rows = %d, want 3", count)
	}
}

func TestSendBulkGatewayErrorDoesNotAbort(t *testing.T) {
	db := testDB(t)
	gw := &stubGateway{fail: errors.New("provider down")}
	svc := NewService(gw, db, 0, nil)

	msgs := []Message{
		{Phone: "01011112222", ClientName: "가나학원", Code: CodeConfirmRequest},
		{Phone: "01033334444", ClientName: "다라카페", Code: CodeConfirmRequest},
	}
	sum := svc.SendBulk(context.Background(), msgs)

	if sum.Failed != 2 {
		t.Errorf("failed = %d, want 2", sum.Failed)
	}
	if gw.calls != 2 {
		t.Errorf("gateway calls = %d, want 2 (no early abort)", gw.calls)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"010-1234-5678": "01012345678",
		" 01012345678 ": "01012345678",
		"010-123-4567":  "0101234567",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidMobile(t *testing.T) {
	valid := []string{"01012345678", "010-1234-5678", "0101234567"}
	invalid := []string{"", "021234567", "010123456", "010123456789", "abc"}

	for _, p := range valid {
		if !ValidMobile(p) {
			t.Errorf("ValidMobile(%q) = false, want true", p)
		}
	}
	for _, p := range invalid {
		if ValidMobile(p) {
			t.Errorf("ValidMobile(%q) = true, want false", p)
		}
	}
}

func TestCodeValid(t *testing.T) {
	for _, c := range []Code{CodeConfirmRequest, CodeRevisionDone, CodeReminder} {
		if !c.Valid() {
			t.Errorf("Code(%q).Valid() = false", c)
		}
	}
	if Code("wiz9").Valid() {
		t.Error("unknown code reported valid")
	}
}
