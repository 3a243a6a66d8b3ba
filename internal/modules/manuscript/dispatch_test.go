package manuscript

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/wiztheplanning/blogflow/internal/models"
)

func TestDispatchTwoTemplatesThreeClients(t *testing.T) {
	svc, db, gw := newTestService(t)

	tplA := seedTemplate(t, db, "1월 템플릿 A")
	tplB := seedTemplate(t, db, "1월 템플릿 B")
	clients := []*models.ClientModel{
		seedClient(t, db, "가나학원"),
		seedClient(t, db, "다라카페"),
		seedClient(t, db, "마바헬스장"),
	}

	dto := &DispatchDTO{
		TemplateIDs: []string{tplA.ID, tplB.ID},
		ClientIDs:   []string{clients[0].ID, clients[1].ID, clients[2].ID},
	}
	res, err := svc.Dispatch(context.Background(), dto)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(res.Manuscripts) != 6 {
		t.Errorf("created %d manuscripts, want 6", len(res.Manuscripts))
	}
	if len(res.ConfirmLinks) != 3 {
		t.Errorf("returned %d confirm links, want 3", len(res.ConfirmLinks))
	}

	tokens := map[string]bool{}
	groups := map[string]bool{}
	for _, m := range res.Manuscripts {
		if tokens[m.ConfirmToken] {
			t.Errorf("duplicate confirm token %s", m.ConfirmToken)
		}
		tokens[m.ConfirmToken] = true
		if m.GroupID == nil {
			t.Fatal("manuscript missing group_id")
		}
		groups[*m.GroupID] = true
		if m.Status != models.StatusPending {
			t.Errorf("status = %s, want pending", m.Status)
		}
	}
	if len(groups) != 3 {
		t.Errorf("created %d groups, want 3", len(groups))
	}

	// each template's send_count goes up by the client count
	for _, tplID := range []string{tplA.ID, tplB.ID} {
		var tpl models.TemplateModel
		db.First(&tpl, "id = ?", tplID)
		if tpl.SendCount != 3 {
			t.Errorf("template %s send_count = %d, want 3", tplID, tpl.SendCount)
		}
	}

	// one notification per client, carrying the representative's link
	sends := gw.sends()
	if len(sends) != 3 {
		t.Fatalf("gateway got %d sends, want 3", len(sends))
	}
	if res.Alimtalk.Success != 3 || res.Alimtalk.Failed != 0 {
		t.Errorf("alimtalk summary = %+v, want 3 successes", res.Alimtalk)
	}

	// representative is the first manuscript created per client
	byClient := map[string][]models.ManuscriptModel{}
	for _, m := range res.Manuscripts {
		byClient[m.ClientID] = append(byClient[m.ClientID], m)
	}
	for _, link := range res.ConfirmLinks {
		first := byClient[link.ClientID][0]
		want := "http://localhost:3000/confirm/" + first.ConfirmToken
		if link.URL != want {
			t.Errorf("confirm link for %s = %s, want %s", link.ClientName, link.URL, want)
		}
	}
}

func TestDispatchDeduplicatesTemplates(t *testing.T) {
	svc, db, _ := newTestService(t)
	tpl := seedTemplate(t, db, "1월 템플릿")
	client := seedClient(t, db, "가나학원")

	res, err := svc.Dispatch(context.Background(), &DispatchDTO{
		TemplateIDs: []string{tpl.ID, tpl.ID},
		ClientIDs:   []string{client.ID},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(res.Manuscripts) != 1 {
		t.Errorf("created %d manuscripts, want 1 after dedupe", len(res.Manuscripts))
	}
}

func TestDispatchRejectsTooManyTemplates(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Dispatch(context.Background(), &DispatchDTO{
		TemplateIDs: []string{uuid.NewString(), uuid.NewString(), uuid.NewString()},
		ClientIDs:   []string{uuid.NewString()},
	})
	if !errors.Is(err, ErrTooManyTemplates) {
		t.Errorf("err = %v, want ErrTooManyTemplates", err)
	}
}

func TestDispatchSilentlyDropsUnresolvedIDs(t *testing.T) {
	svc, db, _ := newTestService(t)
	tpl := seedTemplate(t, db, "1월 템플릿")
	active := seedClient(t, db, "가나학원")
	inactive := seedClient(t, db, "폐업한곳")
	db.Model(inactive).Update("is_active", false)

	res, err := svc.Dispatch(context.Background(), &DispatchDTO{
		TemplateIDs: []string{tpl.ID},
		ClientIDs:   []string{active.ID, inactive.ID, uuid.NewString()},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(res.Manuscripts) != 1 {
		t.Errorf("created %d manuscripts, want 1", len(res.Manuscripts))
	}
	if res.Manuscripts[0].ClientID != active.ID {
		t.Errorf("manuscript created for wrong client")
	}
}

func TestDispatchRendersTemplateContent(t *testing.T) {
	svc, db, _ := newTestService(t)
	tpl := seedTemplate(t, db, "{{지역}} {{업체명}} 겨울 특강")
	client := seedClient(t, db, "가나학원")

	res, err := svc.Dispatch(context.Background(), &DispatchDTO{
		TemplateIDs: []string{tpl.ID},
		ClientIDs:   []string{client.ID},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	m := res.Manuscripts[0]
	if m.Title != "강남 가나학원 겨울 특강" {
		t.Errorf("rendered title = %q", m.Title)
	}
}

func TestDispatchPrefersRewrittenContent(t *testing.T) {
	svc, db, _ := newTestService(t)
	tplA := seedTemplate(t, db, "템플릿 A")
	tplB := seedTemplate(t, db, "템플릿 B")
	client := seedClient(t, db, "가나학원")

	rewritten := RewrittenMap{
		tplA.ID: {client.ID: {Title: "리라이팅된 제목", Content: "리라이팅된 본문"}},
	}
	raw, _ := json.Marshal(rewritten)

	res, err := svc.Dispatch(context.Background(), &DispatchDTO{
		TemplateIDs:       []string{tplA.ID, tplB.ID},
		ClientIDs:         []string{client.ID},
		RewrittenContents: raw,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	byTemplate := map[string]models.ManuscriptModel{}
	for _, m := range res.Manuscripts {
		byTemplate[*m.TemplateID] = m
	}
	if got := byTemplate[tplA.ID].Title; got != "리라이팅된 제목" {
		t.Errorf("rewritten pair title = %q", got)
	}
	if got := byTemplate[tplB.ID].Title; got != "템플릿 B" {
		t.Errorf("fallback pair title = %q, want rendered template", got)
	}
}

func TestDispatchLegacySingleTemplatePath(t *testing.T) {
	svc, db, _ := newTestService(t)
	tpl := seedTemplate(t, db, "레거시 템플릿")
	client := seedClient(t, db, "가나학원")

	flat := map[string]RewrittenContent{
		client.ID: {Title: "레거시 리라이팅", Content: "본문"},
	}
	raw, _ := json.Marshal(flat)

	res, err := svc.Dispatch(context.Background(), &DispatchDTO{
		TemplateID:        tpl.ID,
		ClientIDs:         []string{client.ID},
		RewrittenContents: raw,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(res.Manuscripts) != 1 {
		t.Fatalf("created %d manuscripts, want 1", len(res.Manuscripts))
	}
	m := res.Manuscripts[0]
	if m.GroupID != nil {
		t.Error("legacy path must not assign a group_id")
	}
	if m.Title != "레거시 리라이팅" {
		t.Errorf("legacy flat rewritten map ignored, title = %q", m.Title)
	}
	if len(res.ConfirmLinks) != 1 {
		t.Fatalf("confirm links = %d, want 1", len(res.ConfirmLinks))
	}
	want := "http://localhost:3000/confirm/" + m.ConfirmToken
	if res.ConfirmLinks[0].URL != want {
		t.Errorf("legacy link = %s, want the manuscript's own token", res.ConfirmLinks[0].URL)
	}
}

func TestDispatchNotificationFailuresDoNotAbort(t *testing.T) {
	svc, db, gw := newTestService(t)
	tpl := seedTemplate(t, db, "1월 템플릿")
	ok := seedClient(t, db, "가나학원")
	bad := seedClient(t, db, "나쁜번호학원")
	db.Model(bad).Update("contact", "010-9999-8888")
	gw.failPhones = map[string]string{"01099998888": "provider rejected"}

	res, err := svc.Dispatch(context.Background(), &DispatchDTO{
		TemplateIDs: []string{tpl.ID},
		ClientIDs:   []string{ok.ID, bad.ID},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(res.Manuscripts) != 2 {
		t.Errorf("created %d manuscripts, want 2 despite notify failure", len(res.Manuscripts))
	}
	if res.Alimtalk.Success != 1 || res.Alimtalk.Failed != 1 {
		t.Errorf("alimtalk summary = %+v, want 1 success 1 failure", res.Alimtalk)
	}
	if len(res.Alimtalk.Errors) != 1 {
		t.Errorf("errors = %v, want one entry", res.Alimtalk.Errors)
	}
}

func TestChangeTemplateScenario(t *testing.T) {
	svc, db, gw := newTestService(t)
	client := seedClient(t, db, "가나학원")
	oldTpl := seedTemplate(t, db, "이전 템플릿")
	newTpl := seedTemplate(t, db, "{{업체명}} 새 템플릿")

	group, token := seedGroup(t, db, client, oldTpl, 1)
	old := group[0]

	// drive it into revision first
	if _, err := svc.RequestRevisionByToken(token, "다른 템플릿으로 바꿔주세요", ""); err != nil {
		t.Fatalf("revision: %v", err)
	}
	var beforeSwap models.ManuscriptModel
	db.First(&beforeSwap, "id = ?", old.ID)

	replacement, _, err := svc.ChangeTemplate(context.Background(), old.ID, &ChangeTemplateDTO{
		TemplateID: newTpl.ID,
	})
	if err != nil {
		t.Fatalf("ChangeTemplate: %v", err)
	}

	var storedOld models.ManuscriptModel
	db.First(&storedOld, "id = ?", old.ID)
	if storedOld.Status != models.StatusCancelled {
		t.Errorf("old status = %s, want cancelled", storedOld.Status)
	}

	if replacement.Status != models.StatusPending {
		t.Errorf("replacement status = %s, want pending", replacement.Status)
	}
	if replacement.ConfirmToken == old.ConfirmToken {
		t.Error("replacement must carry a fresh confirm token")
	}
	if replacement.RevisionCount != beforeSwap.RevisionCount {
		t.Errorf("revision_count = %d, want inherited %d", replacement.RevisionCount, beforeSwap.RevisionCount)
	}
	if replacement.GroupID != nil {
		t.Error("replacement must leave its group")
	}
	if replacement.Title != "가나학원 새 템플릿" {
		t.Errorf("replacement title = %q, want rendered new template", replacement.Title)
	}

	var storedTpl models.TemplateModel
	db.First(&storedTpl, "id = ?", newTpl.ID)
	if storedTpl.SendCount != 1 {
		t.Errorf("new template send_count = %d, want 1", storedTpl.SendCount)
	}

	sends := gw.sends()
	if len(sends) != 1 {
		t.Fatalf("gateway got %d sends, want 1", len(sends))
	}
}

func TestChangeTemplateUnknownTemplate(t *testing.T) {
	svc, db, _ := newTestService(t)
	client := seedClient(t, db, "가나학원")
	group, _ := seedGroup(t, db, client, nil, 1)

	_, _, err := svc.ChangeTemplate(context.Background(), group[0].ID, &ChangeTemplateDTO{
		TemplateID: uuid.NewString(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// transaction rolled back: the old manuscript is untouched
	var stored models.ManuscriptModel
	db.First(&stored, "id = ?", group[0].ID)
	if stored.Status != models.StatusPending {
		t.Errorf("old manuscript status = %s after failed swap, want pending", stored.Status)
	}
}
