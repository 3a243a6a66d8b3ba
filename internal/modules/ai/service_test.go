package ai

import "testing"

func TestParseRewrittenExtractsSections(t *testing.T) {
	raw := "[제목]\n강남 수학학원 겨울 특강 후기\n\n[본문]\n첫 문단입니다.\n\n두 번째 문단입니다."

	got := parseRewritten(raw, "원래 제목", "원래 본문")
	if got.Title != "강남 수학학원 겨울 특강 후기" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content != "첫 문단입니다.\n\n두 번째 문단입니다." {
		t.Errorf("content = %q", got.Content)
	}
}

func TestParseRewrittenInlineMarkers(t *testing.T) {
	raw := "[제목] 한 줄 제목 [본문] 본문 전체"

	got := parseRewritten(raw, "", "")
	if got.Title != "한 줄 제목" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content != "본문 전체" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestParseRewrittenFallsBackWithoutMarkers(t *testing.T) {
	got := parseRewritten("마커 없이 돌아온 응답", "원래 제목", "원래 본문")
	if got.Title != "원래 제목" {
		t.Errorf("title = %q, want fallback", got.Title)
	}
	if got.Content != "원래 본문" {
		t.Errorf("content = %q, want fallback", got.Content)
	}
}

func TestParseRewrittenContentOnlyMarker(t *testing.T) {
	got := parseRewritten("[본문]\n본문만 돌아왔습니다.", "원래 제목", "원래 본문")
	if got.Title != "원래 제목" {
		t.Errorf("title = %q, want fallback", got.Title)
	}
	if got.Content != "본문만 돌아왔습니다." {
		t.Errorf("content = %q", got.Content)
	}
}

func TestParseGeneratedTitleLine(t *testing.T) {
	raw := "제목: 대치동 영어학원 신규반 모집\n\n본문 첫 문단입니다.\n\n마무리 문단입니다."

	got := parseGenerated(raw)
	if got.Title != "대치동 영어학원 신규반 모집" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content != "본문 첫 문단입니다.\n\n마무리 문단입니다." {
		t.Errorf("content = %q", got.Content)
	}
}

func TestParseGeneratedFirstLineFallback(t *testing.T) {
	raw := "# 마커 없는 제목\n본문입니다."

	got := parseGenerated(raw)
	if got.Title != "마커 없는 제목" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content != "본문입니다." {
		t.Errorf("content = %q", got.Content)
	}
}

func TestParseGeneratedSingleLine(t *testing.T) {
	got := parseGenerated("한 줄짜리 응답")
	if got.Title != "한 줄짜리 응답" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content != "" {
		t.Errorf("content = %q, want empty", got.Content)
	}
}
