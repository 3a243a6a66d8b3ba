package ai

import (
	"fmt"

	"github.com/wiztheplanning/blogflow/internal/models"
)

const rewritePrompt = `아래 블로그 원고를 같은 의미와 맥락을 유지하면서 표현을 자연스럽게 변형해줘.
- 문장 구조 변경
- 동의어/유의어 활용
- 어순 변경
- 단, 핵심 키워드는 그대로 유지 (예: "강남 수학학원" 같은 지역+업종 키워드)
- 전체 글자수는 비슷하게 유지 (1500~2000자)
- 마크다운 형식 유지
- 제목과 본문을 아래 형식으로 반환해줘:

[제목]
(리라이팅된 제목)

[본문]
(리라이팅된 본문)`

const revisionPrompt = `당신은 블로그 원고 수정 전문가입니다. 광고주가 요청한 수정 사항을 반영하여 원고를 수정해주세요.

## 수정 원칙
1. 광고주의 수정 요청 사항을 정확히 반영하세요.
2. 수정이 요청된 부분만 변경하고, 나머지 내용은 최대한 유지하세요.
3. 전체적인 글의 흐름과 톤은 유지하세요.
4. 마크다운 형식을 유지하세요.
5. 업체명, 지역명 등 핵심 키워드는 그대로 유지하세요.

## 출력 형식
반드시 아래 형식으로만 출력하세요:

[제목]
(수정된 제목)

[본문]
(수정된 본문)`

func buildRewritePrompt(title, content string) string {
	return fmt.Sprintf(`%s

---
원본 제목: %s

원본 본문:
%s
---`, rewritePrompt, title, content)
}

func buildRevisionPrompt(title, content, revisionRequest string) string {
	return fmt.Sprintf(`%s

---
## 광고주 수정 요청 내용
%s

---
## 현재 원고

제목: %s

본문:
%s
---`, revisionPrompt, revisionRequest, title, content)
}

func buildGeneratePrompt(client *models.ClientModel, topic string) string {
	keyword := client.Region + " " + client.BusinessType
	orNone := func(s *string) string {
		if s == nil || *s == "" {
			return "없음"
		}
		return *s
	}
	return fmt.Sprintf(`다음 정보를 바탕으로 네이버 블로그 원고를 작성해줘.

업체명: %s
지역: %s
업종: %s
대표서비스: %s
차별점: %s
주제: %s

작성 조건:
- 글자수: 1,700~2,000자
- 키워드 "%s" 3회 이상 자연스럽게 삽입
- 구조: 도입 → 본문 3개 소주제 → 업체 소개 → 상담 유도 마무리
- 자연스럽고 친근한 문체
- 마크다운 형식 (### 소제목)
- 제목은 첫 줄에 작성하고, 본문과 빈 줄로 구분

응답 형식:
제목: [제목 내용]

[본문 내용]`,
		client.Name, client.Region, client.BusinessType,
		orNone(client.MainService), orNone(client.Differentiator),
		topic, keyword)
}
