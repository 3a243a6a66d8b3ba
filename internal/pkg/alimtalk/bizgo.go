package alimtalk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// bizgoBaseURL is the BizGo OMNI API v1 endpoint.
const bizgoBaseURL = "https://mars.ibapi.kr/api/comm"

type bizgoButton struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	URLMobile string `json:"urlMobile,omitempty"`
	URLPC     string `json:"urlPc,omitempty"`
}

type bizgoTemplate struct {
	Text    string
	Buttons []bizgoButton
}

// bizgoTemplates mirrors the message templates registered with the provider.
// #{변수} tokens are substituted per send.
var bizgoTemplates = map[Code]bizgoTemplate{
	CodeConfirmRequest: {
		Text: `안녕하세요, #{업체명} 담당자님!

위즈더플래닝입니다.

금주 블로그 원고가 준비되었습니다.
아래 버튼을 눌러 원고를 확인해 주세요.

#{확인링크}

미확인 시 자동 승인 처리됩니다.

감사합니다.`,
		Buttons: []bizgoButton{{
			Name:      "원고 확인하기",
			Type:      "WL",
			URLMobile: "#{확인링크}",
			URLPC:     "#{확인링크}",
		}},
	},
	CodeRevisionDone: {
		Text: `안녕하세요, #{업체명} 담당자님!

위즈더플래닝입니다.

요청하신 수정사항이 반영되었습니다.
아래 버튼을 눌러 수정된 원고를 확인해 주세요.

#{확인링크}

감사합니다.`,
		Buttons: []bizgoButton{{
			Name:      "수정 원고 확인하기",
			Type:      "WL",
			URLMobile: "#{확인링크}",
			URLPC:     "#{확인링크}",
		}},
	},
	CodeReminder: {
		Text: `안녕하세요, #{업체명} 담당자님!

위즈더플래닝입니다.

아직 원고 확인이 완료되지 않았습니다.
아래 버튼을 눌러 원고를 확인해 주세요.

#{확인링크}

미확인 시 자동 승인 처리됩니다.

감사합니다.`,
		Buttons: []bizgoButton{{
			Name:      "원고 확인하기",
			Type:      "WL",
			URLMobile: "#{확인링크}",
			URLPC:     "#{확인링크}",
		}},
	},
}

// BizGo sends alimtalk through the BizGo OMNI API.
type BizGo struct {
	apiKey     string
	senderKey  string
	httpClient *http.Client
}

// NewBizGo creates the production BizGo gateway.
func NewBizGo(apiKey, senderKey string) *BizGo {
	return &BizGo{
		apiKey:     apiKey,
		senderKey:  senderKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// The provider's template variables use the #{변수명} form; the confirm-link
// variables map to 업체명/확인링크 inside the registered template bodies.
func substituteTemplateVars(text string, vars map[string]string) string {
	out := text
	out = strings.ReplaceAll(out, "#{업체명}", vars["변수내용1"])
	out = strings.ReplaceAll(out, "#{확인링크}", vars["변수내용2"])
	for k, v := range vars {
		out = strings.ReplaceAll(out, "#{"+k+"}", v)
	}
	return out
}

func (b *BizGo) Send(ctx context.Context, code Code, phone string, vars map[string]string) (string, error) {
	if b.apiKey == "" || b.senderKey == "" {
		return "", fmt.Errorf("bizgo credentials not configured")
	}

	tpl, ok := bizgoTemplates[code]
	if !ok {
		return "", fmt.Errorf("unknown template code: %s", code)
	}

	text := substituteTemplateVars(tpl.Text, vars)
	buttons := make([]bizgoButton, len(tpl.Buttons))
	for i, btn := range tpl.Buttons {
		buttons[i] = bizgoButton{
			Name:      btn.Name,
			Type:      btn.Type,
			URLMobile: substituteTemplateVars(btn.URLMobile, vars),
			URLPC:     substituteTemplateVars(btn.URLPC, vars),
		}
	}

	payload := map[string]interface{}{
		"messageFlow": []map[string]interface{}{
			{
				"alimtalk": map[string]interface{}{
					"senderKey":    b.senderKey,
					"templateCode": string(code),
					"msgType":      "AT",
					"text":         text,
					"buttons":      buttons,
				},
			},
		},
		"destinations": []map[string]interface{}{
			{
				"to":           NormalizePhone(phone),
				"replaceWords": vars,
			},
		},
		"ref": fmt.Sprintf("blog_automation_%d", time.Now().UnixMilli()),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bizgoBaseURL+"/v1/send/omni", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result struct {
		Code         string `json:"code"`
		Message      string `json:"message"`
		Destinations []struct {
			MsgKey string `json:"msgKey"`
			Code   string `json:"code"`
			Result string `json:"result"`
		} `json:"destinations"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("bizgo response: %s", strings.TrimSpace(string(respBody)))
	}

	if resp.StatusCode < http.StatusBadRequest && len(result.Destinations) > 0 {
		dest := result.Destinations[0]
		if dest.Code == "A000" || dest.Result == "SUCCESS" {
			return dest.MsgKey, nil
		}
		return "", fmt.Errorf("bizgo send rejected: code=%s result=%s", dest.Code, dest.Result)
	}

	if result.Message != "" {
		return "", fmt.Errorf("bizgo error: %s", result.Message)
	}
	return "", fmt.Errorf("bizgo error: status %d", resp.StatusCode)
}
