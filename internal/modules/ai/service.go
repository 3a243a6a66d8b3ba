package ai

import (
	"context"
	"errors"
	"regexp"
	"strings"

	appcfg "github.com/wiztheplanning/blogflow/internal/config"
	"github.com/wiztheplanning/blogflow/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	titleSectionPattern   = regexp.MustCompile(`\[제목\]\s*([\s\S]*?)\s*\[본문\]`)
	contentSectionPattern = regexp.MustCompile(`\[본문\]\s*([\s\S]*)$`)
	titleLinePattern      = regexp.MustCompile(`(?m)^제목:\s*(.+?)\s*$`)
	headingPrefixPattern  = regexp.MustCompile(`^#+\s*`)
)

// Service proxies rewrite and generation requests to the configured LLM
// provider.
type Service struct {
	db       *gorm.DB
	provider *appcfg.AIProvider
	logger   *zap.Logger
}

func NewService(db *gorm.DB, provider *appcfg.AIProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, provider: provider, logger: logger.Named("AIService")}
}

// Rewritten is a rewritten or generated title/content pair.
type Rewritten struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Rewrite paraphrases a rendered manuscript while keeping its SEO keywords.
// When revisionRequest is non-empty the revision prompt is used instead and
// the requested edits are applied.
func (s *Service) Rewrite(ctx context.Context, title, content, revisionRequest string) (*Rewritten, error) {
	var prompt string
	if revisionRequest != "" {
		prompt = buildRevisionPrompt(title, content, revisionRequest)
	} else {
		prompt = buildRewritePrompt(title, content)
	}

	raw, err := generate(ctx, s.provider, prompt)
	if err != nil {
		s.logger.Warn("리라이팅 실패", zap.Error(err))
		return nil, err
	}

	return parseRewritten(raw, title, content), nil
}

// parseRewritten extracts the [제목] and [본문] sections, falling back to the
// originals when a marker is missing.
func parseRewritten(raw, fallbackTitle, fallbackContent string) *Rewritten {
	out := &Rewritten{Title: fallbackTitle, Content: fallbackContent}
	if m := titleSectionPattern.FindStringSubmatch(raw); m != nil {
		out.Title = strings.TrimSpace(m[1])
	}
	if m := contentSectionPattern.FindStringSubmatch(raw); m != nil {
		out.Content = strings.TrimSpace(m[1])
	}
	return out
}

// Generate writes a one-off manuscript for a custom client around the given
// topic.
func (s *Service) Generate(ctx context.Context, clientID, topic string) (*Rewritten, error) {
	var client models.ClientModel
	if err := s.db.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	raw, err := generate(ctx, s.provider, buildGeneratePrompt(&client, topic))
	if err != nil {
		s.logger.Warn("원고 생성 실패", zap.Error(err))
		return nil, err
	}
	return parseGenerated(raw), nil
}

// parseGenerated splits a "제목: ..." first line from the body; without the
// marker the first line is treated as the title.
func parseGenerated(raw string) *Rewritten {
	text := strings.TrimSpace(raw)
	if m := titleLinePattern.FindStringSubmatchIndex(text); m != nil {
		title := strings.TrimSpace(text[m[2]:m[3]])
		content := strings.TrimSpace(text[m[1]:])
		return &Rewritten{Title: title, Content: content}
	}

	lines := strings.SplitN(text, "\n", 2)
	title := headingPrefixPattern.ReplaceAllString(strings.TrimSpace(lines[0]), "")
	content := ""
	if len(lines) > 1 {
		content = strings.TrimSpace(lines[1])
	}
	return &Rewritten{Title: title, Content: content}
}

// ErrClientNotFound means the generation target client does not exist.
var ErrClientNotFound = errors.New("client not found")
