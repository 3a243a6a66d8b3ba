package template

import (
	"strings"

	"github.com/wiztheplanning/blogflow/internal/models"
)

// Render substitutes the closed set of {{placeholder}} tokens in text with
// the client's attributes. Tokens are matched case-sensitively and replaced
// in a single pass; unrecognized placeholders are kept verbatim. Absent
// optional fields substitute as empty strings.
func Render(text string, c *models.ClientModel) string {
	if c == nil {
		return text
	}
	r := strings.NewReplacer(
		"{{지역}}", c.Region,
		"{{업체명}}", c.Name,
		"{{대표서비스}}", models.FieldOrEmpty(c.MainService),
		"{{차별점}}", models.FieldOrEmpty(c.Differentiator),
		"{{연락처}}", models.FieldOrEmpty(c.Contact),
	)
	return r.Replace(text)
}
