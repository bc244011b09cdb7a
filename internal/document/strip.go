package document

import (
	"html"

	"github.com/microcosm-cc/bluemonday"

	"github.com/GriffinCanCode/asterix/internal/shared/utils"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup removes every tag from body and collapses whitespace
func StripMarkup(body []byte) string {
	text := strictPolicy.SanitizeBytes(body)
	return utils.NormalizeWhitespace(html.UnescapeString(string(text)))
}
