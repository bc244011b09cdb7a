package document

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"

	"github.com/GriffinCanCode/asterix/internal/shared/utils"
)

// Document is a fetched body awaiting extraction
type Document struct {
	URL         string
	ContentType string
	Body        []byte
}

// Extraction is what the shell displays for a document
type Extraction struct {
	Text     string
	Title    *string
	MimeType string
}

// Extractor turns a document body into display text
type Extractor interface {
	Extract(doc Document) (*Extraction, error)
}

// ExtractorFunc adapts a function to Extractor
type ExtractorFunc func(doc Document) (*Extraction, error)

// Extract calls f
func (f ExtractorFunc) Extract(doc Document) (*Extraction, error) {
	return f(doc)
}

// TextExtractor renders HTML to visible text and passes textual formats
// through unchanged. Binary bodies become a one-line placeholder.
type TextExtractor struct{}

// NewTextExtractor creates the default extractor
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// hiddenElements never contribute display text
const hiddenElements = "script, style, noscript, template"

// blockElements start a new line in rendered text
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// Extract implements Extractor
func (e *TextExtractor) Extract(doc Document) (*Extraction, error) {
	mediaType := MediaType(doc.ContentType, doc.Body)

	switch {
	case isHTML(mediaType):
		return e.extractHTML(doc, mediaType)
	case isText(mediaType):
		body, err := toUTF8(doc.Body, doc.ContentType)
		if err != nil {
			return nil, err
		}
		return &Extraction{
			Text:     string(body),
			Title:    urlTitle(doc.URL),
			MimeType: mediaType,
		}, nil
	default:
		return &Extraction{
			Text:     fmt.Sprintf("[binary %s, %d bytes]", mediaType, len(doc.Body)),
			Title:    urlTitle(doc.URL),
			MimeType: mediaType,
		}, nil
	}
}

// urlTitle names a non-HTML document after its url, when it has one
func urlTitle(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}

func (e *TextExtractor) extractHTML(doc Document, mediaType string) (*Extraction, error) {
	body, err := toUTF8(doc.Body, doc.ContentType)
	if err != nil {
		return nil, err
	}

	page, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(page.Find("title").First().Text())
	if title == "" {
		title = openGraphTitle(body)
	}

	page.Find(hiddenElements).Remove()

	var sb strings.Builder
	for _, node := range page.Find("body").Nodes {
		renderText(&sb, node)
	}

	extraction := &Extraction{
		Text:     utils.NormalizeLines(sb.String()),
		MimeType: mediaType,
	}
	if title != "" {
		extraction.Title = &title
	}
	return extraction, nil
}

// openGraphTitle reads og:title, for pages that only declare it in meta
func openGraphTitle(body []byte) string {
	root, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	node := htmlquery.FindOne(root, `//meta[@property="og:title"]`)
	if node == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.SelectAttr(node, "content"))
}

func renderText(sb *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		sb.WriteString(node.Data)
		return
	case html.CommentNode:
		return
	}

	block := node.Type == html.ElementNode && blockElements[node.Data]
	if block {
		sb.WriteByte('\n')
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		renderText(sb, child)
	}
	if block {
		sb.WriteByte('\n')
	}
}

// MediaType returns the bare MIME type of a body, sniffing the bytes when
// the header is missing or unparsable
func MediaType(contentType string, body []byte) string {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			return strings.ToLower(mediaType)
		}
	}
	if len(body) == 0 {
		return "text/plain"
	}
	sniffed := mimetype.Detect(body).String()
	if mediaType, _, err := mime.ParseMediaType(sniffed); err == nil {
		return mediaType
	}
	return "application/octet-stream"
}

func isHTML(mediaType string) bool {
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func isText(mediaType string) bool {
	switch {
	case strings.HasPrefix(mediaType, "text/"),
		strings.HasSuffix(mediaType, "+json"),
		strings.HasSuffix(mediaType, "+xml"):
		return true
	}
	switch mediaType {
	case "application/json", "application/xml", "application/javascript",
		"application/ecmascript", "application/x-ndjson":
		return true
	}
	return false
}
