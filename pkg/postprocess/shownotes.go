package postprocess

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ShowNotesText reduces an HTML episode description to plain text. Feed
// descriptions frequently carry the full show-notes markup; only the text goes
// into the episode record.
//
// Readability handles full show-notes pages well; short description snippets
// often fail its content heuristics, so fall back to stripping tags directly.
func ShowNotesText(htmlContent string) (string, error) {
	trimmed := strings.TrimSpace(htmlContent)
	if trimmed == "" {
		return "", nil
	}
	if !strings.Contains(trimmed, "<") {
		return CleanText(trimmed), nil
	}

	article, err := readability.FromReader(strings.NewReader(trimmed), nil)
	if err == nil {
		if text := CleanText(article.TextContent); text != "" {
			return text, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return "", fmt.Errorf("failed to parse show notes HTML: %w", err)
	}
	return CleanText(doc.Text()), nil
}
