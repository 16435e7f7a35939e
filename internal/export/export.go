// Package export renders prompt selections to the interchange formats and
// accepts them back. The JSON shape is the round-trip contract: re-importing
// an export reproduces title/content/tags/phase/visibility exactly.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Version is the interchange schema version stamped into every JSON export.
const Version = 1

type Item struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Phase      string   `json:"phase"`
	Visibility string   `json:"visibility"`
}

type Document struct {
	Version    int    `json:"version"`
	ExportedAt string `json:"exportedAt"`
	Prompts    []Item `json:"prompts"`
}

// Render serializes the prompts in the requested format. The id, author, and
// timestamp fields never travel; they are server-assigned on import.
func Render(prompts []domainprompt.Prompt, format Format, now time.Time) ([]byte, error) {
	switch format {
	case FormatJSON:
		return renderJSON(prompts, now)
	case FormatMarkdown:
		return renderMarkdown(prompts, now), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func renderJSON(prompts []domainprompt.Prompt, now time.Time) ([]byte, error) {
	doc := Document{
		Version:    Version,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Prompts:    make([]Item, 0, len(prompts)),
	}
	for _, p := range prompts {
		doc.Prompts = append(doc.Prompts, toItem(p))
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

func renderMarkdown(prompts []domainprompt.Prompt, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("# Prompt Export\n\n")
	fmt.Fprintf(&b, "Exported: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Prompts: %d\n", len(prompts))

	for i, p := range prompts {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "## %s\n\n", p.Title)
		b.WriteString(p.Content)
		b.WriteString("\n")
		if len(p.Tags) > 0 {
			b.WriteString("\nTags:")
			for _, t := range p.Tags {
				b.WriteString(" #")
				b.WriteString(t)
			}
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}

func toItem(p domainprompt.Prompt) Item {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return Item{
		Title:      p.Title,
		Content:    p.Content,
		Tags:       tags,
		Phase:      string(p.Phase),
		Visibility: string(p.Visibility),
	}
}
