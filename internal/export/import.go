package export

import (
	"encoding/json"
	"errors"
	"fmt"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
)

var (
	ErrInvalidFile = errors.New("export: not a prompt export file")
)

// Imported is one accepted entry from an import file, already coerced to
// valid enum values.
type Imported struct {
	Title      string
	Content    string
	Tags       []string
	Phase      domainprompt.Phase
	Visibility domainprompt.Visibility
}

type importEnvelope struct {
	Version json.RawMessage   `json:"version"`
	Prompts []json.RawMessage `json:"prompts"`
}

// Parse validates and decodes an import file. The file is valid only when
// version is truthy and prompts is an array; those checks fail the whole file
// synchronously. Individual entries are tolerated per-item: one malformed
// entry is skipped and reported without aborting the batch.
func Parse(data []byte) ([]Imported, int, error) {
	var env importEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if !truthy(env.Version) {
		return nil, 0, fmt.Errorf("%w: missing version", ErrInvalidFile)
	}
	if env.Prompts == nil {
		return nil, 0, fmt.Errorf("%w: prompts is not an array", ErrInvalidFile)
	}

	accepted := make([]Imported, 0, len(env.Prompts))
	skipped := 0
	for _, raw := range env.Prompts {
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil || item.Title == "" || item.Content == "" {
			skipped++
			continue
		}
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		accepted = append(accepted, Imported{
			Title:      item.Title,
			Content:    item.Content,
			Tags:       tags,
			Phase:      domainprompt.ParsePhase(item.Phase),
			Visibility: domainprompt.ParseVisibility(item.Visibility),
		})
	}
	return accepted, skipped, nil
}

// truthy accepts any JSON value except null, false, 0, and "". This keeps
// files with a string or numeric version field importable.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
