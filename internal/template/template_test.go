package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komi0929/myprompt/internal/template"
)

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"no placeholders", "plain text", []string{}},
		{"single", "Hello {name}", []string{"name"}},
		{"first-occurrence order, deduplicated", "{b} {a} {b} {a}", []string{"b", "a"}},
		{"whitespace trimmed", "{ name } and {name}", []string{"name"}},
		{"empty braces match with empty name", "x {} y", []string{""}},
		{"adjacent placeholders extracted independently", "{a}{b}", []string{"a", "b"}},
		{"nested braces not supported", "{outer {inner}}", []string{"inner"}},
		{"unclosed brace ignored", "{dangling", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, template.ExtractVariables(tt.content))
		})
	}
}

func TestFillTemplate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		values  map[string]string
		want    string
	}{
		{
			"empty fill set is identity",
			"Hello {name}",
			map[string]string{},
			"Hello {name}",
		},
		{
			"full fill",
			"Hello {name}, your {item} is ready",
			map[string]string{"name": "Alice", "item": "coffee"},
			"Hello Alice, your coffee is ready",
		},
		{
			"empty value leaves placeholder visible",
			"Hello {name}, your {item} is ready",
			map[string]string{"name": "Alice", "item": ""},
			"Hello Alice, your {item} is ready",
		},
		{
			"whitespace-only value counts as unfilled",
			"{a}",
			map[string]string{"a": "   "},
			"{a}",
		},
		{
			"value is trimmed",
			"{a}",
			map[string]string{"a": "  x  "},
			"x",
		},
		{
			"repeated placeholder filled everywhere",
			"{a} and {a}",
			map[string]string{"a": "1"},
			"1 and 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, template.FillTemplate(tt.content, tt.values))
		})
	}
}

// Filling every extracted variable with a non-empty value leaves nothing to
// extract.
func TestFillThenExtract_FullCoverYieldsNoVariables(t *testing.T) {
	content := "Review {code} for {issue} in {code}"
	values := map[string]string{}
	for _, name := range template.ExtractVariables(content) {
		values[name] = "v"
	}
	filled := template.FillTemplate(content, values)
	require.Empty(t, template.ExtractVariables(filled))
}

func TestHasVariables(t *testing.T) {
	assert.True(t, template.HasVariables("do {thing}"))
	assert.True(t, template.HasVariables("{}"))
	assert.False(t, template.HasVariables("no placeholders here"))
	assert.False(t, template.HasVariables("unbalanced {"))
}
