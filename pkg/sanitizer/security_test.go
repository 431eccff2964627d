package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/natours/pkg/sanitizer"
)

func TestPreventXSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "The Forest Hiker", expected: "The Forest Hiker"},
		{name: "script removed", input: `nice<script>alert("x")</script> tour`, expected: "nice tour"},
		{name: "event handler removed", input: `<img src=x onerror="alert(1)">`, expected: "&lt;img src=x&gt;"},
		{name: "javascript url removed", input: `<a href="javascript:alert(1)">x</a>`, expected: "&lt;a href=&#34;alert(1)&#34;&gt;x&lt;/a&gt;"},
		{name: "newlines kept", input: "line one\nline two\x00", expected: "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.PreventXSS(tt.input))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "admin@natours.io", sanitizer.NormalizeEmail(" ADMIN@natours.io "))
	assert.Equal(t, "a.b@natours.io", sanitizer.NormalizeEmail(".a...b.@natours.io"))
	assert.Equal(t, "not-an-email", sanitizer.NormalizeEmail("Not-An-Email"))
}

func TestDocument(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"name":  "<b>Tour</b>",
		"$where": "1",
		"price": 497.0,
		"startLocation": map[string]any{
			"description": "Miami",
			"$gt":         "",
		},
		"a.b":    "x",
		"images": []any{"tour-1.jpg", map[string]any{"$ne": 1}},
	}

	got := sanitizer.Document(in, nil)

	assert.Equal(t, map[string]any{
		"name":          "&lt;b&gt;Tour&lt;/b&gt;",
		"price":         497.0,
		"startLocation": map[string]any{"description": "Miami"},
		"images":        []any{"tour-1.jpg", map[string]any{}},
	}, got)
	assert.Contains(t, in, "$where", "input must not be modified")
	assert.Equal(t, map[string]any{}, sanitizer.Document(nil, nil))
}

func TestStripOperators(t *testing.T) {
	t.Parallel()

	got := sanitizer.StripOperators(map[string]any{"email": map[string]any{"$gt": ""}, "password": "<x>"})
	assert.Equal(t, map[string]any{"email": map[string]any{}, "password": "<x>"}, got)
	assert.True(t, sanitizer.IsOperatorKey("$or"))
	assert.True(t, sanitizer.IsOperatorKey("profile.role"))
	assert.False(t, sanitizer.IsOperatorKey("role"))
}
