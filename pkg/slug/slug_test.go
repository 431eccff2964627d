package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/natours/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  []slug.Option
		want  string
	}{
		{"tour name", "The Forest Hiker", nil, "the-forest-hiker"},
		{"punctuation", "Hello, World!", nil, "hello-world"},
		{"surrounding spaces", "  The Sea   Explorer  ", nil, "the-sea-explorer"},
		{"digits", "Tour 2024: Alps", nil, "tour-2024-alps"},
		{"diacritics", "Créme Brûlée Señor", nil, "creme-brulee-senor"},
		{"non decomposable letters", "Straße Øresund Łódź", nil, "strasse-oresund-lodz"},
		{"ampersand", "Sun & Sea", nil, "sun-and-sea"},
		{"only symbols", "!@#$%^*()", nil, ""},
		{"empty", "", nil, ""},
		{"non latin dropped", "Tour 東京", nil, "tour"},
		{"custom separator", "The Park Camper", []slug.Option{slug.Separator("_")}, "the_park_camper"},
		{"max length cuts before separator", "The Sea Explorer", []slug.Option{slug.MaxLength(8)}, "the-sea"},
		{"max length inside word", "Wanderer", []slug.Option{slug.MaxLength(4)}, "wand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, slug.Make(tt.input, tt.opts...))
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, slug.Valid("the-forest-hiker"))
	assert.False(t, slug.Valid("The Forest Hiker"))
	assert.False(t, slug.Valid("the--forest"))
	assert.False(t, slug.Valid(""))
}
