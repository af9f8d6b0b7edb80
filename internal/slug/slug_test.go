package slug

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"latin", "Clean Water for Gaza!", "clean-water-for-gaza"},
		{"accents stripped", "Café Élan", "cafe-elan"},
		{"collapses separators", "  a -- b__c  ", "a-b-c"},
		{"arabic kept", "مشروع المياه النظيفة", "مشروع-المياه-النظيفة"},
		{"arabic harakat stripped", "مَدْرَسَة", "مدرسة"},
		{"digits kept", "Annual Report 2024", "annual-report-2024"},
		{"only punctuation", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func takenSet(used ...string) TakenFunc {
	set := map[string]bool{}
	for _, u := range used {
		set[u] = true
	}
	return func(_ context.Context, c string) (bool, error) {
		return set[c], nil
	}
}

func TestUnique(t *testing.T) {
	ctx := context.Background()

	t.Run("free base", func(t *testing.T) {
		s, err := Unique(ctx, "Water Wells", "", takenSet())
		require.NoError(t, err)
		assert.Equal(t, "water-wells", s)
	})

	t.Run("numbered suffixes", func(t *testing.T) {
		s, err := Unique(ctx, "Water Wells", "", takenSet("water-wells", "water-wells-2"))
		require.NoError(t, err)
		assert.Equal(t, "water-wells-3", s)
	})

	t.Run("fallback when base is empty", func(t *testing.T) {
		s, err := Unique(ctx, "???", "news", takenSet())
		require.NoError(t, err)
		assert.Equal(t, "news", s)
	})

	t.Run("length bound includes suffix", func(t *testing.T) {
		long := strings.Repeat("a", 200)
		s, err := Unique(ctx, long, "", takenSet(strings.Repeat("a", DefaultMaxLen)))
		require.NoError(t, err)
		assert.LessOrEqual(t, utf8.RuneCountInString(s), DefaultMaxLen)
		assert.True(t, strings.HasSuffix(s, "-2"))
	})

	t.Run("checker error propagates", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := Unique(ctx, "x", "", func(context.Context, string) (bool, error) { return false, boom })
		assert.ErrorIs(t, err, boom)
	})
}
