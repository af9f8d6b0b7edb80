package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		header string
		want   string
	}{
		{"default", "", "", English},
		{"query wins", "ar", "en-US", Arabic},
		{"query region", "ar-EG", "", Arabic},
		{"header arabic", "", "ar-SA,ar;q=0.9,en;q=0.8", Arabic},
		{"header english", "", "en-GB,en;q=0.9", English},
		{"unsupported falls back", "", "fr-FR", English},
		{"garbage header", "", ";;;", English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.query, tt.header))
		})
	}
}

func TestColumns(t *testing.T) {
	cols := []string{"title_en", "title_ar", "content_en", "content_ar"}
	assert.Equal(t, cols, Columns(cols, ""))
	assert.Equal(t, []string{"title_ar", "content_ar"}, Columns(cols, Arabic))
	assert.Equal(t, []string{"title_en", "content_en"}, Columns(cols, English))
}

func TestDir(t *testing.T) {
	assert.Equal(t, "rtl", Dir(Arabic))
	assert.Equal(t, "ltr", Dir(English))
}
