package bag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"UserName", "user_name"},
		{"userName", "user_name"},
		{"username", "username"},
		{"User", "user"},
		{"ID", "id"},
		{"UserID", "user_id"},
		{"HTMLParser", "html_parser"},
		{"Address1Line", "address1_line"},
		{"already_snake", "already_snake"},
		{"ÜberName", "über_name"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSnake(tt.in))
		})
	}
}

func TestNormalizerCachesPerRawInput(t *testing.T) {
	n := NewNormalizer()

	first := n.Normalize("UserName")
	second := n.Normalize("UserName")
	other := n.Normalize("userName")

	assert.Equal(t, "user_name", first)
	assert.Equal(t, first, second)
	assert.Equal(t, "user_name", other)

	stats := n.Stats()
	assert.Equal(t, uint64(2), stats.Misses, "distinct raw inputs are cached separately")
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 2, stats.Entries)
}

func TestNormalizerPerBag(t *testing.T) {
	a, b := New(), New()

	a.Normalizer().Normalize("UserName")

	assert.Equal(t, 1, a.Normalizer().Stats().Entries)
	assert.Equal(t, 0, b.Normalizer().Stats().Entries)
}

func BenchmarkNormalizeCached(b *testing.B) {
	n := NewNormalizer()
	n.Normalize("SomeLongIdentifierName")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = n.Normalize("SomeLongIdentifierName")
	}
}
