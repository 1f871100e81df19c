package slug_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     []slug.Option
		expected string
	}{
		{"ascii", "Hello World", nil, "hello-world"},
		{"punctuation", "Hello, World!", nil, "hello-world"},
		{"vietnamese", "Cơ bida Mit M1 – Chính hãng", nil, "co-bida-mit-m1-chinh-hang"},
		{"d stroke", "Đồ chơi đánh bi-a", nil, "do-choi-danh-bi-a"},
		{"tones", "Hướng dẫn chọn gậy", nil, "huong-dan-chon-gay"},
		{"surrounding junk", "  --Bàn 9 bi!!  ", nil, "ban-9-bi"},
		{"separator", "Bàn bi a", []slug.Option{slug.Separator("_")}, "ban_bi_a"},
		{"max length", "Bàn bi-a Aileex", []slug.Option{slug.MaxLength(9)}, "ban-bi-a"},
		{"empty", "!!!", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slug.Make(tt.input, tt.opts...))
		})
	}
}

func TestMake_Suffix(t *testing.T) {
	t.Parallel()

	a := slug.Make("Bàn bi-a Aileex", slug.WithSuffix(6))
	b := slug.Make("Bàn bi-a Aileex", slug.WithSuffix(6))
	assert.Regexp(t, regexp.MustCompile(`^ban-bi-a-aileex-[a-z0-9]{6}$`), a)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{4}$`), slug.Make("?", slug.WithSuffix(4)))
}
