package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Crème Brûlée", "creme-brulee"},
		{"Go 1.24 Release Notes!", "go-1-24-release-notes"},
		{"--already--hyphenated--", "already-hyphenated"},
		{"UPPER case", "upper-case"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 0, 25)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, p.Offset())

	p = NewPagination(3, 5, 11)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 10, p.Offset())

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 1, p.TotalPages)
}
