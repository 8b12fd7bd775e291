package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/overlaysync/pkg/catalog"
)

func TestSortNatural(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "numeric suffix",
			in:   []string{"Default.10", "Default.2", "Default.1", "Default.46"},
			want: []string{"Default.1", "Default.2", "Default.10", "Default.46"},
		},
		{
			name: "case insensitive text",
			in:   []string{"cape", "Boots", "apron"},
			want: []string{"apron", "Boots", "cape"},
		},
		{
			name: "numbers inside text",
			in:   []string{"Hat_12.Red", "Hat_3.Red", "Hat_3.Blue"},
			want: []string{"Hat_3.Blue", "Hat_3.Red", "Hat_12.Red"},
		},
		{
			name: "leading zeros and long runs",
			in:   []string{"v99999999999999999999", "v007", "v8"},
			want: []string{"v007", "v8", "v99999999999999999999"},
		},
		{
			name: "prefix first",
			in:   []string{"Cape.Gold", "Cape"},
			want: []string{"Cape", "Cape.Gold"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]string(nil), tt.in...)
			catalog.SortNatural(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNaturalLess(t *testing.T) {
	assert.True(t, catalog.NaturalLess("Default.9", "Default.10"))
	assert.False(t, catalog.NaturalLess("Default.10", "Default.9"))
	assert.False(t, catalog.NaturalLess("same", "same"))
	assert.True(t, catalog.NaturalLess("Red", "red"), "case only differences still order deterministically")
}
