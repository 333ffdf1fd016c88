package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanize_Labels(t *testing.T) {
	tests := map[string]string{
		"name":         "Name",
		"created_at":   "Created At",
		"parentID":     "Parent ID",
		"HTMLBody":     "HTML Body",
		"fields.owner": "Fields Owner",
		"child-count":  "Child Count",
		"item2Name":    "Item2 Name",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Humanize(in), "Humanize(%q)", in)
	}
}
