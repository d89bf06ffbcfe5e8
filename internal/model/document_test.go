package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Visible(t *testing.T) {
	doc := Document{ID: "doc-1", AccessLevel: 2}

	tests := []struct {
		name        string
		callerLevel int
		want        bool
	}{
		{name: "below", callerLevel: 1, want: false},
		{name: "equal", callerLevel: 2, want: true},
		{name: "above", callerLevel: 5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.Visible(tt.callerLevel))
		})
	}
}
