package handler

import (
	"mime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachment(t *testing.T) {
	cases := []string{
		"INV-0001.pdf",
		`INV "2024" 7.pdf`,
		"INV; evil=1.pdf",
		"FACTURE-Été.pdf",
	}
	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			h := attachment(name)
			disp, params, err := mime.ParseMediaType(h)
			require.NoError(t, err, h)
			assert.Equal(t, "attachment", disp)
			assert.Equal(t, name, params["filename"])
			assert.Len(t, params, 1)
		})
	}
}
