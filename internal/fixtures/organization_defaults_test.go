package fixtures

import (
	"testing"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGifts_AreValid(t *testing.T) {
	gifts := DefaultGifts("org-1")
	require.NotEmpty(t, gifts)

	names := make(map[string]bool)
	for _, g := range gifts {
		assert.Equal(t, "org-1", g.OrganizationID)
		assert.False(t, names[g.Name], "duplicate gift %q", g.Name)
		names[g.Name] = true

		req := gift.CreateGiftRequest{Name: g.Name, Description: g.Description, Price: g.Price}
		assert.NoError(t, req.Validate(), g.Name)
	}
}
