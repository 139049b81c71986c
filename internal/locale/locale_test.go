package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPair_RendersBothLanguages(t *testing.T) {
	c := MustNew()

	text, err := c.Pair(AlertSurgeMessage, map[string]interface{}{"Score": 85})
	require.NoError(t, err)
	assert.Equal(t, "[CRITICAL] Surge Imminent (Risk: 85)", text.En)
	assert.Equal(t, "[حرج] تدفق عالي متوقع (مؤشر الخطر: 85)", text.Ar)
}

// TestPair_AllGeneratorMessagesPresent verifies every id the generator uses
// exists in both message files.
func TestPair_AllGeneratorMessagesPresent(t *testing.T) {
	c := MustNew()
	ids := []string{
		AlertSurgeMessage, AlertSurgeAction,
		AlertCapacityMessage, AlertCapacityAction,
		AlertMonitoringMessage, AlertMonitoringAction,
		TransferLoadBalancingReason,
	}
	for _, id := range ids {
		text, err := c.Pair(id, map[string]interface{}{"Score": 1})
		require.NoError(t, err, id)
		assert.NotEmpty(t, text.En, id)
		assert.NotEmpty(t, text.Ar, id)
		assert.NotEqual(t, text.En, text.Ar, id)
	}
}

func TestPair_UnknownID(t *testing.T) {
	c := MustNew()

	_, err := c.Pair("no_such_message", nil)
	assert.ErrorIs(t, err, ErrMissingTranslation)
}
