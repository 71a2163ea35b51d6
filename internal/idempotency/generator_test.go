package idempotency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyDeterministic(t *testing.T) {
	g := NewGenerator()

	first := g.GenerateKey(ScopeVisitAward, map[string]interface{}{
		"appointment_id": "appt_01HX5K3M2P",
	})
	second := g.GenerateKey(ScopeVisitAward, map[string]interface{}{
		"appointment_id": "appt_01HX5K3M2P",
	})

	assert.Equal(t, first, second)
	assert.Contains(t, first, string(ScopeVisitAward))
}

func TestGenerateKeyParamOrderIndependent(t *testing.T) {
	g := NewGenerator()

	params := map[string]interface{}{
		"appointment_id": "appt_01HX5K3M2P",
		"tenant_id":      "tenant_default",
	}
	key := g.GenerateKey(ScopeVisitAward, params)

	assert.True(t, g.ValidateKey(ScopeVisitAward, params, key))
}

func TestGenerateKeyDistinguishesParams(t *testing.T) {
	g := NewGenerator()

	a := g.GenerateKey(ScopeVisitAward, map[string]interface{}{"appointment_id": "appt_a"})
	b := g.GenerateKey(ScopeVisitAward, map[string]interface{}{"appointment_id": "appt_b"})

	assert.NotEqual(t, a, b)
	assert.False(t, g.ValidateKey(ScopeVisitAward, map[string]interface{}{"appointment_id": "appt_a"}, b))
}
