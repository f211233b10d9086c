package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionQuota(t *testing.T) {
	tests := []struct {
		name      string
		sub       Subscription
		remaining int
		canCreate bool
	}{
		{"room left", Subscription{Status: SubscriptionActive, ReportsLimit: 10, ReportsUsed: 4}, 6, true},
		{"at limit", Subscription{Status: SubscriptionActive, ReportsLimit: 10, ReportsUsed: 10}, 0, false},
		{"over limit", Subscription{Status: SubscriptionActive, ReportsLimit: 10, ReportsUsed: 12}, 0, false},
		{"expired", Subscription{Status: SubscriptionExpired, ReportsLimit: 10, ReportsUsed: 0}, 10, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.remaining, tc.sub.ReportsRemaining())
			assert.Equal(t, tc.canCreate, tc.sub.CanCreateReports())
		})
	}
}

func TestPlanCatalogue(t *testing.T) {
	free, ok := PlanByID(FreePlanID)
	assert.True(t, ok)
	assert.Zero(t, free.PriceEUR)

	_, ok = PlanByID("gold")
	assert.False(t, ok)

	p := Plans()
	p[0].Name = "mutated"
	assert.NotEqual(t, "mutated", Plans()[0].Name)
}
