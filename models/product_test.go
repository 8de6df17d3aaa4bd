package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestStockUntracked(t *testing.T) {
	p := Product{Name: "Consulting"}
	level := p.Stock()
	assert.False(t, level.Tracked)
	assert.Zero(t, level.Quantity)
}

func TestStockTracked(t *testing.T) {
	p := Product{Name: "Widget", CurrentStock: ptr(25), MinStockAlert: ptr(5)}
	level := p.Stock()
	assert.True(t, level.Tracked)
	assert.Equal(t, 25.0, level.Quantity)
	assert.Equal(t, 5.0, level.MinAlert)
}

func TestConsumeChainsBalances(t *testing.T) {
	// Successive decrements from one invoice see each other, so per-line
	// ledger balances step down instead of repeating the opening snapshot.
	p := Product{Name: "Widget", CurrentStock: ptr(10)}
	assert.Equal(t, 7.0, p.consume(3))
	assert.Equal(t, 3.0, p.consume(4))
	assert.Equal(t, 3.0, *p.CurrentStock)
}

func TestConsumeUntrackedIsNoop(t *testing.T) {
	p := Product{Name: "Consulting"}
	assert.Zero(t, p.consume(5))
	assert.Nil(t, p.CurrentStock)
}

func TestStockTrackedAtZero(t *testing.T) {
	// Zero on hand is still tracked; only NULL means untracked.
	p := Product{Name: "Widget", CurrentStock: ptr(0)}
	level := p.Stock()
	assert.True(t, level.Tracked)
	assert.Zero(t, level.Quantity)
}
