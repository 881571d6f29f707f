package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashita-ai/kiroku/internal/ranking"
)

func TestCostLabel(t *testing.T) {
	c := func(n int64) *int64 { return &n }
	assert.Equal(t, ranking.Placeholder, costLabel(nil))
	assert.Equal(t, "$12.34", costLabel(c(1234)))
	assert.Equal(t, "-$0.07", costLabel(c(-7)))
	assert.Equal(t, "$92,233,720,368,547,758.07", costLabel(c(math.MaxInt64)))
	assert.Equal(t, "-$92,233,720,368,547,758.08", costLabel(c(math.MinInt64)))
}
