package cart

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCart_Scenario(t *testing.T) {
	c := New()

	require.True(t, c.Add("g1", "A", price("10.0")))
	require.True(t, c.Add("g2", "B", price("20.0")))
	require.True(t, c.Add("g3", "C", price("5.0")))
	assert.Equal(t, 3, c.Len())
	assert.True(t, c.Total().Equal(price("35")))

	assert.True(t, c.Remove("g2"))
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Total().Equal(price("30")))
	assert.Equal(t, "g1", c.Lines[0].GameID)
	assert.Equal(t, "g3", c.Lines[1].GameID)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Total().IsZero())
}

func TestCart_DuplicateAdd(t *testing.T) {
	c := New()

	assert.True(t, c.Add("g1", "A", price("9.99")))
	assert.False(t, c.Add("g1", "A", price("9.99")))
	assert.False(t, c.Add("g1", "Other title", price("1")))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, "A", c.Lines[0].Title)
	assert.True(t, c.Total().Equal(price("9.99")))
}

func TestCart_RemoveMissing(t *testing.T) {
	c := New()
	assert.False(t, c.Remove("g1"))
	assert.Equal(t, 0, c.Len())

	c.Add("g1", "A", price("1"))
	assert.False(t, c.Remove("g2"))
	assert.Equal(t, 1, c.Len())
}

func TestCart_TotalIsExact(t *testing.T) {
	c := New()
	for i := 0; i < 10; i++ {
		c.Add(fmt.Sprintf("g%d", i), "x", price("0.1"))
	}
	assert.Equal(t, "1", c.Total().String())
}

func TestCart_ClearIsIdempotent(t *testing.T) {
	c := New()
	c.Clear()
	c.Add("g1", "A", price("3"))
	c.Clear()
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Total().IsZero())
	assert.NotNil(t, c.Lines)
}

func TestCart_RandomSequencesStayDuplicateFree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d", "e"}

	for run := 0; run < 200; run++ {
		c := New()
		model := map[string]decimal.Decimal{}

		for step := 0; step < 30; step++ {
			id := ids[rng.Intn(len(ids))]
			switch rng.Intn(5) {
			case 0, 1:
				p := decimal.New(int64(rng.Intn(10000)), -2)
				_, exists := model[id]
				assert.Equal(t, !exists, c.Add(id, id, p))
				if !exists {
					model[id] = p
				}
			case 2, 3:
				_, exists := model[id]
				assert.Equal(t, exists, c.Remove(id))
				delete(model, id)
			default:
				c.Clear()
				model = map[string]decimal.Decimal{}
			}

			seen := map[string]bool{}
			for _, line := range c.Lines {
				require.False(t, seen[line.GameID], "duplicate line for %s", line.GameID)
				seen[line.GameID] = true
			}

			want := decimal.Zero
			for _, p := range model {
				want = want.Add(p)
			}
			require.Equal(t, len(model), c.Len())
			require.True(t, want.Equal(c.Total()), "total %s, want %s", c.Total(), want)
		}
	}
}
