package storage

import (
	"testing"

	"github.com/icsmw/brec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *brec.BlockRegistry {
	return brec.NewBlockRegistry()
}

func TestReader_IterateVisitsEveryPacketInOrder(t *testing.T) {
	rws := newMemRWS()
	w, err := NewWriter(rws, WithDefaultCapacity(4))
	require.NoError(t, err)
	require.NoError(t, w.Insert(encodedTestPacket(t, "alpha")))
	require.NoError(t, w.Insert(encodedTestPacket(t, "beta")))
	require.NoError(t, w.Insert(encodedTestPacket(t, "gamma")))

	r, err := NewReader(rws, testRegistry())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Count())

	var texts []string
	err = r.Iterate(func(_ int, p *brec.RawPacket) bool {
		texts = append(texts, string(p.PayloadBody))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, texts)
}

func TestReader_IterateCanStopEarly(t *testing.T) {
	rws := newMemRWS()
	w, err := NewWriter(rws, WithDefaultCapacity(4))
	require.NoError(t, err)
	require.NoError(t, w.Insert(encodedTestPacket(t, "one")))
	require.NoError(t, w.Insert(encodedTestPacket(t, "two")))

	r, err := NewReader(rws, testRegistry())
	require.NoError(t, err)

	count := 0
	err = r.Iterate(func(_ int, _ *brec.RawPacket) bool {
		count++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReader_IterateFilteredAppliesRules(t *testing.T) {
	rws := newMemRWS()
	w, err := NewWriter(rws, WithDefaultCapacity(4))
	require.NoError(t, err)
	require.NoError(t, w.Insert(encodedTestPacket(t, "keep")))
	require.NoError(t, w.Insert(encodedTestPacket(t, "drop")))

	r, err := NewReader(rws, testRegistry())
	require.NoError(t, err)

	rules := brec.NewRuleSet()
	require.NoError(t, rules.SetFilterByPayload(func(body []byte) bool {
		return string(body) != "drop"
	}))

	var kept []string
	err = r.IterateFiltered(rules, func(_ int, p *brec.RawPacket) bool {
		kept = append(kept, string(p.PayloadBody))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, kept)
}
