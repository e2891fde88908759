package blackboard

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_ReadMissingReturnsDefault(t *testing.T) {
	s := New()
	assert.Equal(t, "fallback", s.Read("nope", "fallback"))
	assert.Nil(t, s.Read("nope", nil))
}

func TestState_WriteThenRead(t *testing.T) {
	s := New()
	s.Write("k", 42)
	assert.Equal(t, 42, s.Read("k", 0))

	s.Write("k", "replaced")
	assert.Equal(t, "replaced", s.Read("k", nil))
}

func TestState_MergeMapping(t *testing.T) {
	s := New()

	s.MergeMapping("reflector", map[string]any{"insight": "a"})
	s.MergeMapping("reflector", map[string]any{"mood": "calm"})

	got, ok := s.Read("reflector", nil).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"insight": "a", "mood": "calm"}, got)

	s.MergeMapping("reflector", map[string]any{"insight": "b"})
	assert.Equal(t, "b", s.ReadField("reflector", "insight"))
	assert.Equal(t, "calm", s.ReadField("reflector", "mood"))
}

func TestState_MergeMappingReplacesNonMapping(t *testing.T) {
	s := New()
	s.Write("coach", "plain string")

	s.MergeMapping("coach", map[string]any{"nudges": "walk"})

	assert.Equal(t, map[string]any{"nudges": "walk"}, s.Read("coach", nil))
}

func TestState_MergeMappingDoesNotAliasCaller(t *testing.T) {
	s := New()
	in := map[string]any{"plan": "x"}
	s.MergeMapping("strategist", in)

	in["plan"] = "mutated"
	assert.Equal(t, "x", s.ReadField("strategist", "plan"))
}

func TestState_ReadFieldOnWrongShape(t *testing.T) {
	s := New()
	s.Write("a", 1)
	s.MergeMapping("b", map[string]any{"n": 3})

	assert.Empty(t, s.ReadField("a", "x"))
	assert.Empty(t, s.ReadField("b", "n"))
	assert.Empty(t, s.ReadField("missing", "x"))
}

func TestState_SnapshotIsCopy(t *testing.T) {
	s := New()
	s.Write("a", 1)

	snap := s.Snapshot()
	snap["b"] = 2

	assert.Equal(t, []string{"a"}, s.Keys())

	s.MergeMapping("m", map[string]any{"x": 1})
	before := s.Snapshot()
	s.MergeMapping("m", map[string]any{"y": 2})
	assert.Equal(t, map[string]any{"x": 1}, before["m"], "earlier snapshot must not see later merges")
}

func TestState_Clear(t *testing.T) {
	s := New()
	s.Write("a", 1)
	s.Write("b", 2)

	s.Clear()

	assert.Empty(t, s.Snapshot())
	assert.Empty(t, s.Keys())
}

func TestState_ConcurrentMerges(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.MergeMapping("shared", map[string]any{fmt.Sprintf("k%d", i): i})
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	m, ok := s.Read("shared", nil).(map[string]any)
	require.True(t, ok)
	assert.Len(t, m, 50)
}

func TestState_ForkIsolatesUntilCommit(t *testing.T) {
	s := New()
	s.MergeMapping("reflector", map[string]any{"insight": "old"})

	a := s.Fork()
	b := s.Fork()
	a.MergeMapping("reflector", map[string]any{"insight": "new"})
	b.MergeMapping("strategist", map[string]any{"plan": "p"})

	assert.Equal(t, "old", s.ReadField("reflector", "insight"))
	assert.Equal(t, "old", b.ReadField("reflector", "insight"), "siblings must not see each other")
	assert.Empty(t, a.ReadField("strategist", "plan"))

	s.Commit(a)
	s.Commit(b)

	assert.Equal(t, "new", s.ReadField("reflector", "insight"))
	assert.Equal(t, "p", s.ReadField("strategist", "plan"))
}

func TestState_CommitOnlyCopiesWrittenKeys(t *testing.T) {
	s := New()
	s.Write("a", 1)
	f := s.Fork()

	s.Write("a", 2)
	f.Write("b", 3)
	s.Commit(f)

	assert.Equal(t, 2, s.Read("a", nil), "unwritten fork keys must not overwrite newer parent values")
	assert.Equal(t, 3, s.Read("b", nil))
}
