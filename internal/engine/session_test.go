package engine

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsDoNotShareState(t *testing.T) {
	e := newEngine(t, fixture, Options{})
	a := NewSession(e, nil)
	b := NewSession(e, nil)

	assert.Equal(t, []string{"A", "B"}, texts(a, "rotate", "rotate"))
	assert.Equal(t, []string{"A"}, texts(b, "rotate"))
	assert.Equal(t, []string{"C"}, texts(a, "rotate"))
}

func TestConcurrentSessions(t *testing.T) {
	e := newDoctor(t)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := NewSession(e, nil)
			for _, ex := range doctorDialogue {
				results[i] = append(results[i], s.Respond(ex.in).Text)
			}
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		require.Len(t, got, len(doctorDialogue), fmt.Sprintf("session %d", i))
		for j, ex := range doctorDialogue {
			assert.Equal(t, ex.want, got[j], "session %d exchange %d", i, j+1)
		}
	}
}

func TestStateResumesThroughJSON(t *testing.T) {
	e := newDoctor(t)
	original := NewSession(e, nil)
	for _, ex := range doctorDialogue[:9] {
		original.Respond(ex.in)
	}

	data, err := json.Marshal(original.Snapshot())
	require.NoError(t, err)
	var st State
	require.NoError(t, json.Unmarshal(data, &st))
	resumed := NewSession(e, &st)

	for _, ex := range doctorDialogue[9:] {
		assert.Equal(t, ex.want, resumed.Respond(ex.in).Text)
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession(newEngine(t, fixture, Options{}), nil)
	texts(s, "rotate", "rotate")
	s.Reset()
	assert.Equal(t, "A", s.Respond("rotate").Text)
	assert.Equal(t, "HI", s.Greeting())
	assert.Equal(t, "GOODBYE", s.Farewell())
}

func TestStateClonesDeeply(t *testing.T) {
	st := NewState()
	st.advance("K", 2, 3)
	st.PushMemory([]string{"m"})

	c := st.Clone()
	c.advance("K", 2, 3)
	c.PushMemory([]string{"n"})

	assert.Equal(t, []int{0, 0, 1}, st.Rotation["K"])
	assert.Equal(t, []int{0, 0, 2}, c.Rotation["K"])
	assert.Len(t, st.Memory, 1)
}
