package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_Dialog(t *testing.T) {
	sm := NewManager()
	const user = int64(42)

	assert.Equal(t, StateNone, sm.GetState(user))

	sm.Start(user, StateBookDate, map[string]any{KeyFieldID: int64(3)})
	assert.Equal(t, StateBookDate, sm.GetState(user))

	fieldID, ok := sm.GetInt64(user, KeyFieldID)
	assert.True(t, ok)
	assert.Equal(t, int64(3), fieldID)

	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	sm.SetData(user, KeyDate, day)
	sm.SetState(user, StateBookTime)

	got, ok := sm.GetTime(user, KeyDate)
	assert.True(t, ok)
	assert.True(t, day.Equal(got))

	_, ok = sm.GetTime(user, KeyFieldID)
	assert.False(t, ok, "wrong type")

	// новый диалог не наследует данные старого
	sm.Start(user, StateProofURL, map[string]any{KeyBookingID: int64(9)})
	_, ok = sm.GetData(user, KeyFieldID)
	assert.False(t, ok)

	sm.SetState(user, StateNone)
	assert.Equal(t, StateNone, sm.GetState(user))
	_, ok = sm.GetInt64(user, KeyBookingID)
	assert.False(t, ok)
}

func TestManager_ClearState(t *testing.T) {
	sm := NewManager()
	sm.SetData(1, KeyBookingID, int64(5))
	assert.Equal(t, StateNone, sm.GetState(1))

	sm.ClearState(1)
	_, ok := sm.GetData(1, KeyBookingID)
	assert.False(t, ok)
}

func TestManager_Concurrent(t *testing.T) {
	sm := NewManager()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sm.Start(id, StateBookDate, nil)
			sm.SetData(id, KeyFieldID, id)
			sm.SetState(id, StateBookTime)
			_, _ = sm.GetInt64(id, KeyFieldID)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		assert.Equal(t, StateBookTime, sm.GetState(i))
		v, ok := sm.GetInt64(i, KeyFieldID)
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
}
