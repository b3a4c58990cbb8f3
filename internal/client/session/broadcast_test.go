package session

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_StartsWithCurrentState(t *testing.T) {
	m := NewManager(&fakeBackend{}, newMemoryStore())
	m.Restore(context.Background())

	ch, unsubscribe := m.Subscribe()
	defer unsubscribe()

	st := <-ch
	assert.True(t, st.Initialized)
}

func TestSubscribe_KeepsOnlyLatest(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	be := &fakeBackend{
		login: func(_ context.Context, email, _ string) (*models.Session, error) {
			return sessionFor(email, baseTime.Add(time.Hour)), nil
		},
	}
	m := NewManager(be, newMemoryStore(), WithClock(clock.Now))
	ch, unsubscribe := m.Subscribe()
	defer unsubscribe()

	m.Restore(ctx)
	m.Login(ctx, models.Credentials{Email: "a"})
	m.Login(ctx, models.Credentials{Email: "b"})

	st := <-ch
	require.NotNil(t, st.User)
	assert.Equal(t, "b", st.User.ID)
	assert.Equal(t, m.State(), st)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected buffered state: %+v", extra)
	default:
	}
}

func TestSubscribe_EveryObserverSeesTransitions(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakeBackend{}, newMemoryStore())
	first, unsubFirst := m.Subscribe()
	defer unsubFirst()
	second, unsubSecond := m.Subscribe()
	defer unsubSecond()

	m.Restore(ctx)

	assert.True(t, (<-first).Initialized)
	assert.True(t, (<-second).Initialized)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m := NewManager(&fakeBackend{}, newMemoryStore())
	ch, unsubscribe := m.Subscribe()
	<-ch

	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok, "channel is closed")

	m.Restore(context.Background())
	assert.Empty(t, m.subs)
}
