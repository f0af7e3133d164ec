package sessionid

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	id := New()
	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))
}

func TestNewUnique(t *testing.T) {
	t.Parallel()
	ids := make(map[string]bool)
	for range 100 {
		id := New()
		require.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	a := NewGenerator(randutil.New(9), clock)
	b := NewGenerator(randutil.New(9), clock)
	assert.Equal(t, a.New(), b.New())
}

func TestGeneratorTimeSorted(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	g := NewGenerator(randutil.New(1), clock)

	prev := g.New()
	for range 10 {
		clock.Advance(time.Millisecond).MustWait(ctx)
		next := g.New()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestEncodeKnownValues(t *testing.T) {
	t.Parallel()
	var zero [16]byte
	assert.Equal(t, "00000000000000000000000000", encode(zero))

	var max [16]byte
	for i := range max {
		max[i] = 0xff
	}
	assert.Equal(t, "7zzzzzzzzzzzzzzzzzzzzzzzzz", encode(max))
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid ID", id: "01h5n0et5q6mt3v7ms1234abcd"},
		{name: "too short", id: "01h5n0et5q6mt3v7ms123", wantErr: true},
		{name: "too long", id: "01h5n0et5q6mt3v7ms1234abcdef", wantErr: true},
		{name: "first char too high", id: "81h5n0et5q6mt3v7ms1234abcd", wantErr: true},
		{name: "excluded letter", id: "01h5n0et5q6mt3v7ms1234abci", wantErr: true},
		{name: "uppercase", id: "01H5N0ET5Q6MT3V7MS1234ABCD", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
