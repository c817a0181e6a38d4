package entity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEmojiAssignsIdsInInsertionOrder(t *testing.T) {
	doc := NewDocument().
		AddEmoji("😀", -200, -100, 80).
		AddEmoji("😃", 200, 100, 80)

	require.Len(t, doc.Emojis, 2)
	assert.Equal(t, Emoji{Id: 1, Text: "😀", X: -200, Y: -100, Size: 80}, doc.Emojis[0])
	assert.Equal(t, Emoji{Id: 2, Text: "😃", X: 200, Y: 100, Size: 80}, doc.Emojis[1])
	assert.Equal(t, 2, doc.NextId)
}

func TestOperationsDoNotAliasReceiver(t *testing.T) {
	base := NewDocument().AddEmoji("😀", 0, 0, 40)

	moved := base.MoveEmoji(1, 5, 5)
	scaled := base.ScaleEmoji(1, 2)
	removed := base.RemoveEmoji(1)
	added := base.AddEmoji("😃", 1, 1, 40)

	assert.Equal(t, Emoji{Id: 1, Text: "😀", Size: 40}, base.Emojis[0])
	assert.Len(t, base.Emojis, 1)
	assert.Equal(t, 5, moved.Emojis[0].X)
	assert.Equal(t, 80, scaled.Emojis[0].Size)
	assert.Empty(t, removed.Emojis)
	assert.Len(t, added.Emojis, 2)
}

func TestMoveEmojiChangesOnlyTarget(t *testing.T) {
	doc := NewDocument().
		AddEmoji("😀", -200, -100, 80).
		AddEmoji("😃", 200, 100, 80)

	moved := doc.MoveEmoji(1, 10, -5)

	assert.Equal(t, Emoji{Id: 1, Text: "😀", X: -190, Y: -105, Size: 80}, moved.Emojis[0])
	assert.Equal(t, doc.Emojis[1], moved.Emojis[1])
	assert.Equal(t, doc.NextId, moved.NextId)
	assert.True(t, doc.Background.Equal(moved.Background))
}

func TestMissingIdIsNoOp(t *testing.T) {
	doc := NewDocument().AddEmoji("😀", 1, 2, 40)

	assert.True(t, doc.Equal(doc.MoveEmoji(99, 1, 1)))
	assert.True(t, doc.Equal(doc.ScaleEmoji(99, 3)))
	assert.True(t, doc.Equal(doc.RemoveEmoji(99)))
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		factor float64
		want   int
	}{
		{name: "grow", size: 80, factor: 1.5, want: 120},
		{name: "half away from zero", size: 81, factor: 0.5, want: 41},
		{name: "round to nearest", size: 81, factor: 0.49, want: 40},
		{name: "clamped to minimum", size: 1, factor: 0.1, want: MinEmojiSize},
		{name: "negative factor", size: 40, factor: -2, want: MinEmojiSize},
		{name: "zero factor", size: 40, factor: 0, want: MinEmojiSize},
		{name: "nan factor", size: 40, factor: math.NaN(), want: 40},
		{name: "infinite factor", size: 40, factor: math.Inf(1), want: 40},
		{name: "overflow", size: math.MaxInt32, factor: 4, want: math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScaledSize(tt.size, tt.factor))
		})
	}
}

func TestScaleEmoji(t *testing.T) {
	doc := NewDocument().AddEmoji("😀", 0, 0, 80).AddEmoji("😃", 0, 0, 81)

	doc = doc.ScaleEmoji(1, 1.5).ScaleEmoji(2, 0.5)

	assert.Equal(t, 120, doc.Emojis[0].Size)
	assert.Equal(t, 41, doc.Emojis[1].Size)
}

func TestBatchOperations(t *testing.T) {
	doc := NewDocument().
		AddEmoji("😀", 0, 0, 40).
		AddEmoji("😃", 0, 0, 40).
		AddEmoji("😄", 0, 0, 40)

	doc = doc.MoveEmojis([]int{1, 3}, 4, 2).ScaleEmojis([]int{2, 3}, 2)
	assert.Equal(t, Emoji{Id: 1, Text: "😀", X: 4, Y: 2, Size: 40}, doc.Emojis[0])
	assert.Equal(t, Emoji{Id: 2, Text: "😃", Size: 80}, doc.Emojis[1])
	assert.Equal(t, Emoji{Id: 3, Text: "😄", X: 4, Y: 2, Size: 80}, doc.Emojis[2])

	doc = doc.RemoveEmojis([]int{1, 3, 42})
	require.Len(t, doc.Emojis, 1)
	assert.Equal(t, 2, doc.Emojis[0].Id)
}

func TestIdsNeverReused(t *testing.T) {
	doc := NewDocument().AddEmoji("😀", 0, 0, 40).AddEmoji("😃", 0, 0, 40)
	doc = doc.RemoveEmoji(2).AddEmoji("😄", 0, 0, 40)

	assert.Equal(t, 3, doc.Emojis[1].Id)
}

func TestRandomSequencesKeepIdsValid(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	doc := NewDocument()

	for i := 0; i < 2000; i++ {
		var id int
		if len(doc.Emojis) > 0 {
			id = doc.Emojis[r.Intn(len(doc.Emojis))].Id
		}
		switch r.Intn(4) {
		case 0:
			doc = doc.AddEmoji("😀", r.Intn(400)-200, r.Intn(400)-200, r.Intn(100)+1)
		case 1:
			doc = doc.RemoveEmoji(id)
		case 2:
			doc = doc.MoveEmoji(id, r.Intn(20)-10, r.Intn(20)-10)
		case 3:
			doc = doc.ScaleEmoji(id, r.Float64()*3)
		}
		require.NoError(t, doc.Validate())
		for _, e := range doc.Emojis {
			require.GreaterOrEqual(t, e.Size, MinEmojiSize)
		}
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, NewDocument().Validate())

	dup := Document{Emojis: []Emoji{{Id: 1}, {Id: 1}}, NextId: 1}
	assert.Error(t, dup.Validate())

	ahead := Document{Emojis: []Emoji{{Id: 5}}, NextId: 2}
	assert.Error(t, ahead.Validate())
}

func TestSetBackgroundOnlyChangesBackground(t *testing.T) {
	doc := NewDocument().AddEmoji("😀", 0, 0, 40)
	next := doc.SetBackground(RemoteBackground("https://example.com/a.png"))

	assert.Equal(t, doc.Emojis, next.Emojis)
	assert.Equal(t, doc.NextId, next.NextId)
	assert.False(t, doc.Equal(next))
	assert.True(t, doc.Background.IsBlank())
}
