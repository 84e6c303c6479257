package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_TransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		current State
		action  Action
		result  State
		ops     []Op
	}{
		{
			name:    "none + like creates like",
			current: StateNone,
			action:  ActionLike,
			result:  StateLiked,
			ops:     []Op{{Kind: OpCreate, Row: RowLike}},
		},
		{
			name:    "none + dislike creates dislike",
			current: StateNone,
			action:  ActionDislike,
			result:  StateDisliked,
			ops:     []Op{{Kind: OpCreate, Row: RowDislike}},
		},
		{
			name:    "liked + like toggles off",
			current: StateLiked,
			action:  ActionLike,
			result:  StateNone,
			ops:     []Op{{Kind: OpDelete, Row: RowLike}},
		},
		{
			name:    "liked + dislike switches",
			current: StateLiked,
			action:  ActionDislike,
			result:  StateDisliked,
			ops: []Op{
				{Kind: OpDelete, Row: RowLike},
				{Kind: OpCreate, Row: RowDislike},
			},
		},
		{
			name:    "disliked + dislike toggles off",
			current: StateDisliked,
			action:  ActionDislike,
			result:  StateNone,
			ops:     []Op{{Kind: OpDelete, Row: RowDislike}},
		},
		{
			name:    "disliked + like switches",
			current: StateDisliked,
			action:  ActionLike,
			result:  StateLiked,
			ops: []Op{
				{Kind: OpDelete, Row: RowDislike},
				{Kind: OpCreate, Row: RowLike},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.current, tt.action)
			assert.Equal(t, tt.result, d.Result)
			assert.Equal(t, tt.ops, d.Ops)
		})
	}
}

func TestDecide_DeleteAlwaysPrecedesCreate(t *testing.T) {
	states := []State{StateNone, StateLiked, StateDisliked}
	actions := []Action{ActionLike, ActionDislike}

	for _, s := range states {
		for _, a := range actions {
			d := Decide(s, a)
			sawCreate := false
			for _, op := range d.Ops {
				if op.Kind == OpCreate {
					sawCreate = true
				}
				if op.Kind == OpDelete {
					assert.False(t, sawCreate, "delete after create for %s+%s", s, a)
				}
			}
		}
	}
}

func TestDecide_ResultNeverHoldsBothRows(t *testing.T) {
	// Replay every transition against a two-flag model and verify the
	// exclusivity invariant holds after each applied operation.
	states := []State{StateNone, StateLiked, StateDisliked}
	actions := []Action{ActionLike, ActionDislike}

	for _, s := range states {
		hasLike := s == StateLiked
		hasDislike := s == StateDisliked
		for _, a := range actions {
			like, dislike := hasLike, hasDislike
			d := Decide(s, a)
			for _, op := range d.Ops {
				switch {
				case op.Row == RowLike && op.Kind == OpCreate:
					like = true
				case op.Row == RowLike && op.Kind == OpDelete:
					like = false
				case op.Row == RowDislike && op.Kind == OpCreate:
					dislike = true
				case op.Row == RowDislike && op.Kind == OpDelete:
					dislike = false
				}
				assert.False(t, like && dislike, "both rows present during %s+%s", s, a)
			}
			switch d.Result {
			case StateLiked:
				assert.True(t, like)
				assert.False(t, dislike)
			case StateDisliked:
				assert.True(t, dislike)
				assert.False(t, like)
			case StateNone:
				assert.False(t, like)
				assert.False(t, dislike)
			}
		}
	}
}

func TestDecide_TotalOverUnknownState(t *testing.T) {
	d := Decide(State("garbage"), ActionLike)
	assert.Equal(t, StateLiked, d.Result)
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("like")
	require.True(t, ok)
	assert.Equal(t, ActionLike, a)

	a, ok = ParseAction("dislike")
	require.True(t, ok)
	assert.Equal(t, ActionDislike, a)

	_, ok = ParseAction("love")
	assert.False(t, ok)
}
