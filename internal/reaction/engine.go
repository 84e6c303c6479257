// Package reaction implements the pure decision logic for like/dislike
// toggling. It is free of I/O: given a user's current reaction state on a
// target and the requested action, it returns the resulting state and the
// ordered set of row operations that realize the transition.
package reaction

// State is a user's reaction on a single target. The three variants are
// mutually exclusive; a user never holds a like and a dislike on the same
// target at once.
type State string

const (
	StateNone     State = "none"
	StateLiked    State = "liked"
	StateDisliked State = "disliked"
)

// Action is the reaction a user requests on a target.
type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

// OpKind distinguishes row creation from row deletion.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpDelete OpKind = "delete"
)

// Row names a reaction row family.
type Row string

const (
	RowLike    Row = "like"
	RowDislike Row = "dislike"
)

// Op is a single persistence operation the service must apply.
type Op struct {
	Kind OpKind
	Row  Row
}

// Decision is the outcome of a transition: the resulting state and the
// operations realizing it. Ops are ordered with deletes before creates so
// that a concurrent reader never observes both a like and a dislike for the
// same user/target pair.
type Decision struct {
	Result State
	Ops    []Op
}

// Decide computes the transition for the requested action. Repeating the
// current reaction toggles it off; requesting the opposite reaction removes
// the existing one before creating the new one. Decide is total over the
// three-state domain: unknown states are treated as StateNone.
func Decide(current State, action Action) Decision {
	switch current {
	case StateLiked:
		if action == ActionLike {
			return Decision{
				Result: StateNone,
				Ops:    []Op{{Kind: OpDelete, Row: RowLike}},
			}
		}
		return Decision{
			Result: StateDisliked,
			Ops: []Op{
				{Kind: OpDelete, Row: RowLike},
				{Kind: OpCreate, Row: RowDislike},
			},
		}
	case StateDisliked:
		if action == ActionDislike {
			return Decision{
				Result: StateNone,
				Ops:    []Op{{Kind: OpDelete, Row: RowDislike}},
			}
		}
		return Decision{
			Result: StateLiked,
			Ops: []Op{
				{Kind: OpDelete, Row: RowDislike},
				{Kind: OpCreate, Row: RowLike},
			},
		}
	default:
		if action == ActionDislike {
			return Decision{
				Result: StateDisliked,
				Ops:    []Op{{Kind: OpCreate, Row: RowDislike}},
			}
		}
		return Decision{
			Result: StateLiked,
			Ops:    []Op{{Kind: OpCreate, Row: RowLike}},
		}
	}
}

// ParseAction validates a wire-level action string.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionLike:
		return ActionLike, true
	case ActionDislike:
		return ActionDislike, true
	}
	return "", false
}
