// Package roster describes the operator set the bot answers to.
package roster

// Roster distinguishes the single super operator from the regular
// operator set. Registration notices go to regular operators only,
// while command access is granted to both.
type Roster struct {
	SuperOperator int64
	Operators     []int64
}

// IsOperator reports whether the user may invoke operator commands.
func (r Roster) IsOperator(userID int64) bool {
	if userID == r.SuperOperator {
		return true
	}
	for _, id := range r.Operators {
		if id == userID {
			return true
		}
	}
	return false
}

// IsSuperOperator reports whether the user is the super operator.
func (r Roster) IsSuperOperator(userID int64) bool {
	return userID == r.SuperOperator
}

// NotifyTargets returns the operators that receive registration notices.
// The super operator is deliberately excluded.
func (r Roster) NotifyTargets() []int64 {
	out := make([]int64, len(r.Operators))
	copy(out, r.Operators)
	return out
}
