package ticket

// The board state machine is linear: todo <-> in_progress <-> done.
// Every move is a single column step; there is no todo <-> done edge.

// Next returns the status one column over in the given direction.
// Moving left from todo or right from done returns ErrNoTransition.
func Next(s Status, d Direction) (Status, error) {
	switch d {
	case MoveRight:
		switch s {
		case StatusTodo:
			return StatusInProgress, nil
		case StatusInProgress:
			return StatusDone, nil
		}
	case MoveLeft:
		switch s {
		case StatusDone:
			return StatusInProgress, nil
		case StatusInProgress:
			return StatusTodo, nil
		}
	}
	return "", ErrNoTransition
}

// ValidateTransition checks that from -> to is a single-step move.
func ValidateTransition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return ErrInvalidStatus
	}
	switch from {
	case StatusTodo:
		if to == StatusInProgress {
			return nil
		}
	case StatusInProgress:
		if to == StatusTodo || to == StatusDone {
			return nil
		}
	case StatusDone:
		if to == StatusInProgress {
			return nil
		}
	}
	return ErrNoTransition
}
