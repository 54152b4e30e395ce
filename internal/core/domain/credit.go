package domain

// Credit is a user's ledger row. Exactly one exists per user for the lifetime
// of that user; it is created with the user and deleted with the user.
//
// Balance never goes negative: the debit path is an atomic guarded update,
// not a read-then-write, and callers receive ErrInsufficientCredits instead
// of a clamped value.
type Credit struct {
	Email         string `json:"email"`
	Balance       int64  `json:"balance"`
	IncrementStep int64  `json:"increment_step"`
}
