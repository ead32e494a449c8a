package domain

// Exchange is one user query paired with the assistant answer it produced.
// Exchanges are owned by a session and evicted oldest-first once the
// session's bound is exceeded.
type Exchange struct {
	Query  string
	Answer string
}

// DefaultMaxHistory is the default number of exchanges a session retains.
const DefaultMaxHistory = 2
