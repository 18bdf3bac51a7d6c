package domain

// Status IDs reference the seeded statuses table. Rows carrying a status
// column are effective only while it equals StatusActive.
const (
	StatusActive   int64 = 1
	StatusInactive int64 = 2
)
