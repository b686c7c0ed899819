package domain

import "time"

// Comment is a single thread entry on a ticket. Comments are immutable once
// created and ordered by (CreatedAt, ID) ascending. Internal comments are
// visible to analysts only, including on tickets the caller created.
type Comment struct {
	ID         int64
	TicketID   int64
	AuthorID   int64
	Body       string
	IsInternal bool
	CreatedAt  time.Time

	AuthorName string
}
