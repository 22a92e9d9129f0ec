package models

import "time"

// Comment is a row of the comments table.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentWithAuthor is the public board representation: a comment joined
// with its author's display fields.
type CommentWithAuthor struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorUsername string    `json:"author_username"`
	AuthorID       string    `json:"author_id"`
}
