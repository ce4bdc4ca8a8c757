package models

import (
	"time"

	"github.com/google/uuid"
)

// Note represents a note owned by a tenant. AuthorID records who created
// the note; it carries no access-control meaning, any member of the
// owning tenant may read or modify the note.
type Note struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	TenantID uuid.UUID `json:"tenantId" db:"tenant_id"`
	AuthorID uuid.UUID `json:"authorId" db:"author_id"`

	Title   string `json:"title" db:"title"`
	Content string `json:"content" db:"content"`
}

// NoteUpdate describes a partial note update; nil fields are left unchanged.
type NoteUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
