package models

// Role of a conversation turn author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Image types the model backend accepts.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// Attachment is a single image bound to one outgoing user turn.
// Immutable once created.
type Attachment struct {
	MimeType string
	Data     []byte
}

// AllowedMimeType reports whether mime is an accepted image type.
func AllowedMimeType(mime string) bool {
	return mime == MimeJPEG || mime == MimePNG
}

// Turn is one message in the conversation. A user turn may carry an
// attachment; assistant turns never do and always have text.
type Turn struct {
	Role       Role
	Text       string
	Attachment *Attachment
}

// HasImage reports whether the turn carries an image attachment.
func (t Turn) HasImage() bool { return t.Attachment != nil }
