package models

// FileKind identifies how a stored file must be re-sent through Telegram.
type FileKind string

const (
	KindDocument  FileKind = "document"
	KindVideo     FileKind = "video"
	KindAudio     FileKind = "audio"
	KindPhoto     FileKind = "photo"
	KindVoice     FileKind = "voice"
	KindVideoNote FileKind = "video_note"
)

// StoredFile is one shareable file in the "files" collection. FileID is
// the Telegram-issued token for the uploaded content; the bot never
// stores bytes.
type StoredFile struct {
	FileID   string   `bson:"file_id"`
	Code     string   `bson:"file_code"`
	Kind     FileKind `bson:"file_type"`
	FileName string   `bson:"file_name,omitempty"`
	MimeType string   `bson:"mime_type,omitempty"`
	FileSize int64    `bson:"file_size,omitempty"`
	Caption  string   `bson:"caption,omitempty"`
	OwnerID  int64    `bson:"user_id"`
}

// BatchFile is one entry of a batch. Batches embed full copies so a
// batch keeps working even if the mirrored single-file row is deleted.
type BatchFile struct {
	FileID   string   `bson:"file_id"`
	Kind     FileKind `bson:"file_type"`
	FileName string   `bson:"file_name,omitempty"`
	MimeType string   `bson:"mime_type,omitempty"`
	FileSize int64    `bson:"file_size,omitempty"`
	Caption  string   `bson:"caption,omitempty"`
}

// BatchEntry is one document of the "batches" collection. Files is
// non-empty at creation and append-only afterwards.
type BatchEntry struct {
	Code    string      `bson:"batch_code"`
	Files   []BatchFile `bson:"files"`
	OwnerID int64       `bson:"user_id"`
}
