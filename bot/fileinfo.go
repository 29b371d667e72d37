package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-sharebot/models"
)

// extractFile normalizes the six Telegram media shapes into one tagged
// record, so nothing downstream branches on transport types again.
func extractFile(msg *tgbotapi.Message) (models.BatchFile, bool) {
	switch {
	case msg.Document != nil:
		return models.BatchFile{
			FileID:   msg.Document.FileID,
			Kind:     models.KindDocument,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MimeType,
			FileSize: int64(msg.Document.FileSize),
			Caption:  msg.Caption,
		}, true
	case msg.Video != nil:
		return models.BatchFile{
			FileID:   msg.Video.FileID,
			Kind:     models.KindVideo,
			FileName: msg.Video.FileName,
			MimeType: msg.Video.MimeType,
			FileSize: int64(msg.Video.FileSize),
			Caption:  msg.Caption,
		}, true
	case msg.Audio != nil:
		return models.BatchFile{
			FileID:   msg.Audio.FileID,
			Kind:     models.KindAudio,
			FileName: msg.Audio.FileName,
			MimeType: msg.Audio.MimeType,
			FileSize: int64(msg.Audio.FileSize),
			Caption:  msg.Caption,
		}, true
	case len(msg.Photo) > 0:
		// Telegram sends several sizes; keep the largest.
		photo := msg.Photo[len(msg.Photo)-1]
		return models.BatchFile{
			FileID:   photo.FileID,
			Kind:     models.KindPhoto,
			FileSize: int64(photo.FileSize),
			Caption:  msg.Caption,
		}, true
	case msg.Voice != nil:
		return models.BatchFile{
			FileID:   msg.Voice.FileID,
			Kind:     models.KindVoice,
			MimeType: msg.Voice.MimeType,
			FileSize: int64(msg.Voice.FileSize),
			Caption:  msg.Caption,
		}, true
	case msg.VideoNote != nil:
		return models.BatchFile{
			FileID:   msg.VideoNote.FileID,
			Kind:     models.KindVideoNote,
			FileSize: int64(msg.VideoNote.FileSize),
		}, true
	}
	return models.BatchFile{}, false
}
