package timeline

import (
	"fmt"

	"chat-client/internal/models"
)

// projectLocked classifies an event's content into a projection. An
// already-redacted event short-circuits regardless of its original type.
func (e *Engine) projectLocked(ev models.Event) models.MessageProjection {
	p := models.MessageProjection{
		EventID:  ev.ID,
		SenderID: ev.SenderID,
		Time:     ev.Time(),
	}

	if e.redacted[ev.ID] {
		p.Kind = models.KindRedacted
		p.IsRedacted = true
		p.DisplayContent = models.RedactedPlaceholder
		return p
	}

	switch ev.Content.MsgType {
	case models.MsgFile:
		p.Kind = models.KindFile
		if f := ev.Content.File; f != nil {
			p.FileName = f.Name
			p.FileSize = HumanizeBytes(f.Size)
			p.FileURL = f.URL
			p.DisplayContent = f.Name
		}
	case models.MsgImage:
		p.Kind = models.KindImage
		p.ImageURL = ev.Content.ImageURL
		p.DisplayContent = ev.Content.Body
	default:
		p.Kind = models.KindText
		p.DisplayContent = ev.Content.Body
	}
	return p
}

// HumanizeBytes renders a byte count with two decimals at multiples of
// 1000, e.g. 1536000 -> "1.54 MB".
func HumanizeBytes(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.2f GB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.2f MB", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.2f KB", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
