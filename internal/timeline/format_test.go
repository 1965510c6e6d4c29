package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-client/internal/models"
)

func TestHumanizeBytes(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0 bytes"},
		{999, "999 bytes"},
		{1000, "1.00 KB"},
		{1536, "1.54 KB"},
		{1536000, "1.54 MB"},
		{999999, "1000.00 KB"},
		{2500000000, "2.50 GB"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HumanizeBytes(c.n))
	}
}

func TestProjectFileEvent(t *testing.T) {
	e := &Engine{redacted: map[string]bool{}}
	p := e.projectLocked(models.Event{
		ID:       "$f",
		SenderID: "@me:server",
		Content: models.Content{
			MsgType: models.MsgFile,
			File:    &models.FileInfo{Name: "report.pdf", Size: 1536000, URL: "mxc://file"},
		},
	})

	assert.Equal(t, models.KindFile, p.Kind)
	assert.Equal(t, "report.pdf", p.FileName)
	assert.Equal(t, "1.54 MB", p.FileSize)
	assert.Equal(t, "mxc://file", p.FileURL)
	assert.Equal(t, "report.pdf", p.DisplayContent)
}

func TestProjectImageEvent(t *testing.T) {
	e := &Engine{redacted: map[string]bool{}}
	p := e.projectLocked(models.Event{
		ID:      "$i",
		Content: models.Content{MsgType: models.MsgImage, Body: "cat.png", ImageURL: "mxc://img"},
	})

	assert.Equal(t, models.KindImage, p.Kind)
	assert.Equal(t, "mxc://img", p.ImageURL)
	assert.Equal(t, "cat.png", p.DisplayContent)
}

func TestProjectRedactedFileDropsPayload(t *testing.T) {
	e := &Engine{redacted: map[string]bool{"$f": true}}
	p := e.projectLocked(models.Event{
		ID: "$f",
		Content: models.Content{
			MsgType: models.MsgFile,
			File:    &models.FileInfo{Name: "secret.pdf", Size: 10, URL: "mxc://file"},
		},
	})

	require.True(t, p.IsRedacted)
	assert.Equal(t, models.KindRedacted, p.Kind)
	assert.Equal(t, models.RedactedPlaceholder, p.DisplayContent)
	assert.Empty(t, p.FileName)
	assert.Empty(t, p.FileURL)
}
