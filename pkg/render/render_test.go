package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/render"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *core.Time {
	return core.NewTime(now.Add(d))
}

func TestNoteStatus(t *testing.T) {
	tests := []struct {
		name string
		note core.Note
		want render.Status
	}{
		{"plain", core.Note{}, render.StatusActive},
		{"expired in the past", core.Note{ExpirationTime: at(-time.Minute)}, render.StatusExpired},
		{"expires exactly now", core.Note{ExpirationTime: at(0)}, render.StatusExpired},
		{"expired and shared", core.Note{ExpirationTime: at(-time.Hour), ShareToken: "t"}, render.StatusExpired},
		{"shared", core.Note{ShareToken: "t"}, render.StatusShared},
		{"share lapsed", core.Note{ShareToken: "t", ShareExpirationTime: at(-time.Hour)}, render.StatusActive},
		{"expiring soon", core.Note{ExpirationTime: at(2 * time.Hour)}, render.StatusExpiring},
		{"expires later", core.Note{ExpirationTime: at(72 * time.Hour)}, render.StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.NoteStatus(tt.note, now))
		})
	}
}

func TestBadges(t *testing.T) {
	n := core.Note{ShareToken: "t", ExpirationTime: at(-time.Second)}
	assert.Equal(t, []string{"Shared", "Expired"}, render.Badges(n, now))
	assert.Empty(t, render.Badges(core.Note{}, now))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", render.Preview("short"))

	long := strings.Repeat("é", render.PreviewLength+5)
	got := render.Preview(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("é", render.PreviewLength)+"...", got)
}

func TestFormatDate(t *testing.T) {
	assert.Empty(t, render.FormatDate(nil))
	assert.NotEmpty(t, render.FormatDate(at(0)))
}

func TestHTML(t *testing.T) {
	out, err := render.HTML(core.Note{
		ID:      1,
		Title:   "Groceries <today>",
		Content: "# List\n\n- **milk**\n- eggs\n\n<script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Groceries &lt;today&gt;</h1>")
	assert.Contains(t, out, "<strong>milk</strong>")
	assert.Contains(t, out, "<li>eggs</li>")
	assert.NotContains(t, out, "<script>")
}
