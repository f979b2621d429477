package vizimage

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/rank"
)

func sampleItems() []rank.Item {
	return rank.Items([]poll.Post{
		{ID: 1, Subject: "[2024.01][TV] Frieren", Votes: 90, AverageScore: 2},
		{ID: 2, Subject: "[2024.04][TV] Dungeon Meshi", Votes: 70, AverageScore: 1},
		{ID: 3, Subject: "[2024.07][TV] Makeine", Votes: 40, AverageScore: -1},
	}, rank.DefaultLimit)
}

func TestRenderProducesImage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	img, err := r.Render(sampleItems(), Options{Width: 600})
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 2*padding)

	// The background stays white at the padding corner.
	assert.Equal(t, color.RGBAModel.Convert(color.White), color.RGBAModel.Convert(img.At(1, 1)))
}

func TestRenderDrawsInScoreColor(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	img, err := r.Render(sampleItems()[:1], Options{Width: 400})
	require.NoError(t, err)

	found := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.R > 200 && c.G < 60 && c.B < 60 {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected red glyph pixels for a top score")
}

func TestRenderEmpty(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	img, err := r.Render(nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, 2*padding, img.Bounds().Dy())
}

func TestWritePNGScaled(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WritePNG(&buf, sampleItems(), Options{Width: 800, Scale: 400}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile("testdata/does-not-exist.ttf")
	assert.Error(t, err)
}
