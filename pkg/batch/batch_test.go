package batch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/artwall/pkg/imageio"
	"github.com/Fepozopo/artwall/pkg/logx"
	"github.com/Fepozopo/artwall/pkg/shadow"
	"github.com/Fepozopo/artwall/pkg/stdimg"
	"github.com/Fepozopo/artwall/pkg/wallpaper"
)

var screen = wallpaper.ScreenProfile{Name: "tiny", Width: 160, Height: 100, MenuBarHeight: 6}

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := stdimg.NewSolidNRGBA(w, h, color.NRGBA{R: 120, G: 60, B: 200, A: 255})
	require.NoError(t, imageio.Encode(path, img, 90))
}

func newRunner(out string, progress io.Writer) *Runner {
	return &Runner{
		Composer: wallpaper.New(wallpaper.WithShadow(shadow.Spec{Border: 4, Iterations: 2, Color: color.NRGBA{A: 200}})),
		Screen:   screen,
		OutDir:   out,
		Workers:  2,
		Quality:  90,
		Logger:   logx.Discard(),
		Progress: progress,
	}
}

func TestRunContinuesPastCorruptFile(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "walls")
	writeImage(t, filepath.Join(in, "a.png"), 40, 30)
	writeImage(t, filepath.Join(in, "b.jpg"), 300, 90)
	writeImage(t, filepath.Join(in, "c.tif"), 20, 60)
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.jpg"), []byte("not really a jpeg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip me"), 0o644))

	sources, err := FromDir(in)
	require.NoError(t, err)
	require.Len(t, sources, 4)

	var progress bytes.Buffer
	sum, err := newRunner(out, &progress).Run(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 3, sum.Done)
	assert.Equal(t, 1, sum.Failed)

	for _, name := range []string{"a.png", "b.jpg", "c.tif"} {
		img, _, err := imageio.Decode(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Equal(t, image.Pt(160, 100), img.Bounds().Size(), name)
	}
	_, err = os.Stat(filepath.Join(out, "broken.jpg"))
	assert.True(t, os.IsNotExist(err), "no output for a failed image")

	lines := progress.String()
	assert.Contains(t, lines, "/4 ---> a.png ... ")
	assert.Contains(t, lines, " seconds\n")
	assert.Contains(t, lines, "broken.jpg ... failed")
	assert.Contains(t, lines, "Total runtime: ")

	var failed Result
	for _, r := range sum.Results {
		if r.Err != nil {
			failed = r
		}
	}
	var de *imageio.DecodeError
	assert.ErrorAs(t, failed.Err, &de)
}

func TestRunSkipsLargeImages(t *testing.T) {
	in := t.TempDir()
	writeImage(t, filepath.Join(in, "big.png"), 100, 100)
	writeImage(t, filepath.Join(in, "small.png"), 10, 10)
	r := newRunner(t.TempDir(), nil)
	r.MaxPixels = 50 * 50
	sum, err := r.Run(context.Background(), []string{filepath.Join(in, "big.png"), filepath.Join(in, "small.png")})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Done)
	assert.True(t, sum.Results[0].Skipped)
	assert.ErrorIs(t, sum.Results[0].Err, ErrTooLarge)
}

func TestRunWritesDebugStages(t *testing.T) {
	in := t.TempDir()
	src := filepath.Join(in, "art.png")
	writeImage(t, src, 30, 30)
	r := newRunner(t.TempDir(), nil)
	r.DebugDir = t.TempDir()
	res := r.Process(src)
	require.NoError(t, res.Err)
	for _, name := range debugNames {
		_, err := os.Stat(filepath.Join(r.DebugDir, "art", name))
		assert.NoError(t, err, name)
	}
}

func TestRunCancelled(t *testing.T) {
	in := t.TempDir()
	src := filepath.Join(in, "a.png")
	writeImage(t, src, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := newRunner(t.TempDir(), nil).Run(ctx, []string{src, src})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Done)
}

func TestFromListFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("# favourites\nmonet.jpg\n\n  /abs/klimt.png  \n"), 0o644))

	got, err := FromListFile(list, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "monet.jpg"), "/abs/klimt.png"}, got)

	got, err = FromListFile(list, "/art")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/art", "monet.jpg"), got[0])

	_, err = FromListFile(filepath.Join(dir, "missing.txt"), "")
	assert.Error(t, err)
}

func TestIsImage(t *testing.T) {
	for _, p := range []string{"a.PNG", "b.jpeg", "c.TIF", "d.webp"} {
		assert.True(t, IsImage(p), p)
	}
	for _, p := range []string{".hidden.png", "notes.txt", "noext", "x.png.tmp"} {
		assert.False(t, IsImage(p), p)
	}
}

func TestDestPath(t *testing.T) {
	r := &Runner{OutDir: "/out"}
	assert.Equal(t, "/out/a.png", r.DestPath("/in/a.png"))
	assert.Equal(t, "/out/b.jpg", r.DestPath("/in/b.webp"))
	assert.True(t, strings.HasSuffix(r.DestPath("c.TIF"), "c.TIF"))
}

func TestRunWithoutProgressWriter(t *testing.T) {
	in := t.TempDir()
	src := filepath.Join(in, "quiet.png")
	writeImage(t, src, 20, 20)
	r := newRunner(t.TempDir(), nil)
	require.Nil(t, r.Progress)
	sum, err := r.Run(context.Background(), []string{src})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Done)
	assert.NotPanics(t, func() { r.Report(sum.Results[0]) })
}
