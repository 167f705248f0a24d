package cli

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/artwall/pkg/config"
	"github.com/Fepozopo/artwall/pkg/imageio"
	"github.com/Fepozopo/artwall/pkg/stdimg"
)

const tinyConfig = `
profile: tiny
profiles:
  tiny:
    width: 160
    height: 100
    menu_bar_height: 6
resampler: nearest
background_blur: 3
shadow:
  iterations: 2
  border: 4
`

// testEnv writes a config and one source image and returns their folder.
func testEnv(t *testing.T) (cfgPath, in string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "artwall.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(tinyConfig), 0o644))
	in = filepath.Join(dir, "in")
	require.NoError(t, os.MkdirAll(in, 0o755))
	src := stdimg.NewSolidNRGBA(60, 40, color.NRGBA{R: 200, G: 90, B: 30, A: 255})
	require.NoError(t, imageio.Encode(filepath.Join(in, "art.png"), src, 90))
	return cfgPath, in
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(&out, &errOut)
	cmd.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "artwall.log")))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestComposeCommandWritesWallpaper(t *testing.T) {
	cfgPath, in := testEnv(t)
	dst := filepath.Join(t.TempDir(), "nested", "wall.jpg")

	out, _, err := execute(t, "compose", filepath.Join(in, "art.png"), dst, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "art.png ...")

	img, info, err := imageio.Decode(dst)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", info.Format)
	assert.Equal(t, image.Pt(160, 100), img.Bounds().Size())
}

func TestGenerateCommandUsesPerScreenFolder(t *testing.T) {
	cfgPath, in := testEnv(t)
	require.NoError(t, imageio.Encode(filepath.Join(in, "second.jpg"), stdimg.NewSolidNRGBA(30, 90, color.NRGBA{B: 255, A: 255}), 90))
	outRoot := t.TempDir()

	out, _, err := execute(t, "generate", "--config", cfgPath, "--input", in, "--output", outRoot, "--subfolder", "set1")
	require.NoError(t, err)
	assert.Contains(t, out, "1/2 ---> ")
	assert.Contains(t, out, "2/2 ---> ")
	assert.Contains(t, out, "Total runtime:")
	assert.Contains(t, out, "2 composed, 0 failed, 0 skipped")

	folder := filepath.Join(outRoot, config.OutputPrefix+"_160x100", "set1")
	for _, name := range []string{"art.png", "second.jpg"} {
		img, _, err := imageio.Decode(filepath.Join(folder, name))
		require.NoError(t, err, name)
		assert.Equal(t, image.Pt(160, 100), img.Bounds().Size(), name)
	}
}

func TestGenerateCommandFromListFile(t *testing.T) {
	cfgPath, in := testEnv(t)
	list := filepath.Join(in, "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("# favourites\nart.png\n\n"), 0o644))
	outRoot := t.TempDir()

	_, _, err := execute(t, "generate", "--config", cfgPath, "--list", list, "--output", outRoot)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outRoot, config.OutputPrefix+"_160x100", "art.png"))
}

func TestGenerateCommandEmptyFolder(t *testing.T) {
	cfgPath, _ := testEnv(t)
	_, errOut, err := execute(t, "generate", "--config", cfgPath, "--input", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, errOut, "no images found")
}

func TestUnknownProfileFails(t *testing.T) {
	cfgPath, in := testEnv(t)
	_, errOut, err := execute(t, "compose", filepath.Join(in, "art.png"), "--config", cfgPath, "--profile", "nope")
	require.Error(t, err)
	assert.Contains(t, errOut, "unknown screen profile")
}

func TestProfileFlagRepairsBadConfig(t *testing.T) {
	cfgPath, in := testEnv(t)
	bad := strings.Replace(tinyConfig, "profile: tiny", "profile: nope", 1)
	require.NoError(t, os.WriteFile(cfgPath, []byte(bad), 0o644))
	dst := filepath.Join(t.TempDir(), "wall.png")

	_, _, err := execute(t, "compose", filepath.Join(in, "art.png"), dst, "--config", cfgPath)
	require.Error(t, err)

	_, _, err = execute(t, "compose", filepath.Join(in, "art.png"), dst, "--config", cfgPath, "--profile", "tiny")
	require.NoError(t, err)
	img, _, err := imageio.Decode(dst)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(160, 100), img.Bounds().Size())
}

func TestProfilesCommandMarksSelected(t *testing.T) {
	cfgPath, _ := testEnv(t)
	out, _, err := execute(t, "profiles", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "tiny *")
	assert.Contains(t, out, "160x100")
	assert.Contains(t, out, "macbook")
	assert.Contains(t, out, "5760x3240")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "artwall "+Version))
}

func TestFlagOverridesOnlyWhenGiven(t *testing.T) {
	var o overrides
	cmd := &cobra.Command{Use: "x"}
	o.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--quality", "40", "--shadow-offset", "3,-2", "--no-upscale", "--resampler", "gift"}))

	cfg := config.Default()
	cfg.Workers = 3
	require.NoError(t, o.apply(cmd, cfg))
	assert.Equal(t, 40, cfg.Quality)
	assert.Equal(t, 3, cfg.Shadow.OffsetX)
	assert.Equal(t, -2, cfg.Shadow.OffsetY)
	assert.False(t, cfg.ScaleIfSmall)
	assert.Equal(t, "gift", cfg.Resampler)
	// untouched flags keep the configured value, not the flag default
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, config.DefaultProfile, cfg.Profile)
}

func TestFlagOverridesRejectBadOffset(t *testing.T) {
	var o overrides
	cmd := &cobra.Command{Use: "x"}
	o.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--shadow-offset", "3"}))
	assert.Error(t, o.apply(cmd, config.Default()))
}

func TestRunReportsErrors(t *testing.T) {
	var errOut bytes.Buffer
	a := &app{errOut: &errOut}
	err := a.run(func() error { return errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, "Error: boom\n", errOut.String())

	errOut.Reset()
	a.debug = true
	require.Error(t, a.run(func() error { return errors.New("boom") }))
	assert.Contains(t, errOut.String(), "boom")
	assert.Contains(t, errOut.String(), "cli_test.go")

	errOut.Reset()
	a.silent = true
	require.Error(t, a.run(nil))
	assert.Empty(t, errOut.String())

	assert.NoError(t, a.run(func() error { return nil }))
}
