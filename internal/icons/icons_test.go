package icons

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSourceImage(t *testing.T, dir, name string, size int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestDetectSource_FindsDefaultCandidates(t *testing.T) {
	dir := t.TempDir()
	writeSourceImage(t, dir, "icon.png", 8)

	path, ok := DetectSource(dir, "")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "icon.png"), path)
}

func TestDetectSource_CustomNameOnly(t *testing.T) {
	dir := t.TempDir()
	writeSourceImage(t, dir, "icon.png", 8)
	writeSourceImage(t, dir, "logo.png", 8)

	path, ok := DetectSource(dir, "logo.png")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "logo.png"), path)

	_, ok = DetectSource(dir, "missing.png")
	require.False(t, ok)
}

func TestDetectSource_MissingDirectory(t *testing.T) {
	_, ok := DetectSource(filepath.Join(t.TempDir(), "extras"), "")
	require.False(t, ok)
}

func TestGenerateAll_WritesFaviconAndAppleIcons(t *testing.T) {
	dir := t.TempDir()
	source := writeSourceImage(t, dir, "icon.png", 256)
	outDir := filepath.Join(dir, "icons")

	generated, err := NewGenerator(source, outDir).GenerateAll()
	require.NoError(t, err)
	require.Contains(t, generated, "favicon.ico")
	require.Contains(t, generated, "apple-touch-icon.png")
	require.Len(t, generated, 6)

	// The touch icon decodes as a 180x180 PNG.
	f, err := os.Open(filepath.Join(outDir, "apple-touch-icon.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 180, img.Bounds().Dx())
}

func TestGenerateAll_UnreadableSource_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "icon.png")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o644))

	_, err := NewGenerator(bogus, filepath.Join(dir, "icons")).GenerateAll()
	require.Error(t, err)
}

func TestWriteICO_ProducesValidContainer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	require.NoError(t, writeICO(&buf, []image.Image{img}))

	raw := buf.Bytes()
	require.GreaterOrEqual(t, len(raw), icoHeaderSize+icoDirEntrySize)

	// ICONDIR: reserved 0, type 1, count 1.
	require.Equal(t, uint16(0), binary.LittleEndian.Uint16(raw[0:2]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(raw[2:4]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(raw[4:6]))

	// Entry: 16x16, payload begins right after the directory with a PNG magic.
	require.Equal(t, uint8(16), raw[6])
	offset := binary.LittleEndian.Uint32(raw[18:22])
	require.Equal(t, uint32(icoHeaderSize+icoDirEntrySize), offset)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw[offset:offset+4])
}

func TestWriteICO_NoImages_ReturnsError(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, writeICO(&buf, nil))
}
