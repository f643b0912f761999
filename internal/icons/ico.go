package icons

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
)

// ICO container layout: a 6-byte ICONDIR header, one 16-byte ICONDIRENTRY
// per image, then the image payloads. PNG payloads are valid for entries
// since Windows Vista and keep the writer free of BMP masking details.

type icoHeader struct {
	Reserved uint16
	Type     uint16 // 1 = icon
	Count    uint16
}

type icoDirEntry struct {
	Width      uint8 // 0 means 256
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

const (
	icoHeaderSize   = 6
	icoDirEntrySize = 16
)

// writeICO encodes images into a multi-resolution .ico file.
func writeICO(w io.Writer, images []image.Image) error {
	if len(images) == 0 {
		return fmt.Errorf("ico: no images to encode")
	}

	payloads := make([][]byte, 0, len(images))
	for _, img := range images {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("ico: encode entry: %w", err)
		}
		payloads = append(payloads, buf.Bytes())
	}

	header := icoHeader{Type: 1, Count: uint16(len(images))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}

	offset := uint32(icoHeaderSize + icoDirEntrySize*len(images))
	for i, img := range images {
		bounds := img.Bounds()
		entry := icoDirEntry{
			Width:      dimensionByte(bounds.Dx()),
			Height:     dimensionByte(bounds.Dy()),
			Planes:     1,
			BitCount:   32,
			BytesInRes: uint32(len(payloads[i])),
			Offset:     offset,
		}
		if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
			return err
		}
		offset += entry.BytesInRes
	}

	for _, payload := range payloads {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

func dimensionByte(d int) uint8 {
	if d >= 256 {
		return 0
	}
	return uint8(d)
}
