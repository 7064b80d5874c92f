package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

const qrTargetSize = 96

// qrDataURI encodes link as a QR code, scales it to the footer badge size
// with nearest-neighbor (modules must stay crisp), and returns a PNG data
// URI suitable for a self-contained document.
func qrDataURI(link string) (string, error) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", err
	}
	src := q.Image(-1) // one pixel per module
	dst := image.NewRGBA(image.Rect(0, 0, qrTargetSize, qrTargetSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
