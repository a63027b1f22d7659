package acroform

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/benedoc-inc/acroedit/dictscan"
)

func tinyPNG(t *testing.T, withAlpha bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			a := uint8(255)
			if withAlpha && x == 0 {
				a = 0
			}
			img.Set(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: a})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestLooksLikeImagePayloadRecognizesDataURIAndBareBase64(t *testing.T) {
	pngBytes := tinyPNG(t, false)
	b64 := base64.StdEncoding.EncodeToString(pngBytes)

	if !looksLikeImagePayload("data:image/png;base64," + b64) {
		t.Fatal("expected a data: URI PNG payload to be recognized")
	}
	if !looksLikeImagePayload(b64) {
		t.Fatal("expected bare base64 PNG bytes to be recognized")
	}
	if looksLikeImagePayload("John Hancock") {
		t.Fatal("a plain text signature value should not look like an image payload")
	}
}

func TestSniffJPEGDimensionsReadsSOF0(t *testing.T) {
	// Minimal JPEG: SOI, an SOF0 segment encoding 8x4 (precision 8, height 4,
	// width 8, 1 component), EOI. Real encoders emit far more markers; the
	// scanner only needs to find the first SOF.
	data := []byte{
		0xFF, 0xD8, // SOI
		0xFF, 0xC0, 0x00, 0x0B, // SOF0, length 11
		0x08,       // precision
		0x00, 0x04, // height = 4
		0x00, 0x08, // width = 8
		0x01,             // components
		0x01, 0x11, 0x00, // component 1 spec
		0xFF, 0xD9, // EOI
	}
	w, h, ok := sniffJPEGDimensions(data)
	if !ok {
		t.Fatal("expected sniffJPEGDimensions to find the SOF0 marker")
	}
	if w != 8 || h != 4 {
		t.Fatalf("sniffJPEGDimensions = %dx%d, want 8x4", w, h)
	}
}

func TestDecodePNGImageProducesAlphaPlaneOnlyWhenTransparent(t *testing.T) {
	opaque, err := decodePNGImage(tinyPNG(t, false))
	if err != nil {
		t.Fatalf("decodePNGImage (opaque): %v", err)
	}
	if opaque.HasAlpha {
		t.Fatal("an all-opaque PNG should not set HasAlpha")
	}
	if opaque.Width != 4 || opaque.Height != 2 {
		t.Fatalf("opaque image dims = %dx%d, want 4x2", opaque.Width, opaque.Height)
	}

	transparent, err := decodePNGImage(tinyPNG(t, true))
	if err != nil {
		t.Fatalf("decodePNGImage (transparent): %v", err)
	}
	if !transparent.HasAlpha {
		t.Fatal("a PNG with a transparent pixel should set HasAlpha")
	}
	if len(transparent.Alpha) != transparent.Width*transparent.Height {
		t.Fatalf("alpha plane length = %d, want %d", len(transparent.Alpha), transparent.Width*transparent.Height)
	}
}

func TestApplySignatureAppearanceAttachesAPToWidget(t *testing.T) {
	doc := openFixture(t)
	pngBytes := tinyPNG(t, true)
	b64 := base64.StdEncoding.EncodeToString(pngBytes)

	added, err := doc.AddField("Signature", AddFieldOptions{
		Type:  FieldSignature,
		Page:  1,
		Rect:  [4]float64{0, 0, 200, 100},
		Value: "data:image/png;base64," + b64,
	})
	if err != nil {
		t.Fatalf("AddField: %v", err)
	}

	var widgetBody []byte
	for _, p := range doc.Patches().Deduplicated() {
		if dictscan.IsWidget(p.Body) {
			if parent, ok := refValue(p.Body, "Parent"); ok && parent == added.Ref {
				widgetBody = p.Body
			}
		}
	}
	if widgetBody == nil {
		t.Fatal("could not find the Signature widget among pending patches")
	}
	if !dictscan.FindKey(widgetBody, "AP") {
		t.Fatalf("signature widget missing /AP: %s", widgetBody)
	}
}

func TestApplySignatureAppearanceRejectsGarbage(t *testing.T) {
	_, err := decodeImagePayload(base64.StdEncoding.EncodeToString([]byte("not an image")))
	if err == nil {
		t.Fatal("expected an error decoding a non-image payload")
	}
}
