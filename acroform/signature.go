package acroform

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"regexp"
	"strings"

	"github.com/benedoc-inc/acroedit/core/parse"
	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

var dataURIRe = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// looksLikeImagePayload reports whether raw is plausibly a base64-encoded
// image (a data: URI, or bare base64 that decodes to a recognized magic
// byte sequence), per spec 4.7 Signature appearance.
func looksLikeImagePayload(raw string) bool {
	if dataURIRe.MatchString(raw) {
		return true
	}
	decoded, err := decodeBase64Loose(raw)
	if err != nil || len(decoded) < 8 {
		return false
	}
	return isJPEGMagic(decoded) || isPNGMagic(decoded)
}

func decodeBase64Loose(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(trimmed)
}

func isJPEGMagic(b []byte) bool {
	return len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF
}

func isPNGMagic(b []byte) bool {
	sig := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return len(b) >= len(sig) && bytes.Equal(b[:len(sig)], sig)
}

// decodedImage holds the format-sniffed payload an embedded signature
// image needs: dimensions for scaling, and either the passthrough JPEG
// bytes or decoded PNG pixel planes.
type decodedImage struct {
	Format   string // "jpeg" or "png"
	Width    int
	Height   int
	JPEGData []byte
	RGB      []byte
	Alpha    []byte
	HasAlpha bool
}

func decodeImagePayload(raw string) (decodedImage, error) {
	raw = dataURIRe.ReplaceAllString(raw, "")
	decoded, err := decodeBase64Loose(raw)
	if err != nil {
		return decodedImage{}, types.WrapError(types.ErrCodeAppearanceDecodeFailure, "signature payload is not valid base64", err)
	}

	switch {
	case isJPEGMagic(decoded):
		w, h, ok := sniffJPEGDimensions(decoded)
		if !ok {
			return decodedImage{}, types.NewPDFError(types.ErrCodeAppearanceDecodeFailure, "could not locate a JPEG SOF marker")
		}
		return decodedImage{Format: "jpeg", Width: w, Height: h, JPEGData: decoded}, nil
	case isPNGMagic(decoded):
		return decodePNGImage(decoded)
	default:
		return decodedImage{}, types.NewPDFError(types.ErrCodeAppearanceDecodeFailure, "signature payload is neither JPEG nor PNG")
	}
}

// sniffJPEGDimensions scans JPEG markers for a Start-Of-Frame (SOF0, SOF1,
// or SOF2) segment and reads its height/width fields directly, rather than
// decoding the whole image, per spec 4.7 Signature appearance.
func sniffJPEGDimensions(data []byte) (width, height int, ok bool) {
	i := 2 // skip the FF D8 SOI marker
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xD8 || marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			i += 2
			continue
		}
		if i+4 > len(data) {
			break
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		isSOF := marker == 0xC0 || marker == 0xC1 || marker == 0xC2
		if isSOF {
			if i+9 > len(data) {
				return 0, 0, false
			}
			height = int(data[i+5])<<8 | int(data[i+6])
			width = int(data[i+7])<<8 | int(data[i+8])
			return width, height, true
		}
		if marker == 0xD9 { // EOI
			break
		}
		i += 2 + segLen
	}
	return 0, 0, false
}

// decodePNGImage decodes a PNG's IHDR and full pixel data via the standard
// library decoder (baseline PNG-to-raw-RGB is explicitly in scope; full
// arbitrary image codecs are not), producing raw RGB bytes and, when any
// pixel is partially transparent, a parallel gray alpha plane for an
// /SMask, per spec 4.7 Signature appearance.
func decodePNGImage(data []byte) (decodedImage, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return decodedImage{}, types.WrapError(types.ErrCodeAppearanceDecodeFailure, "invalid PNG payload", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgb := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			rgb = append(rgb, byte(r>>8), byte(g>>8), byte(b>>8))
			av := byte(a >> 8)
			alpha = append(alpha, av)
			if av < 255 {
				hasAlpha = true
			}
		}
	}
	return decodedImage{Format: "png", Width: w, Height: h, RGB: rgb, Alpha: alpha, HasAlpha: hasAlpha}, nil
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// applySignatureAppearance decodes raw, builds the passthrough JPEG or
// decoded/compressed PNG (with optional /SMask) image object, a Form
// XObject that scales and centers it within rect, and attaches /AP to
// widgetRef, per spec 4.7 Signature appearance.
func (d *Document) applySignatureAppearance(fieldRef, widgetRef types.Ref, rect [4]float64, raw string) error {
	img, err := decodeImagePayload(raw)
	if err != nil {
		return err
	}

	fieldW := rect[2] - rect[0]
	fieldH := rect[3] - rect[1]
	scale := min64(fieldW/float64(img.Width), fieldH/float64(img.Height))
	scaledW := scale * float64(img.Width)
	scaledH := scale * float64(img.Height)
	offsetX := (fieldW - scaledW) / 2
	offsetY := (fieldH - scaledH) / 2

	imageRef := d.AllocateRefs(1)[0]
	switch img.Format {
	case "jpeg":
		d.Patches().Enqueue(imageRef, jpegImageObjectBody(img.Width, img.Height, img.JPEGData))
	case "png":
		compressedRGB := parse.CompressFlate(img.RGB)
		var smaskRef types.Ref
		if img.HasAlpha {
			smaskRef = d.AllocateRefs(1)[0]
			compressedAlpha := parse.CompressFlate(img.Alpha)
			d.Patches().Enqueue(smaskRef, grayImageObjectBody(img.Width, img.Height, compressedAlpha))
		}
		d.Patches().Enqueue(imageRef, rgbImageObjectBody(img.Width, img.Height, compressedRGB, smaskRef, img.HasAlpha))
	}

	content := fmt.Sprintf("q\n1 0 0 1 %g %g cm\n%g 0 0 %g 0 0 cm\n/Im1 Do\nQ", offsetX, offsetY, scaledW, scaledH)
	formRef := d.AllocateRefs(1)[0]
	formBody := []byte(fmt.Sprintf(
		"<< /Type /XObject /Subtype /Form /BBox [0 0 %g %g] /Resources << /XObject << /Im1 %s >> >> /Length %d >>\nstream\n%s\nendstream",
		fieldW, fieldH, imageRef, len(content), content))
	d.Patches().Enqueue(formRef, formBody)

	widgetBody, ok := d.ObjectBody(widgetRef)
	if !ok {
		return types.NewPDFError(types.ErrCodeMalformedPDF, "unresolvable widget for signature appearance")
	}
	widgetBody = dictscan.UpsertKeyValue(widgetBody, "AP", []byte(fmt.Sprintf("<< /N %s >>", formRef)))
	d.Patches().Enqueue(widgetRef, widgetBody)
	return nil
}

func jpegImageObjectBody(w, h int, jpegData []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode /Length %d >>\nstream\n",
		w, h, len(jpegData))
	buf.Write(jpegData)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}

func rgbImageObjectBody(w, h int, compressedRGB []byte, smaskRef types.Ref, hasSMask bool) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode", w, h)
	if hasSMask {
		fmt.Fprintf(&buf, " /SMask %s", smaskRef)
	}
	fmt.Fprintf(&buf, " /Length %d >>\nstream\n", len(compressedRGB))
	buf.Write(compressedRGB)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}

func grayImageObjectBody(w, h int, compressedAlpha []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8 /Filter /FlateDecode /Length %d >>\nstream\n",
		w, h, len(compressedAlpha))
	buf.Write(compressedAlpha)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}

// attachCheckboxAppearances synthesizes /Yes (a minimal check-mark content
// stream) and /Off (empty) appearance streams for a checkbox widget, wraps
// them as Form XObjects, and sets /AP and /AS, per spec 4.7 AddField.
func (d *Document) attachCheckboxAppearances(widgetRef types.Ref, rect [4]float64, value string) error {
	w := rect[2] - rect[0]
	h := rect[3] - rect[1]

	yesRef := d.AllocateRefs(1)[0]
	offRef := d.AllocateRefs(1)[0]
	d.Patches().Enqueue(yesRef, formXObjectBody(w, h, checkMarkContentStream(w, h)))
	d.Patches().Enqueue(offRef, formXObjectBody(w, h, nil))

	widgetBody, ok := d.ObjectBody(widgetRef)
	if !ok {
		return types.NewPDFError(types.ErrCodeMalformedPDF, "unresolvable widget for checkbox appearance")
	}
	widgetBody = dictscan.UpsertKeyValue(widgetBody, "AP", []byte(fmt.Sprintf("<< /N << /Yes %s /Off %s >> >>", yesRef, offRef)))
	widgetBody = dictscan.UpsertKeyValue(widgetBody, "AS", []byte("/"+value))
	d.Patches().Enqueue(widgetRef, widgetBody)
	return nil
}

func formXObjectBody(w, h float64, content []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< /Type /XObject /Subtype /Form /BBox [0 0 %g %g] /Length %d >>\nstream\n", w, h, len(content))
	buf.Write(content)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}

// checkMarkContentStream draws a 3-vertex check mark scaled to a w×h
// widget rectangle.
func checkMarkContentStream(w, h float64) []byte {
	p1x, p1y := 0.15*w, 0.5*h
	p2x, p2y := 0.4*w, 0.15*h
	p3x, p3y := 0.9*w, 0.85*h
	return []byte(fmt.Sprintf("%g w\n%g %g m\n%g %g l\n%g %g l\nS",
		0.08*h, p1x, p1y, p2x, p2y, p3x, p3y))
}
