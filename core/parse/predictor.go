package parse

import (
	"regexp"
	"strconv"
)

var predictorRe = regexp.MustCompile(`/Predictor\s+(\d+)`)
var columnsRe = regexp.MustCompile(`/Columns\s+(\d+)`)
var colorsRe = regexp.MustCompile(`/Colors\s+(\d+)`)
var bitsPerComponentRe = regexp.MustCompile(`/BitsPerComponent\s+(\d+)`)

// applyPredictor reverses the PNG predictor (types 10-15) over decoded, if
// the stream's /DecodeParms/Predictor is >= 10, per spec 4.2. Predictor
// values below 10 (none, or TIFF) are left as-is; no example in this corpus
// emits TIFF-predicted xref streams.
func applyPredictor(decoded []byte, dict []byte) []byte {
	m := predictorRe.FindSubmatch(dict)
	if m == nil {
		return decoded
	}
	predictor, _ := strconv.Atoi(string(m[1]))
	if predictor < 10 {
		return decoded
	}

	columns := 1
	if cm := columnsRe.FindSubmatch(dict); cm != nil {
		columns, _ = strconv.Atoi(string(cm[1]))
	}
	colors := 1
	if cm := colorsRe.FindSubmatch(dict); cm != nil {
		colors, _ = strconv.Atoi(string(cm[1]))
	}
	bpc := 8
	if cm := bitsPerComponentRe.FindSubmatch(dict); cm != nil {
		bpc, _ = strconv.Atoi(string(cm[1]))
	}

	bytesPerPixel := (colors*bpc + 7) / 8
	if bytesPerPixel < 1 {
		bytesPerPixel = 1
	}
	rowLen := (columns*colors*bpc + 7) / 8

	var out []byte
	prev := make([]byte, rowLen)
	pos := 0
	for pos+1+rowLen <= len(decoded) {
		filterType := decoded[pos]
		row := make([]byte, rowLen)
		copy(row, decoded[pos+1:pos+1+rowLen])
		pos += 1 + rowLen

		switch filterType {
		case 0: // None
		case 1: // Sub
			for i := range row {
				if i >= bytesPerPixel {
					row[i] += row[i-bytesPerPixel]
				}
			}
		case 2: // Up
			for i := range row {
				row[i] += prev[i]
			}
		case 3: // Average
			for i := range row {
				var left byte
				if i >= bytesPerPixel {
					left = row[i-bytesPerPixel]
				}
				row[i] += byte((int(left) + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := range row {
				var left, upLeft byte
				if i >= bytesPerPixel {
					left = row[i-bytesPerPixel]
					upLeft = prev[i-bytesPerPixel]
				}
				row[i] += paeth(left, prev[i], upLeft)
			}
		}

		out = append(out, row...)
		prev = row
	}
	return out
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
