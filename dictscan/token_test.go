package dictscan

import "testing"

func TestValueTokenAfterKinds(t *testing.T) {
	dict := []byte(`<< /T (John Smith) /FT /Tx /Ff 12 /Rect [1 2 3 4] /Kids [1 0 R 2 0 R] /AP << /N 5 0 R >> /V <4A6F686E> >>`)

	tok, ok := ValueTokenAfter(dict, "T")
	if !ok || tok.Kind != TokenString || string(tok.Bytes(dict)) != "(John Smith)" {
		t.Fatalf("T: got %+v ok=%v", tok, ok)
	}

	tok, ok = ValueTokenAfter(dict, "FT")
	if !ok || tok.Kind != TokenName || string(tok.Bytes(dict)) != "/Tx" {
		t.Fatalf("FT: got %+v ok=%v", tok, ok)
	}

	tok, ok = ValueTokenAfter(dict, "Ff")
	if !ok || tok.Kind != TokenAtom || string(tok.Bytes(dict)) != "12" {
		t.Fatalf("Ff: got %+v ok=%v", tok, ok)
	}

	tok, ok = ValueTokenAfter(dict, "Rect")
	if !ok || tok.Kind != TokenArray || string(tok.Bytes(dict)) != "[1 2 3 4]" {
		t.Fatalf("Rect: got %+v ok=%v", tok, ok)
	}

	tok, ok = ValueTokenAfter(dict, "AP")
	if !ok || tok.Kind != TokenDict || string(tok.Bytes(dict)) != "<<" {
		t.Fatalf("AP sentinel: got %+v ok=%v", tok, ok)
	}

	tok, ok = ValueTokenAfter(dict, "V")
	if !ok || tok.Kind != TokenHexString || string(tok.Bytes(dict)) != "<4A6F686E>" {
		t.Fatalf("V: got %+v ok=%v", tok, ok)
	}
}

func TestValueTokenAfterKeyBoundary(t *testing.T) {
	dict := []byte(`<< /TU (Tooltip) /T (Name) >>`)
	tok, ok := ValueTokenAfter(dict, "T")
	if !ok || string(tok.Bytes(dict)) != "(Name)" {
		t.Fatalf("expected /T to not match /TU, got %+v ok=%v", tok, ok)
	}
}

func TestScanLiteralStringEscapesAndNesting(t *testing.T) {
	data := []byte(`(a \(nested\) b \\ end)`)
	end, ok := scanLiteralString(data, 0)
	if !ok || end != len(data) {
		t.Fatalf("scanLiteralString: end=%d ok=%v want %d", end, ok, len(data))
	}
}

func TestScanBalancedArrayWithNestedStringsAndDicts(t *testing.T) {
	data := []byte(`[(a [b]) << /K [1 2] >> 3]`)
	end, ok := scanBalancedArray(data, 0)
	if !ok || end != len(data) {
		t.Fatalf("scanBalancedArray: end=%d ok=%v want %d", end, ok, len(data))
	}
}

func TestScanBalancedDictNested(t *testing.T) {
	data := []byte(`<< /A << /B 1 >> /C 2 >>`)
	end, ok := ScanBalancedDict(data, 0)
	if !ok || end != len(data) {
		t.Fatalf("ScanBalancedDict: end=%d ok=%v want %d", end, ok, len(data))
	}
}
