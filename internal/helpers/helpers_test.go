package helpers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/farellandr/echallan/internal/repository"
	"github.com/shopspring/decimal"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeBase64FileAcceptsDataURL(t *testing.T) {
	raw := pngBytes(t)
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	file, err := DecodeBase64File(encoded)
	if err != nil {
		t.Fatalf("DecodeBase64File: %v", err)
	}
	if file.MimeType != "image/png" {
		t.Fatalf("MimeType = %q", file.MimeType)
	}
	if !bytes.Equal(file.Data, raw) {
		t.Fatal("decoded bytes differ from input")
	}
}

func TestDecodeBase64FileRejections(t *testing.T) {
	tooBig := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xff}, 6*1024*1024))
	cases := map[string]string{
		"empty":     "",
		"not b64":   "%%%not-base64%%%",
		"text":      base64.StdEncoding.EncodeToString([]byte("just some text")),
		"too large": tooBig,
	}
	for name, input := range cases {
		if _, err := DecodeBase64File(input); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := repository.Cursor{CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.UTC), ID: "abc"}
	out, err := DecodeCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("DecodeCursor: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("got %+v, want %+v", out, in)
	}
	if _, err := DecodeCursor("garbage!"); err == nil {
		t.Fatal("expected error for garbage cursor")
	}
}

func TestParseLimit(t *testing.T) {
	if n, _ := ParseLimit("", 10, 100); n != 10 {
		t.Fatalf("default = %d", n)
	}
	if n, _ := ParseLimit("500", 10, 100); n != 100 {
		t.Fatalf("clamped = %d", n)
	}
	if _, err := ParseLimit("-1", 10, 100); err == nil {
		t.Fatal("expected error for negative limit")
	}
}

func TestSignerVerify(t *testing.T) {
	s := NewSigner("k")
	sig := s.Sign("KDP1234567890", "person", "500")
	if !s.Verify(sig, "KDP1234567890", "person", "500") {
		t.Fatal("signature should verify")
	}
	if s.Verify(sig, "KDP1234567890", "person", "5000") {
		t.Fatal("tampered amount should not verify")
	}
	if NewSigner("other").Verify(sig, "KDP1234567890", "person", "500") {
		t.Fatal("different key should not verify")
	}
}

func TestNumberToCurrencyWords(t *testing.T) {
	cases := map[string]string{
		"500":     "Five Hundred Rupees Only",
		"1250.50": "One Thousand Two Hundred Fifty Rupees and Fifty Paise Only",
		"0":       "Zero Rupees Only",
		"150000":  "One Lakh Fifty Thousand Rupees Only",
		"0.05":    "Five Paise Only",
	}
	for in, want := range cases {
		got := NumberToCurrencyWords(decimal.RequireFromString(in))
		if got != want {
			t.Errorf("%s: got %q, want %q", in, got, want)
		}
		if strings.Contains(got, "  ") {
			t.Errorf("%s: double space in %q", in, got)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"9990001111":      "9990001111",
		" 99900 01111 ":   "9990001111",
		"+91 99900-01111": "+919990001111",
		"999-000-1111":    "9990001111",
	}
	for in, want := range cases {
		got, err := NormalizePhone(in)
		if err != nil || got != want {
			t.Errorf("NormalizePhone(%q) = %q, %v", in, got, err)
		}
	}

	for _, in := range []string{"", "12345", "phone-number", "+1234567890123456"} {
		if _, err := NormalizePhone(in); !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("NormalizePhone(%q): expected ErrInvalidPhone, got %v", in, err)
		}
	}
}
