package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "cover.png", want: "cover.png"},
		{in: "My Cover Art.jpg", want: "My_Cover_Art.jpg"},
		{in: "../../etc/passwd", want: "etc_passwd"},
		{in: `C:\Users\me\scan.jpeg`, want: "C_Users_me_scan.jpeg"},
		{in: "Café Tacvba.png", want: "Cafe_Tacvba.png"},
		{in: "обложка.png", want: "png"},
		{in: "...", want: ""},
		{in: "a$b%c.png", want: "abc.png"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "png", Extension("cover.PNG"))
	assert.Equal(t, "jpeg", Extension("a.b.jpeg"))
	assert.Equal(t, "", Extension("noext"))
	assert.Equal(t, "", Extension("trailing."))
}

func TestStoredName(t *testing.T) {
	d := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	tests := []struct {
		filename, digest, nonce string
		want                    string
	}{
		{filename: "cover.png", digest: d, nonce: "a1b2c3", want: "cover-0123456789abcdef-a1b2c3.png"},
		{filename: "My Cover.JPG", digest: d, nonce: "a1b2c3", want: "My_Cover-0123456789abcdef-a1b2c3.jpg"},
		{filename: "обложка.png", digest: d, nonce: "a1b2c3", want: "cover-0123456789abcdef-a1b2c3.png"},
		{filename: `C:\tmp\scan.jpeg`, digest: d, nonce: "a1b2c3", want: "scan-0123456789abcdef-a1b2c3.jpeg"},
		{filename: "cover.png", digest: "abc", want: "cover-abc.png"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, StoredName(tt.filename, tt.digest, tt.nonce))
		})
	}

	assert.NotEqual(t, StoredName("cover.png", d, "n1"), StoredName("cover.png", "ffff"+d[4:], "n1"))
	assert.NotEqual(t, StoredName("cover.png", d, "n1"), StoredName("cover.png", d, "n2"), "rows for the same bytes get their own keys")
}

func TestNewNonce(t *testing.T) {
	a, b := newNonce(), newNonce()
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[0-9a-f]+$`, a)
}
