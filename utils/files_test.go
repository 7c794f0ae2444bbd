package utils

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"clutter.jpg", "clutter.jpg"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).png", "my_photo__1_.png"},
		{"", "file"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestObjectKeyShape(t *testing.T) {
	key := ObjectKey("u-1", "room.jpg")
	if !strings.HasPrefix(key, "u-1/") {
		t.Errorf("key should be user scoped: %q", key)
	}
	if !strings.HasSuffix(key, "_room.jpg") {
		t.Errorf("key should end in the filename: %q", key)
	}
	if key == ObjectKey("u-1", "room.jpg") {
		t.Errorf("two keys for the same file should differ")
	}
}

func TestFileExt(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"room.JPG", "jpg"},
		{"clip.webm", "webm"},
		{"noext", ""},
	}
	for _, c := range cases {
		if got := FileExt(c.in); got != c.want {
			t.Errorf("FileExt(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
