package blobdiff

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/verdantlab/verdant/internal/contract"
)

// encodeUTF16 encodes a string as UTF-16 with a byte order mark.
func encodeUTF16(t *testing.T, s string, endianness unicode.Endianness) []byte {
	t.Helper()
	encoder := unicode.UTF16(endianness, unicode.ExpectBOM).NewEncoder()
	out, err := encoder.Bytes([]byte(s))
	require.NoError(t, err)
	return out
}

// TestCount verifies line-oriented diff counting semantics.
func TestCount(t *testing.T) {
	tests := []struct {
		name    string
		before  string
		after   string
		added   int
		removed int
	}{
		{
			name:   "identical content",
			before: "a\nb\nc\n",
			after:  "a\nb\nc\n",
		},
		{
			name:  "pure addition",
			after: "a\nb\nc\n",
			added: 3,
		},
		{
			name:    "pure removal",
			before:  "a\nb\nc\n",
			removed: 3,
		},
		{
			name:    "one modified line counts on both sides",
			before:  "a\nb\nc\n",
			after:   "a\nx\nc\n",
			added:   1,
			removed: 1,
		},
		{
			name:   "appended line",
			before: "a\n",
			after:  "a\nb\n",
			added:  1,
		},
		{
			name:    "mixed edit",
			before:  "a\nb\nc\nd\n",
			after:   "a\nc\nd\ne\nf\n",
			added:   2,
			removed: 1,
		},
		{
			name:    "missing trailing newline still one line",
			before:  "a",
			after:   "b",
			added:   1,
			removed: 1,
		},
		{
			name:    "whitespace change is a change",
			before:  "a\n",
			after:   "a \n",
			added:   1,
			removed: 1,
		},
		{
			name:    "reordered lines",
			before:  "a\nb\n",
			after:   "b\na\n",
			added:   1,
			removed: 1,
		},
		{
			name: "both empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			added, removed := Count(tc.before, tc.after)
			assert.Equal(t, tc.added, added, "added lines")
			assert.Equal(t, tc.removed, removed, "removed lines")
		})
	}
}

// TestIsBinary verifies the NUL-byte content sniff.
func TestIsBinary(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		binary bool
	}{
		{
			name: "empty blob",
		},
		{
			name: "plain text",
			data: []byte("package main\n\nfunc main() {}\n"),
		},
		{
			name:   "nul byte in payload",
			data:   []byte{'a', 'b', 0x00, 'c'},
			binary: true,
		},
		{
			name:   "png header",
			data:   []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00},
			binary: true,
		},
		{
			name: "nul byte beyond the sniff window",
			data: append(bytes.Repeat([]byte{'x'}, sniffLen), 0x00),
		},
		{
			name: "utf-16 byte order mark exempts nul bytes",
			data: []byte{0xff, 0xfe, 'h', 0x00, 'i', 0x00},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.binary, IsBinary(tc.data))
		})
	}
}

// TestDecodeText verifies text decoding across encodings.
func TestDecodeText(t *testing.T) {
	t.Run("empty blob decodes to empty string", func(t *testing.T) {
		text, err := DecodeText("a.txt", "abc123", nil)
		assert.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("utf-8 passes through", func(t *testing.T) {
		text, err := DecodeText("a.txt", "abc123", []byte("héllo\nwörld\n"))
		assert.NoError(t, err)
		assert.Equal(t, "héllo\nwörld\n", text)
	})

	t.Run("utf-8 byte order mark is dropped", func(t *testing.T) {
		data := append([]byte{0xef, 0xbb, 0xbf}, []byte("one\ntwo\n")...)
		text, err := DecodeText("a.txt", "abc123", data)
		assert.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", text)
	})

	t.Run("utf-16 little endian round trip", func(t *testing.T) {
		data := encodeUTF16(t, "one\ntwo\n", unicode.LittleEndian)
		text, err := DecodeText("a.txt", "abc123", data)
		assert.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", text)
	})

	t.Run("utf-16 big endian byte order mark wins", func(t *testing.T) {
		data := encodeUTF16(t, "one\ntwo\n", unicode.BigEndian)
		text, err := DecodeText("a.txt", "abc123", data)
		assert.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", text)
	})

	t.Run("invalid utf-8 yields a decode error", func(t *testing.T) {
		_, err := DecodeText("legacy.txt", "abc123", []byte{'c', 'a', 'f', 0xe9})
		require.Error(t, err)
		var decodeErr *contract.DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, "legacy.txt", decodeErr.Path)
		assert.Equal(t, "abc123", decodeErr.Commit)
	})
}

// TestCompare verifies the full decode-then-count path.
func TestCompare(t *testing.T) {
	t.Run("nil before counts every line as added", func(t *testing.T) {
		added, removed, err := Compare("new.go", "abc123", nil, []byte("x\ny\n"))
		assert.NoError(t, err)
		assert.Equal(t, 2, added)
		assert.Equal(t, 0, removed)
	})

	t.Run("modified blob counts both sides", func(t *testing.T) {
		added, removed, err := Compare("main.go", "abc123", []byte("a\nb\n"), []byte("a\nc\nd\n"))
		assert.NoError(t, err)
		assert.Equal(t, 2, added)
		assert.Equal(t, 1, removed)
	})

	t.Run("undecodable side fails with a decode error", func(t *testing.T) {
		_, _, err := Compare("blob.bin", "abc123", []byte("fine\n"), []byte{0xfd, 0x01})
		var decodeErr *contract.DecodeError
		require.True(t, errors.As(err, &decodeErr))
	})

	t.Run("utf-16 blob diffs against utf-8 blob", func(t *testing.T) {
		before := encodeUTF16(t, "a\nb\n", unicode.LittleEndian)
		added, removed, err := Compare("mixed.txt", "abc123", before, []byte("a\nb\nc\n"))
		assert.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Equal(t, 0, removed)
	})
}
