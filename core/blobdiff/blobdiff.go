// Package blobdiff turns two versions of a file blob into line change
// counts. The walker hands it raw blob bytes; it answers with how many
// lines were added and how many were removed between the two versions.
package blobdiff

import (
	"bytes"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/text/encoding/unicode"

	"github.com/verdantlab/verdant/internal/contract"
)

// sniffLen is how many leading bytes are inspected when deciding whether a
// blob is binary. Matches git's own sniff window.
const sniffLen = 8000

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// IsBinary reports whether a blob holds binary content, detected as a NUL
// byte within the first 8000 bytes. Blobs carrying a UTF-16 byte order mark
// are text even though their payload is full of NUL bytes, so they are
// exempt from the sniff.
func IsBinary(data []byte) bool {
	if hasUTF16BOM(data) {
		return false
	}
	sniff := data
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}
	return bytes.IndexByte(sniff, 0x00) >= 0
}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
}

// DecodeText decodes blob bytes into a string suitable for line comparison.
// UTF-8 passes through with any leading byte order mark dropped; UTF-16
// content with a byte order mark is transcoded. Anything else cannot be
// line-diffed and yields a DecodeError so the caller can exclude the file.
func DecodeText(path, commit string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if hasUTF16BOM(data) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		decoded, err := decoder.Bytes(data)
		if err != nil {
			return "", &contract.DecodeError{Path: path, Commit: commit, Reason: "invalid UTF-16 content"}
		}
		return string(decoded), nil
	}
	text := bytes.TrimPrefix(data, bomUTF8)
	if !utf8.Valid(text) {
		return "", &contract.DecodeError{Path: path, Commit: commit, Reason: "content is not valid UTF-8 text"}
	}
	return string(text), nil
}

// Count compares two text versions line by line and reports how many lines
// were added and how many were removed. A modified line counts once on each
// side. The diff maps every line to one rune first, so the comparison cost
// scales with line counts rather than byte counts.
func Count(before, after string) (added, removed int) {
	if before == after {
		return 0, 0
	}
	dmp := diffmatchpatch.New()
	// The default one-second timeout degrades to an approximate diff under
	// load; entropy values must not depend on machine speed.
	dmp.DiffTimeout = 0
	src, dst, _ := dmp.DiffLinesToRunes(before, after)
	for _, d := range dmp.DiffMainRunes(src, dst, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += utf8.RuneCountInString(d.Text)
		}
	}
	return added, removed
}

// Compare decodes both sides of one blob and counts changed lines between
// them. The commit identifies the newer side of the pair in decode errors.
// A nil before means the file did not exist in the older commit, so every
// line of the newer version counts as added.
func Compare(path, commit string, before, after []byte) (added, removed int, err error) {
	oldText, err := DecodeText(path, commit, before)
	if err != nil {
		return 0, 0, err
	}
	newText, err := DecodeText(path, commit, after)
	if err != nil {
		return 0, 0, err
	}
	added, removed = Count(oldText, newText)
	return added, removed, nil
}
