package convert

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type encodingEntry struct {
	name   string
	decode func([]byte) (string, bool)
}

// encodings is the fixed detection order; the first entry that decodes
// the raw bytes wins.
var encodings = []encodingEntry{
	{name: "utf-8", decode: decodeUTF8},
	{name: "utf-8-sig", decode: decodeUTF8SIG},
	{name: "cp1256", decode: decodeCharmap(charmap.Windows1256)},
	{name: "iso-8859-6", decode: decodeCharmap(charmap.ISO8859_6)},
}

func decodeUTF8(raw []byte) (string, bool) {
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

func decodeUTF8SIG(raw []byte) (string, bool) {
	if !bytes.HasPrefix(raw, utf8BOM) {
		return "", false
	}
	rest := bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(rest) {
		return "", false
	}
	return string(rest), true
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, bool) {
	return func(raw []byte) (string, bool) {
		out, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			return "", false
		}
		// Bytes without a mapping decode to U+FFFD; treat that as a
		// failed detection, not a lossy success.
		s := string(out)
		if strings.ContainsRune(s, utf8.RuneError) {
			return "", false
		}
		return s, true
	}
}

// DecodeBytes tries the fixed list of encodings in order and returns
// the decoded text together with the name of the encoding that
// succeeded. ok is false when no encoding matches.
func DecodeBytes(raw []byte) (text, encoding string, ok bool) {
	for _, e := range encodings {
		if s, decoded := e.decode(raw); decoded {
			return s, e.name, true
		}
	}
	return "", "", false
}
