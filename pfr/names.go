package pfr

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeUTF16BE decodes a PFR font's optional UTF-16BE family-name bytes,
// the same way the big sibling TrueType format's "name" table entries are
// decoded.
func decodeUTF16BE(b []byte) (string, error) {
	r := bytes.NewReader(b)
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	tr := transform.NewReader(r, enc.NewDecoder())
	out, err := io.ReadAll(tr)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
