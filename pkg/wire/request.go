package wire

import (
	"bytes"
	"encoding/xml"
)

// Header is the XML declaration every gateway request starts with.
const Header = `<?xml version="1.0" encoding="utf-8"?>`

// Field is a single named value in a request body. Field order is
// significant to some firmware revisions, so requests take a slice rather
// than a map.
type Field struct {
	Name  string
	Value string
}

// EncodeRequest builds a gateway request body from an ordered field list.
func EncodeRequest(fields []Field) []byte {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString("<request>")
	for _, f := range fields {
		buf.WriteByte('<')
		buf.WriteString(f.Name)
		buf.WriteByte('>')
		xml.EscapeText(&buf, []byte(f.Value))
		buf.WriteString("</")
		buf.WriteString(f.Name)
		buf.WriteByte('>')
	}
	buf.WriteString("</request>")
	return buf.Bytes()
}
