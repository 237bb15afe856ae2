package brec

import (
	"strings"

	"github.com/icsmw/brec/internal/checksum"
)

// BlockSignature derives a block schema's 4-byte SIG_B deterministically
// from its declared shape: the type name followed by "name:type" for each
// field in declaration order, joined with ";". Two distinct block schemas
// producing the same canonical string would collide; callers generating
// schemas must ensure field lists differ whenever type names collide.
//
// Reference: spec §3 "Block signature (SIG_B)".
func BlockSignature(typeName string, fields ...FieldSpec) [4]byte {
	var b strings.Builder
	b.WriteString(typeName)
	for _, f := range fields {
		b.WriteByte(';')
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(f.Type)
	}
	crc := checksum.Value([]byte(b.String()))
	return checksum.LE(crc)
}

// FieldSpec names one field of a block schema for the purpose of deriving
// its SIG_B; it carries no runtime behavior beyond contributing to the
// canonical signature string.
type FieldSpec struct {
	Name string
	Type string
}
