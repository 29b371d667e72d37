package services

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// CodeLength is the length of every public short code. Codes are
// lowercase hex, which keeps single-file and batch codes in one
// canonical alphabet; batch codes are always addressed as
// "batch_<code>" so the two namespaces never collide.
const CodeLength = 8

// CodeGenerator derives a short public identifier from an item's
// content key and its uploader. The generator is deterministic;
// collision handling belongs to the registry, not here.
type CodeGenerator interface {
	Generate(contentKey string, ownerID int64) string
}

// HashCodeGenerator is the default generator: FNV-1a over the content
// key and owner id, truncated to CodeLength hex characters.
type HashCodeGenerator struct{}

func (HashCodeGenerator) Generate(contentKey string, ownerID int64) string {
	h := fnv.New64a()
	h.Write([]byte(contentKey))
	h.Write([]byte(":"))
	h.Write([]byte(strconv.FormatInt(ownerID, 10)))
	return fmt.Sprintf("%016x", h.Sum64())[:CodeLength]
}
