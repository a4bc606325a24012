package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/Ramsey-B/sage/pkg/models"
)

// Record creates a deterministic fingerprint for a record's field
// content. The fingerprint is a SHA256 hash of a canonical rendering in
// the fixed field order, with absence encoded distinctly from an empty
// value so the two never collide.
func Record(record models.Record) string {
	var sb strings.Builder
	for _, field := range models.RecordFields {
		sb.WriteString(field)
		// Raw, not Field: an extracted-but-empty value must hash
		// differently from a field that was never extracted.
		if value := record.Raw(field); value != nil {
			sb.WriteString("=1:")
			sb.WriteString(*value)
		} else {
			sb.WriteString("=0:")
		}
		sb.WriteString("\n")
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}

// HasChanged compares two fingerprints to detect changes
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}
