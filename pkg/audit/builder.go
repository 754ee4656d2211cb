package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"helix-hq/warden/pkg/intake"
	"helix-hq/warden/pkg/policy"
)

// HashRequest computes the SHA-256 content hash of a request over its
// canonical JSON encoding (object keys sorted, which encoding/json
// guarantees for maps) and returns it hex encoded.
//
// Returns an empty string for an empty request.
func HashRequest(req intake.Request) string {
	if len(req) == 0 {
		return ""
	}

	raw, err := json.Marshal(req)
	if err != nil {
		// Request fields are JSON values by construction; a marshal
		// failure means a caller handed us something non-serializable.
		// Hash the error text so the record still carries a fingerprint.
		raw = []byte(err.Error())
	}

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// BuildRecord assembles a new audit record for one invocation. The
// input hash is computed over the original request as submitted, not
// the sanitized copy. The audit id is a fresh UUID v4; build time is
// recorded in UTC.
func BuildRecord(original intake.Request, agentsInvoked []string, decision *policy.Decision, latency time.Duration, status Status) *Record {
	agents := make([]string, len(agentsInvoked))
	copy(agents, agentsInvoked)

	return &Record{
		AuditID:       uuid.NewString(),
		TimestampUTC:  time.Now().UTC(),
		InputHash:     HashRequest(original),
		AgentsInvoked: agents,
		Policy:        decision,
		LatencyMS:     latency.Milliseconds(),
		Status:        status,
	}
}
