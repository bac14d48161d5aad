// Package multiplayer hosts one authoritative duel for any number of
// connected sessions. Transports (SSH, WebSocket, local play) talk to the
// host only through SessionHandle and HostMessage values.
package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-duel/internal/duel"
)

// SessionID uniquely identifies a connection. It doubles as the
// participant ID inside the duel.
type SessionID = duel.ParticipantID

// NewSessionID creates a random session identifier with the given prefix,
// e.g. "ssh-K3QX7A".
func NewSessionID(prefix string) SessionID {
	return SessionID(prefix + "-" + randomCode(6))
}

// NewMatchID creates a random match identifier.
func NewMatchID() string {
	return "match-" + randomCode(8)
}

// randomCode creates an uppercase base32 code of n characters (n <= 8).
func randomCode(n int) string {
	b := make([]byte, 5) // 5 bytes = 40 bits = 8 base32 chars
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%0*X", n, time.Now().UnixNano()&0xFFFFFFFF)[:n]
	}
	return strings.ToUpper(base32.StdEncoding.EncodeToString(b)[:n])
}
