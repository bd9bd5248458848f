// Package featureflags evaluates rollout flags configured as a
// comma-separated key=value list, for example
// "related_posts=on,markdown_preview=25%,guest_comments=off".
// A flag value is either a boolean (on/off, true/false, 1/0) or a
// percentage, which buckets users deterministically so one account keeps
// seeing the same behavior across requests.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds the parsed flag table. A nil Manager reports every flag
// as disabled.
type Manager struct {
	flags map[string]string
}

// NewManager parses the config string. Malformed entries are skipped; names
// and values are lowercased and trimmed.
func NewManager(raw string) *Manager {
	flags := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name = canon(name)
		value = canon(value)
		if name == "" || value == "" {
			continue
		}
		flags[name] = value
	}
	return &Manager{flags: flags}
}

// Enabled evaluates one flag for one user.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	value, ok := m.flags[canon(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil || pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == 0:
		// Anonymous traffic never joins a partial rollout.
		return false
	}
	return bucket(name, userID) < pct
}

// Raw returns a copy of the parsed flag table, value strings as configured.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for name, value := range m.flags {
		out[name] = value
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canon(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket maps (flag, user) onto 0..99. FNV keeps the placement stable across
// restarts without any stored state.
func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", canon(name), userID)))
	return int(h.Sum32() % 100)
}
