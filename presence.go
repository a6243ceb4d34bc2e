package smartparams

import "strings"

// Presence is the bit flag recorded per claimed field.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field path was present in the input.
	PresenceWasNull                             // Field value was an explicit null.
	PresenceDefaultApplied                      // Default value was applied.
	PresenceDirty                               // Nullable object carried undeclared keys.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Has reports whether every bit of p is set for ptr.
func (pm PresenceMap) Has(ptr string, p Presence) bool {
	return pm[ptr]&p == p
}

func applyPresenceOptions(pm PresenceMap, popt PresenceOpt) PresenceMap {
	if pm == nil || !popt.Collect {
		return nil
	}
	shouldInclude := func(path string) bool {
		if len(popt.Include) > 0 {
			ok := false
			for _, p := range popt.Include {
				if strings.HasPrefix(path, p) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		for _, p := range popt.Exclude {
			if strings.HasPrefix(path, p) {
				return false
			}
		}
		return true
	}

	filtered := make(PresenceMap, len(pm))
	for k, v := range pm {
		if shouldInclude(k) {
			filtered[k] = v
		}
	}
	return filtered
}
