package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadRef is returned when a client-submitted item identifier cannot be
// parsed into a catalog reference.
var ErrBadRef = errors.New("catalog: malformed item reference")

// RefKind selects which catalog table a reference points at.
type RefKind int

const (
	// RefAmbiguous means the reference carries no table hint; resolution
	// tries pledge tiers first and falls back to addons.
	RefAmbiguous RefKind = iota
	// RefPledge restricts resolution to the pledge tier table.
	RefPledge
	// RefAddon restricts resolution to the addon table.
	RefAddon
)

// Ref identifies a catalog row. Client payloads encode references as a bare
// numeric id, "pledge-<id>" or "addon-<id>"; the string form is parsed
// exactly once at cart ingestion so nothing downstream string-matches ids.
type Ref struct {
	Kind RefKind
	ID   int64
}

// ParseRef converts the wire form of an item identifier into a Ref.
func ParseRef(raw string) (Ref, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Ref{}, fmt.Errorf("%w: empty identifier", ErrBadRef)
	}
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "pledge-"):
		id, err := parseRefID(lower[len("pledge-"):])
		if err != nil {
			return Ref{}, err
		}
		return Ref{Kind: RefPledge, ID: id}, nil
	case strings.HasPrefix(lower, "addon-"):
		id, err := parseRefID(lower[len("addon-"):])
		if err != nil {
			return Ref{}, err
		}
		return Ref{Kind: RefAddon, ID: id}, nil
	default:
		id, err := parseRefID(lower)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Kind: RefAmbiguous, ID: id}, nil
	}
}

func parseRefID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadRef, s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: non-positive id %d", ErrBadRef, id)
	}
	return id, nil
}

func (k RefKind) String() string {
	switch k {
	case RefPledge:
		return "pledge"
	case RefAddon:
		return "addon"
	default:
		return "ambiguous"
	}
}
