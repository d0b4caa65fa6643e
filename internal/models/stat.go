package models

import "fmt"

// Stat is one of the fixed set of numeric attributes an item may carry.
type Stat string

const (
	StatArmor       Stat = "Armor"
	StatHealth      Stat = "Health"
	StatHealthRegen Stat = "Health Regen"
	StatMagicResist Stat = "Magic Resist"
	StatOmniVamp    Stat = "Omni Vamp"
)

// AllStats lists every Stat in declaration order.
var AllStats = []Stat{StatArmor, StatHealth, StatHealthRegen, StatMagicResist, StatOmniVamp}

// Valid reports whether s is a member of the enumeration.
func (s Stat) Valid() bool {
	switch s {
	case StatArmor, StatHealth, StatHealthRegen, StatMagicResist, StatOmniVamp:
		return true
	}
	return false
}

// ParseStat converts a raw key into a Stat.
func ParseStat(raw string) (Stat, error) {
	s := Stat(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown stat %q", raw)
	}
	return s, nil
}

// UnmarshalText rejects keys outside the enumeration, so a JSON stats object
// with an unknown key fails to decode.
func (s *Stat) UnmarshalText(text []byte) error {
	parsed, err := ParseStat(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Stat) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s Stat) String() string {
	return string(s)
}
