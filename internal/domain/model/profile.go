package model

import "fmt"

// CareerProfile classifies how concentrated a player's earnings are.
type CareerProfile int

// Career profiles ordered from least to most concentrated.
const (
	Unclassified CareerProfile = iota
	Steady
	Balanced
	Spiky
	Explosive
)

// Profiles lists the classified profiles in display order.
var Profiles = []CareerProfile{Steady, Balanced, Spiky, Explosive}

var profileNames = map[CareerProfile]string{
	Unclassified: "Unclassified",
	Steady:       "Steady",
	Balanced:     "Balanced",
	Spiky:        "Spiky",
	Explosive:    "Explosive",
}

func (p CareerProfile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return fmt.Sprintf("CareerProfile(%d)", int(p))
}

// MarshalText renders the profile name in JSON and YAML.
func (p CareerProfile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText reads a profile name written by MarshalText.
func (p *CareerProfile) UnmarshalText(b []byte) error {
	parsed, err := ParseCareerProfile(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseCareerProfile is the inverse of String.
func ParseCareerProfile(s string) (CareerProfile, error) {
	for p, name := range profileNames {
		if name == s {
			return p, nil
		}
	}
	return Unclassified, fmt.Errorf("unknown career profile %q", s)
}
