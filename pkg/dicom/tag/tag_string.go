package tag

import (
	"fmt"
)

// String returns a string representation of the Tag (GGGG,EEEE)
func (t Tag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.Group, t.Element)
}

// MarshalText renders the tag as (GGGG,EEEE) so it can key json objects
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses (GGGG,EEEE) or GGGGEEEE
func (t *Tag) UnmarshalText(text []byte) error {
	var g, e uint16
	s := string(text)
	if _, err := fmt.Sscanf(s, "(%04X,%04X)", &g, &e); err != nil {
		if _, err2 := fmt.Sscanf(s, "%04X%04X", &g, &e); err2 != nil {
			return fmt.Errorf("invalid tag %q: %w", s, err)
		}
	}
	t.Group, t.Element = g, e
	return nil
}
