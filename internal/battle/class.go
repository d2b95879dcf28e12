package battle

import (
	"fmt"
	"strings"
)

// Class is the unit class tag. The stats behind it never change at runtime.
type Class int

const (
	Infantry Class = iota
	Archer
	Cavalry
	Artillery
)

// Classes lists every class in tag order. Roster generation picks from it.
var Classes = [...]Class{Infantry, Archer, Cavalry, Artillery}

// ClassStats are the fixed base stats of a class.
type ClassStats struct {
	Name   string  `json:"name"`
	Health int     `json:"health"`
	Damage int     `json:"damage"`
	Range  float64 `json:"range"` // grid cells
	Speed  float64 `json:"speed"` // cells per simulated second
	Shape  string  `json:"shape"`
}

var classTable = [...]ClassStats{
	Infantry:  {Name: "infantry", Health: 100, Damage: 10, Range: 1, Speed: 1, Shape: "circle"},
	Archer:    {Name: "archer", Health: 70, Damage: 15, Range: 3, Speed: 1, Shape: "triangle"},
	Cavalry:   {Name: "cavalry", Health: 80, Damage: 15, Range: 1, Speed: 2, Shape: "square"},
	Artillery: {Name: "artillery", Health: 120, Damage: 25, Range: 5, Speed: 0.5, Shape: "hexagon"},
}

// Stats returns the base stats for c. Unknown tags yield the zero value.
func (c Class) Stats() ClassStats {
	if c < 0 || int(c) >= len(classTable) {
		return ClassStats{}
	}
	return classTable[c]
}

func (c Class) String() string {
	if s := c.Stats(); s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Shape is the display hint for renderers.
func (c Class) Shape() string { return c.Stats().Shape }

// ParseClass maps a class name (case-insensitive) to its tag.
func ParseClass(name string) (Class, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Classes {
		if classTable[c].Name == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown unit class %q", name)
}

func (c Class) MarshalText() ([]byte, error) {
	if c.Stats().Name == "" {
		return nil, fmt.Errorf("unknown unit class %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	parsed, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ClassTable returns a copy of the stat table keyed by class name.
func ClassTable() map[string]ClassStats {
	out := make(map[string]ClassStats, len(classTable))
	for _, c := range Classes {
		out[c.String()] = classTable[c]
	}
	return out
}
