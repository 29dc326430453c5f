package viewport

import "sort"

// Background describes one map image. Scale is the mapScale applied to
// every shape size drawn over it.
type Background struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// Asset returns the key of the background image, the pre-rendered
// reversed variant when rotated.
func (b Background) Asset(rotated bool) string {
	if rotated {
		return "/maps/" + b.Name + "_reversed.png"
	}
	return "/maps/" + b.Name + ".png"
}

// Size returns the background's native resolution.
func (b Background) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// DefaultMap is used for documents whose map name is unknown.
const DefaultMap = "ascent"

var backgrounds = map[string]Background{
	"abyss":    {Name: "abyss", Width: 1024, Height: 1024, Scale: 0.85},
	"ascent":   {Name: "ascent", Width: 1024, Height: 1024, Scale: 1},
	"bind":     {Name: "bind", Width: 1024, Height: 1024, Scale: 0.95},
	"breeze":   {Name: "breeze", Width: 1024, Height: 1024, Scale: 0.8},
	"corrode":  {Name: "corrode", Width: 1024, Height: 1024, Scale: 0.9},
	"fracture": {Name: "fracture", Width: 1024, Height: 1024, Scale: 0.9},
	"haven":    {Name: "haven", Width: 1024, Height: 1024, Scale: 0.9},
	"icebox":   {Name: "icebox", Width: 1024, Height: 1024, Scale: 0.95},
	"lotus":    {Name: "lotus", Width: 1024, Height: 1024, Scale: 0.85},
	"pearl":    {Name: "pearl", Width: 1024, Height: 1024, Scale: 0.9},
	"split":    {Name: "split", Width: 1024, Height: 1024, Scale: 1},
	"sunset":   {Name: "sunset", Width: 1024, Height: 1024, Scale: 0.95},
}

// LookupMap returns the background for a map name.
func LookupMap(name string) (Background, bool) {
	b, ok := backgrounds[name]
	return b, ok
}

// MapOrDefault returns the named background or the default one.
func MapOrDefault(name string) Background {
	if b, ok := backgrounds[name]; ok {
		return b
	}
	return backgrounds[DefaultMap]
}

// MapNames lists the known maps in sorted order.
func MapNames() []string {
	names := make([]string, 0, len(backgrounds))
	for n := range backgrounds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
