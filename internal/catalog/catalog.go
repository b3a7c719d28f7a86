// Package catalog holds the static icon and color catalogs a habit can pick from.
package catalog

import "sort"

// Catalog is a read-only key set used for membership checks and rendering
type Catalog struct {
	entries map[string]string
	keys    []string
}

// New builds a catalog from key -> value pairs. Keys are kept in the given order.
func New(order []string, values map[string]string) Catalog {
	c := Catalog{entries: make(map[string]string, len(values))}
	for _, k := range order {
		if v, ok := values[k]; ok {
			c.entries[k] = v
			c.keys = append(c.keys, k)
		}
	}
	// Keys missing from order are appended alphabetically
	var rest []string
	for k := range values {
		if _, ok := c.entries[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		c.entries[k] = values[k]
		c.keys = append(c.keys, k)
	}
	return c
}

// Has reports whether key is a member of the catalog
func (c Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Value returns the value stored for key
func (c Catalog) Value(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Keys returns the catalog keys in display order
func (c Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of entries
func (c Catalog) Len() int { return len(c.keys) }

// Set bundles the two catalogs a habit draft is checked against
type Set struct {
	Icons  Catalog
	Colors Catalog
}

var iconOrder = []string{
	"diamond", "book", "dumbbell", "droplet", "bed", "apple", "bike", "brain",
	"coffee", "code", "guitar", "heart", "leaf", "moon", "music", "pencil",
	"pill", "run", "sun", "smile",
}

var iconGlyphs = map[string]string{
	"diamond":  "◆",
	"book":     "📖",
	"dumbbell": "🏋",
	"droplet":  "💧",
	"bed":      "🛏",
	"apple":    "🍎",
	"bike":     "🚲",
	"brain":    "🧠",
	"coffee":   "☕",
	"code":     "⌨",
	"guitar":   "🎸",
	"heart":    "♥",
	"leaf":     "🍃",
	"moon":     "☾",
	"music":    "♪",
	"pencil":   "✎",
	"pill":     "💊",
	"run":      "🏃",
	"sun":      "☀",
	"smile":    "☺",
}

var colorOrder = []string{
	"red", "orange", "amber", "yellow", "lime", "green", "emerald", "teal", "cyan",
	"sky", "blue", "indigo", "violet", "purple", "fuchsia", "pink", "rose", "stone",
}

var colorValues = map[string]string{
	"red":     "#ef4444",
	"orange":  "#f97316",
	"amber":   "#f59e0b",
	"yellow":  "#eab308",
	"lime":    "#84cc16",
	"green":   "#22c55e",
	"emerald": "#10b981",
	"teal":    "#14b8a6",
	"cyan":    "#06b6d4",
	"sky":     "#0ea5e9",
	"blue":    "#3b82f6",
	"indigo":  "#6366f1",
	"violet":  "#8b5cf6",
	"purple":  "#a855f7",
	"fuchsia": "#d946ef",
	"pink":    "#ec4899",
	"rose":    "#f43f5e",
	"stone":   "#a8a29e",
}

var (
	// Icons maps icon keys to terminal glyphs
	Icons = New(iconOrder, iconGlyphs)
	// Colors maps color names to hex values
	Colors = New(colorOrder, colorValues)
)

// Default returns the built-in catalogs
func Default() Set {
	return Set{Icons: Icons, Colors: Colors}
}

// Glyph returns the glyph for an icon key, or "?" for unknown keys
func Glyph(icon string) string {
	if g, ok := Icons.Value(icon); ok {
		return g
	}
	return "?"
}
