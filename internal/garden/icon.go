package garden

import (
	"encoding/json"
	"strings"
)

// Icon identifies the picture shown next to a habit. The set is closed;
// unknown names resolve to IconLeaf.
type Icon int

const (
	IconLeaf Icon = iota
	IconBook
	IconMeditation
	IconWater
	IconRun
	IconMusic
	IconHeart
	IconSun
	IconPen
)

var iconNames = map[Icon]string{
	IconLeaf:       "leaf",
	IconBook:       "book",
	IconMeditation: "meditation",
	IconWater:      "water",
	IconRun:        "run",
	IconMusic:      "music",
	IconHeart:      "heart",
	IconSun:        "sun",
	IconPen:        "pen",
}

// Icons returns every known icon in declaration order.
func Icons() []Icon {
	return []Icon{IconLeaf, IconBook, IconMeditation, IconWater, IconRun, IconMusic, IconHeart, IconSun, IconPen}
}

// ParseIcon resolves a name to an icon, falling back to IconLeaf.
func ParseIcon(name string) Icon {
	name = strings.ToLower(strings.TrimSpace(name))
	for icon, n := range iconNames {
		if n == name {
			return icon
		}
	}
	return IconLeaf
}

func (i Icon) String() string {
	if n, ok := iconNames[i]; ok {
		return n
	}
	return iconNames[IconLeaf]
}

// Glyph returns the emoji for the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconBook:
		return "📚"
	case IconMeditation:
		return "🧘"
	case IconWater:
		return "💧"
	case IconRun:
		return "🏃"
	case IconMusic:
		return "🎵"
	case IconHeart:
		return "💚"
	case IconSun:
		return "☀️"
	case IconPen:
		return "✏️"
	default:
		return "🍃"
	}
}

// MarshalJSON stores the icon by name so records stay readable.
func (i Icon) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON accepts any string; unknown names become IconLeaf.
func (i *Icon) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*i = ParseIcon(name)
	return nil
}
