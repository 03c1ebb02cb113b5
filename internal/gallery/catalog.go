package gallery

const CategoryAll = "all"

const (
	EffectNeonGlow        = "neonGlow"
	EffectShootingStars   = "shootingStars"
	EffectParticles       = "particles"
	EffectGradientOverlay = "gradientOverlay"
	EffectTextureLayer    = "textureLayer"
)

type NamedOption struct {
	Key  string
	Name string
}

var categoryLabels = map[string]string{
	CategoryAll: "All templates",
	"minimal":   "Minimal",
	"dark":      "Cyber / Dark",
	"neon":      "Neon / Futuristic",
	"corporate": "Professional / Corporate",
	"gradient":  "Gradient",
	"creative":  "Creative / Modern",
}

var effectLabels = map[string]string{
	EffectNeonGlow:        "Neon glow",
	EffectShootingStars:   "Shooting stars",
	EffectParticles:       "Floating particles",
	EffectGradientOverlay: "Gradient layer",
	EffectTextureLayer:    "Geometric texture",
}

// Effects lists every known effect kind in display order.
func Effects() []NamedOption {
	order := []string{
		EffectNeonGlow,
		EffectShootingStars,
		EffectParticles,
		EffectGradientOverlay,
		EffectTextureLayer,
	}

	out := make([]NamedOption, 0, len(order))
	for _, key := range order {
		out = append(out, NamedOption{Key: key, Name: effectLabels[key]})
	}
	return out
}

// Categories returns the synthetic "all" entry followed by every distinct
// category of catalog in first-seen order.
func Categories(catalog []Template) []NamedOption {
	out := []NamedOption{{Key: CategoryAll, Name: CategoryLabel(CategoryAll)}}
	seen := map[string]bool{CategoryAll: true}
	for _, t := range catalog {
		if seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, NamedOption{Key: t.Category, Name: CategoryLabel(t.Category)})
	}
	return out
}

func CategoryLabel(key string) string {
	if label, ok := categoryLabels[key]; ok {
		return label
	}
	return key
}

// Filter returns the catalog entries of category in catalog order. The
// returned pointers alias the catalog slice.
func Filter(catalog []Template, category string) []*Template {
	out := make([]*Template, 0, len(catalog))
	for i := range catalog {
		if category == CategoryAll || catalog[i].Category == category {
			out = append(out, &catalog[i])
		}
	}
	return out
}
