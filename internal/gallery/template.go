package gallery

type Template struct {
	TemplateID           string               `json:"templateId" yaml:"templateId"`
	Name                 string               `json:"name" yaml:"name"`
	Category             string               `json:"category" yaml:"category"`
	CategoryLabel        string               `json:"categoryLabel" yaml:"categoryLabel"`
	VisualStyle          string               `json:"visualStyle" yaml:"visualStyle"`
	Description          string               `json:"description" yaml:"description"`
	PreviewImage         string               `json:"previewImage" yaml:"previewImage"`
	CustomizationOptions CustomizationOptions `json:"customizationOptions" yaml:"customizationOptions"`
}

type CustomizationOptions struct {
	BackgroundColors []string        `json:"backgroundColors" yaml:"backgroundColors"`
	AccentColors     []string        `json:"accentColors" yaml:"accentColors"`
	Effects          map[string]bool `json:"effects" yaml:"effects"`
}

// Supports reports whether the template lets the user enable effect key.
func (t Template) Supports(key string) bool {
	return t.CustomizationOptions.Effects[key]
}

// DisplayCategory is the label shown to users, falling back to the raw key.
func (t Template) DisplayCategory() string {
	if t.CategoryLabel != "" {
		return t.CategoryLabel
	}
	return t.Category
}

type CustomizationState struct {
	BackgroundColor string          `json:"backgroundColor"`
	AccentColor     string          `json:"accentColor"`
	Effects         map[string]bool `json:"effects"`
}

func (s CustomizationState) clone() CustomizationState {
	out := s
	out.Effects = make(map[string]bool, len(s.Effects))
	for k, v := range s.Effects {
		out.Effects[k] = v
	}
	return out
}

func defaultCustomization() CustomizationState {
	return CustomizationState{
		BackgroundColor: "#0A0F1F",
		AccentColor:     "#3A86FF",
		Effects: map[string]bool{
			EffectNeonGlow:        true,
			EffectShootingStars:   false,
			EffectParticles:       false,
			EffectGradientOverlay: true,
			EffectTextureLayer:    false,
		},
	}
}

// Selection is the payload persisted on confirm, remotely or in the local store.
type Selection struct {
	TemplateID    string             `json:"template_id"`
	Customization CustomizationState `json:"customization"`
}

// FallbackTemplates returns the built-in catalog used whenever the remote one
// is unavailable or empty. Each call returns fresh maps and slices.
func FallbackTemplates() []Template {
	return []Template{
		{
			TemplateID:    "xr-neon-01",
			Name:          "Neon Pulse",
			Category:      "neon",
			CategoryLabel: "Neon / Futuristic",
			VisualStyle:   "glow",
			Description:   "Full-screen display with neon lines, made for tech brands and forward-looking startups.",
			PreviewImage:  "https://images.unsplash.com/photo-1520607162513-77705c0f0d4a?auto=format&fit=crop&w=900&q=80",
			CustomizationOptions: CustomizationOptions{
				BackgroundColors: []string{"#050714", "#0A0F1F", "#140032"},
				AccentColors:     []string{"#3A86FF", "#00F6FF", "#FF5F9E"},
				Effects: map[string]bool{
					EffectNeonGlow:        true,
					EffectShootingStars:   true,
					EffectParticles:       true,
					EffectGradientOverlay: true,
					EffectTextureLayer:    false,
				},
			},
		},
		{
			TemplateID:    "xr-minimal-02",
			Name:          "Minimal Harmony",
			Category:      "minimal",
			CategoryLabel: "Minimal",
			VisualStyle:   "minimal",
			Description:   "Clean layout with precise lines and delicate typography for understated professionals.",
			PreviewImage:  "https://images.unsplash.com/photo-1529333166437-7750a6dd5a70?auto=format&fit=crop&w=900&q=80",
			CustomizationOptions: CustomizationOptions{
				BackgroundColors: []string{"#0D111F", "#121826", "#1F2437"},
				AccentColors:     []string{"#3A86FF", "#7B61FF", "#A5F3FC"},
				Effects: map[string]bool{
					EffectNeonGlow:        false,
					EffectShootingStars:   false,
					EffectParticles:       true,
					EffectGradientOverlay: true,
					EffectTextureLayer:    true,
				},
			},
		},
		{
			TemplateID:    "xr-cyber-03",
			Name:          "Cyber Dark",
			Category:      "dark",
			CategoryLabel: "Cyber / Dark",
			VisualStyle:   "cyber",
			Description:   "Digital textures with a metaverse feel, mixing geometric grids and cold gradients.",
			PreviewImage:  "https://images.unsplash.com/photo-1488229297570-58520851e868?auto=format&fit=crop&w=900&q=80",
			CustomizationOptions: CustomizationOptions{
				BackgroundColors: []string{"#010409", "#050D1E", "#0F172A"},
				AccentColors:     []string{"#00F6FF", "#64FFDA", "#38BDF8"},
				Effects: map[string]bool{
					EffectNeonGlow:        true,
					EffectShootingStars:   false,
					EffectParticles:       true,
					EffectGradientOverlay: true,
					EffectTextureLayer:    true,
				},
			},
		},
		{
			TemplateID:    "xr-corporate-04",
			Name:          "Corporate Trust",
			Category:      "corporate",
			CategoryLabel: "Professional / Corporate",
			VisualStyle:   "corporate",
			Description:   "Formal two-column layout with room for contact details and social links.",
			PreviewImage:  "https://images.unsplash.com/photo-1483478550801-ceba5fe50e8e?auto=format&fit=crop&w=900&q=80",
			CustomizationOptions: CustomizationOptions{
				BackgroundColors: []string{"#0B1222", "#0E162A", "#101B33"},
				AccentColors:     []string{"#3A86FF", "#1D4ED8", "#10B981"},
				Effects: map[string]bool{
					EffectNeonGlow:        false,
					EffectShootingStars:   false,
					EffectParticles:       false,
					EffectGradientOverlay: true,
					EffectTextureLayer:    true,
				},
			},
		},
		{
			TemplateID:    "xr-gradient-05",
			Name:          "Gradient Reef",
			Category:      "gradient",
			CategoryLabel: "Gradient",
			VisualStyle:   "gradient",
			Description:   "Fluid multi-colour gradient backgrounds under a floating glass card.",
			PreviewImage:  "https://images.unsplash.com/photo-1526318896980-cf78c088247c?auto=format&fit=crop&w=900&q=80",
			CustomizationOptions: CustomizationOptions{
				BackgroundColors: []string{"#130F40", "#1F1147", "#2D0B52"},
				AccentColors:     []string{"#FF5F9E", "#FFB347", "#5DE0E6"},
				Effects: map[string]bool{
					EffectNeonGlow:        true,
					EffectShootingStars:   false,
					EffectParticles:       true,
					EffectGradientOverlay: true,
					EffectTextureLayer:    false,
				},
			},
		},
	}
}
