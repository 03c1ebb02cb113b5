package gallery

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	backgroundAlpha = 0.9
	accentAlpha     = 0.35
)

type PreviewStyle struct {
	Background  string
	BorderColor string

	Glow            bool
	ShootingStars   bool
	ParticleOverlay bool
	GradientOverlay bool
	TextureLayer    bool
}

// Classes returns the surface class names for the enabled flags.
func (p PreviewStyle) Classes() []string {
	var out []string
	if p.Glow {
		out = append(out, "glow")
	}
	if p.ShootingStars {
		out = append(out, "shooting-stars")
	}
	if p.ParticleOverlay {
		out = append(out, "particle-overlay")
	}
	if p.GradientOverlay {
		out = append(out, "gradient-overlay")
	}
	if p.TextureLayer {
		out = append(out, "texture-layer")
	}
	return out
}

// DerivePreview computes the live preview from the customization state alone.
func DerivePreview(s CustomizationState) PreviewStyle {
	return PreviewStyle{
		Background: fmt.Sprintf("linear-gradient(135deg, %s, %s)",
			HexToRGBA(s.BackgroundColor, backgroundAlpha),
			HexToRGBA(s.AccentColor, accentAlpha)),
		BorderColor:     s.AccentColor,
		Glow:            s.Effects[EffectNeonGlow],
		ShootingStars:   s.Effects[EffectShootingStars],
		ParticleOverlay: s.Effects[EffectParticles],
		GradientOverlay: s.Effects[EffectGradientOverlay],
		TextureLayer:    s.Effects[EffectTextureLayer],
	}
}

// HexToRGBA converts a 6-digit hex color into an rgba() string. Input is not
// validated: a missing or non-hex channel is printed as NaN.
func HexToRGBA(hex string, alpha float64) string {
	digits := strings.TrimPrefix(hex, "#")
	channels := make([]string, 3)
	for i := range channels {
		channels[i] = hexChannel(digits, i*2)
	}
	return fmt.Sprintf("rgba(%s, %s, %s, %s)", channels[0], channels[1], channels[2],
		strconv.FormatFloat(alpha, 'f', -1, 64))
}

func hexChannel(digits string, offset int) string {
	if offset+2 > len(digits) {
		return "NaN"
	}
	v, err := strconv.ParseUint(digits[offset:offset+2], 16, 8)
	if err != nil {
		return "NaN"
	}
	return strconv.FormatUint(v, 10)
}
