package core

// Color is the semantic color of a screen cell. The terminal client maps
// it to an actual palette.
type Color uint8

const (
	ColorDefault Color = iota
	ColorText
	ColorMuted // Dead participants, idle aim, footer
	ColorWall
	ColorGood // Own glyph, headshots, wins
	ColorBad  // Opponent glyph, misses, losses
	ColorWarn // Timers and calls to action
	ColorAim  // Live aim line
	ColorInfo
	ColorCue
)
