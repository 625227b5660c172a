package engine

// Tags recognized by the movement core.
const (
	TagPlayer       = "Player"
	TagEnemy        = "Enemy"
	TagHazard       = "Hazard"
	TagPlatform     = "Platform"
	TagSpring       = "Spring"
	TagRail         = "Interactive/Rail"
	TagGravityField = "Gravity Field"
)

// IsEntity reports whether g is a player or an enemy.
func IsEntity(g *GameObject) bool {
	return g != nil && (g.HasTag(TagPlayer) || g.HasTag(TagEnemy))
}

func IsHazard(g *GameObject) bool {
	return g != nil && g.HasTag(TagHazard)
}

func IsPlatform(g *GameObject) bool {
	return g != nil && g.HasTag(TagPlatform)
}
