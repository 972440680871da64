package garden

// Stage is a habit's growth stage, from seed to mature.
type Stage int

const (
	StageSeed Stage = iota
	StageSprout
	StageGrowing
	StageBlooming
	StageMature
)

// Minimum streak for each stage above seed.
const (
	sproutStreak   = 3
	growingStreak  = 7
	bloomingStreak = 14
	matureStreak   = 30
)

// StageFor maps a streak length to its growth stage.
func StageFor(streak int) Stage {
	switch {
	case streak >= matureStreak:
		return StageMature
	case streak >= bloomingStreak:
		return StageBlooming
	case streak >= growingStreak:
		return StageGrowing
	case streak >= sproutStreak:
		return StageSprout
	default:
		return StageSeed
	}
}

func (s Stage) String() string {
	switch s {
	case StageSeed:
		return "seed"
	case StageSprout:
		return "sprout"
	case StageGrowing:
		return "growing"
	case StageBlooming:
		return "blooming"
	case StageMature:
		return "mature"
	default:
		return "unknown"
	}
}

// Glyph is the plant drawn for the stage.
func (s Stage) Glyph() string {
	switch s {
	case StageSprout:
		return "🌿"
	case StageGrowing:
		return "🪴"
	case StageBlooming:
		return "🌸"
	case StageMature:
		return "🌳"
	default:
		return "🌱"
	}
}
