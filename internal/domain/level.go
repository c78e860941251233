package domain

import "math"

// Level derives the level from accumulated experience: floor(sqrt(xp/100)) + 1.
func Level(experience int) int {
	if experience <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(experience)/100))) + 1
}

// NextLevelAt is the experience at which level+1 begins.
func NextLevelAt(level int) int {
	return level * level * 100
}

// SummarizeLevel reports where experience sits inside its current level.
func SummarizeLevel(experience int) LevelSummary {
	level := Level(experience)
	floor := (level - 1) * (level - 1) * 100
	next := NextLevelAt(level)
	progress := float64(experience-floor) / float64(next-floor) * 100
	return LevelSummary{
		Level:         level,
		Experience:    experience,
		NextLevelAt:   next,
		LevelProgress: progress,
	}
}

// RoundScore rounds half up, matching percentage display.
func RoundScore(score float64) int {
	return int(math.Floor(score + 0.5))
}
