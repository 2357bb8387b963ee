package score

// BoardType is the class of board a surfer rides.
type BoardType string

const (
	BoardLongboard  BoardType = "longboard"
	BoardMidlength  BoardType = "midlength"
	BoardShortboard BoardType = "shortboard"
)

// SkillLevel is a surfer's self-reported ability.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// HeightRange is the wave-height envelope for one board/skill pairing,
// in feet. SurfableMin <= IdealMin <= IdealMax <= SurfableMax.
type HeightRange struct {
	SurfableMin float64
	IdealMin    float64
	IdealMax    float64
	SurfableMax float64
}

type profileKey struct {
	Board BoardType
	Skill SkillLevel
}

// heightRanges maps board x skill to a wave-height envelope. Static
// configuration; longboards favour smaller surf, shortboards need more
// push, and the surfable ceiling grows with skill.
var heightRanges = map[profileKey]HeightRange{
	{BoardLongboard, SkillBeginner}:      {SurfableMin: 0.5, IdealMin: 1, IdealMax: 3, SurfableMax: 4},
	{BoardLongboard, SkillIntermediate}:  {SurfableMin: 1, IdealMin: 2, IdealMax: 4, SurfableMax: 6},
	{BoardLongboard, SkillAdvanced}:      {SurfableMin: 1, IdealMin: 2, IdealMax: 5, SurfableMax: 8},
	{BoardMidlength, SkillBeginner}:      {SurfableMin: 1, IdealMin: 2, IdealMax: 4, SurfableMax: 5},
	{BoardMidlength, SkillIntermediate}:  {SurfableMin: 1.5, IdealMin: 2.5, IdealMax: 5, SurfableMax: 7},
	{BoardMidlength, SkillAdvanced}:      {SurfableMin: 2, IdealMin: 3, IdealMax: 6, SurfableMax: 10},
	{BoardShortboard, SkillBeginner}:     {SurfableMin: 1.5, IdealMin: 2.5, IdealMax: 4, SurfableMax: 5},
	{BoardShortboard, SkillIntermediate}: {SurfableMin: 2, IdealMin: 3, IdealMax: 6, SurfableMax: 8},
	{BoardShortboard, SkillAdvanced}:     {SurfableMin: 2, IdealMin: 4, IdealMax: 8, SurfableMax: 15},
}

// LookupHeightRange returns the wave-height envelope for a board/skill
// pairing. The second return is false for an unknown pairing; callers
// score wave height as a neutral 50 in that case rather than failing.
func LookupHeightRange(board BoardType, skill SkillLevel) (HeightRange, bool) {
	r, ok := heightRanges[profileKey{board, skill}]
	return r, ok
}
