package score

// NormalizeAngle folds a compass bearing difference into (-180, 180].
// All direction comparisons go through this; a plain modulo leaves
// values near ±360 misfolded and breaks differences near 180°.
func NormalizeAngle(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// AngleDiff returns the absolute circular distance between two bearings,
// in [0, 180].
func AngleDiff(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d < 0 {
		return -d
	}
	return d
}
