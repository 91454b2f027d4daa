package deckparse

import "math"

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU.
// Angles in OOXML transforms are stored in 60,000ths of a degree.

const (
	emuPerInch  = 914400
	emuPerPoint = 12700
	// stPerDegree is the angle unit used by xfrm rot attributes.
	stPerDegree = 60000
	// maxEMU is the maximum safe EMU value to prevent overflow.
	maxEMU = math.MaxInt64 / 2
)

// Inch converts inches to EMU. Clamps to safe range.
func Inch(n float64) int64 {
	return clampEMU(n * emuPerInch)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return clampEMU(n * emuPerPoint)
}

// EMUToInch converts EMU to inches.
func EMUToInch(emu int64) float64 {
	return float64(emu) / emuPerInch
}

// EMUToPoint converts EMU to points.
func EMUToPoint(emu int64) float64 {
	return float64(emu) / emuPerPoint
}

// stToDegrees converts a rotation in 60,000ths of a degree to degrees.
func stToDegrees(st int64) float64 {
	return float64(st) / stPerDegree
}

// pixelsToEMU converts pixels at 96 DPI to EMU. Used when a picture has no
// transform and falls back to its intrinsic bitmap size.
func pixelsToEMU(px int) int64 {
	return clampEMU(float64(px) / 96.0 * emuPerInch)
}

// clampEMU converts a float64 to int64, clamping to prevent overflow.
func clampEMU(v float64) int64 {
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(v)
}
