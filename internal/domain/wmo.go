package domain

// lightningCodes is the set of WMO present-weather codes that indicate
// thunderstorm activity, covering both the manned-station code table
// (4677) and the automatic-station table (4680). Codes 13, 17 and 29
// are lightning or thunder observed without precipitation at the
// station; 91-99 and 190-196 are thunderstorm states with varying
// precipitation; 112, 126, 213, 217, 292 and 293 are the automatic
// equivalents.
var lightningCodes = map[int]struct{}{
	13: {}, 17: {}, 29: {},
	91: {}, 92: {}, 93: {}, 94: {}, 95: {}, 96: {}, 97: {}, 98: {}, 99: {},
	112: {}, 126: {},
	190: {}, 191: {}, 192: {}, 193: {}, 194: {}, 195: {}, 196: {},
	213: {}, 217: {},
	292: {}, 293: {},
}

// IsLightningCode reports whether a present-weather value counts as a
// lightning observation. SMHI serves the codes as floats; the integer
// part carries the code.
func IsLightningCode(value float64) bool {
	_, ok := lightningCodes[int(value)]
	return ok
}
