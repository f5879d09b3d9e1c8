package aisc

import (
	"sort"
	"strings"
)

// Weight per linear foot (lbs/ft) for common steel sections.
// Source: AISC Steel Construction Manual. Keys are normalized designations.
var weights = map[string]float64{
	// Wide flange (W shapes)
	"W4X13": 13, "W5X16": 16, "W5X19": 19,
	"W6X9": 9, "W6X12": 12, "W6X15": 15, "W6X16": 16, "W6X20": 20, "W6X25": 25,
	"W8X10": 10, "W8X13": 13, "W8X15": 15, "W8X18": 18, "W8X21": 21, "W8X24": 24,
	"W8X28": 28, "W8X31": 31, "W8X35": 35, "W8X40": 40, "W8X48": 48, "W8X58": 58, "W8X67": 67,
	"W10X12": 12, "W10X15": 15, "W10X17": 17, "W10X19": 19, "W10X22": 22, "W10X26": 26,
	"W10X30": 30, "W10X33": 33, "W10X39": 39, "W10X45": 45, "W10X49": 49, "W10X54": 54,
	"W10X60": 60, "W10X68": 68, "W10X77": 77, "W10X88": 88, "W10X100": 100, "W10X112": 112,
	"W12X14": 14, "W12X16": 16, "W12X19": 19, "W12X22": 22, "W12X26": 26, "W12X30": 30,
	"W12X35": 35, "W12X40": 40, "W12X45": 45, "W12X50": 50, "W12X53": 53, "W12X58": 58,
	"W12X65": 65, "W12X72": 72, "W12X79": 79, "W12X87": 87, "W12X96": 96, "W12X106": 106,
	"W12X120": 120, "W12X136": 136, "W12X152": 152, "W12X170": 170, "W12X190": 190,
	"W14X22": 22, "W14X26": 26, "W14X30": 30, "W14X34": 34, "W14X38": 38, "W14X43": 43,
	"W14X48": 48, "W14X53": 53, "W14X61": 61, "W14X68": 68, "W14X74": 74, "W14X82": 82,
	"W14X90": 90, "W14X99": 99, "W14X109": 109, "W14X120": 120, "W14X132": 132,
	"W16X26": 26, "W16X31": 31, "W16X36": 36, "W16X40": 40, "W16X45": 45, "W16X50": 50,
	"W16X57": 57, "W16X67": 67, "W16X77": 77, "W16X89": 89, "W16X100": 100,
	"W18X35": 35, "W18X40": 40, "W18X46": 46, "W18X50": 50, "W18X55": 55, "W18X60": 60,
	"W18X65": 65, "W18X71": 71, "W18X76": 76, "W18X86": 86, "W18X97": 97, "W18X106": 106,
	"W21X44": 44, "W21X50": 50, "W21X57": 57, "W21X62": 62, "W21X68": 68, "W21X73": 73,
	"W21X83": 83, "W21X93": 93, "W21X101": 101,
	"W24X55": 55, "W24X62": 62, "W24X68": 68, "W24X76": 76, "W24X84": 84, "W24X94": 94,
	"W24X104": 104, "W24X117": 117, "W24X131": 131,
	"W27X84": 84, "W27X94": 94, "W27X102": 102, "W27X114": 114,
	"W30X90": 90, "W30X99": 99, "W30X108": 108, "W30X116": 116,
	"W33X118": 118, "W33X130": 130, "W33X141": 141,
	"W36X135": 135, "W36X150": 150, "W36X160": 160, "W36X170": 170,

	// S shapes (standard I-beam)
	"S3X5.7": 5.7, "S4X7.7": 7.7, "S5X10": 10, "S6X12.5": 12.5,
	"S8X18.4": 18.4, "S8X23": 23, "S10X25.4": 25.4, "S10X35": 35,
	"S12X31.8": 31.8, "S12X35": 35, "S12X40.8": 40.8, "S12X50": 50,
	"S15X42.9": 42.9, "S15X50": 50, "S18X54.7": 54.7, "S18X70": 70,

	// Channels (C shapes)
	"C3X4.1": 4.1, "C3X5": 5, "C3X6": 6,
	"C4X5.4": 5.4, "C4X7.25": 7.25,
	"C5X6.7": 6.7, "C5X9": 9,
	"C6X8.2": 8.2, "C6X10.5": 10.5, "C6X13": 13,
	"C7X9.8": 9.8, "C7X12.25": 12.25, "C7X14.75": 14.75,
	"C8X11.5": 11.5, "C8X13.75": 13.75, "C8X18.75": 18.75,
	"C9X13.4": 13.4, "C9X15": 15, "C9X20": 20,
	"C10X15.3": 15.3, "C10X20": 20, "C10X25": 25, "C10X30": 30,
	"C12X20.7": 20.7, "C12X25": 25, "C12X30": 30,
	"C15X33.9": 33.9, "C15X40": 40, "C15X50": 50,

	// Equal leg angles
	"L2X2X1/4": 1.65, "L2X2X3/8": 2.44, "L2X2X1/2": 3.19,
	"L2.5X2.5X3/16": 1.55, "L2.5X2.5X1/4": 2.08, "L2.5X2.5X3/8": 3.07, "L2.5X2.5X1/2": 4.1,
	"L2-1/2X2-1/2X3/16": 1.55, "L2-1/2X2-1/2X1/4": 2.08, "L2-1/2X2-1/2X3/8": 3.07, "L2-1/2X2-1/2X1/2": 4.1,
	"L3X3X3/16": 1.89, "L3X3X1/4": 2.53, "L3X3X5/16": 3.12, "L3X3X3/8": 3.71, "L3X3X1/2": 4.9,
	"L3.5X3.5X1/4": 2.99, "L3.5X3.5X5/16": 3.65, "L3.5X3.5X3/8": 4.3, "L3.5X3.5X1/2": 5.8,
	"L3-1/2X3-1/2X1/4": 2.99, "L3-1/2X3-1/2X5/16": 3.65, "L3-1/2X3-1/2X3/8": 4.3, "L3-1/2X3-1/2X1/2": 5.8,
	"L4X4X1/4": 3.38, "L4X4X5/16": 4.18, "L4X4X3/8": 4.97, "L4X4X1/2": 6.6, "L4X4X5/8": 8.2,
	"L5X5X5/16": 5.28, "L5X5X3/8": 6.3, "L5X5X1/2": 8.2, "L5X5X5/8": 10.3, "L5X5X3/4": 12.3,
	"L6X6X3/8": 7.65, "L6X6X1/2": 10.1, "L6X6X5/8": 12.4, "L6X6X3/4": 14.9, "L6X6X1": 19.6,

	// Unequal leg angles
	"L3X2X1/4": 1.92, "L3X2X5/16": 2.36, "L3X2X3/8": 2.77,
	"L3.5X2.5X1/4": 2.44, "L3.5X2.5X5/16": 2.99, "L3.5X2.5X3/8": 3.58,
	"L3-1/2X2-1/2X1/4": 2.44, "L3-1/2X2-1/2X5/16": 2.99, "L3-1/2X2-1/2X3/8": 3.58,
	"L4X3X1/4": 2.77, "L4X3X5/16": 3.38, "L4X3X3/8": 4.1, "L4X3X1/2": 5.3,
	"L5X3X1/4": 3.24, "L5X3X5/16": 4.0, "L5X3X3/8": 4.74, "L5X3X1/2": 6.2,
	"L5X3-1/2X1/4": 3.50, "L5X3-1/2X5/16": 4.32, "L5X3-1/2X3/8": 5.1,
	"L6X3-1/2X5/16": 4.99, "L6X3-1/2X3/8": 5.9, "L6X3-1/2X1/2": 7.78,
	"L6X4X5/16": 5.31, "L6X4X3/8": 6.3, "L6X4X1/2": 8.3,

	// Square HSS
	"HSS2X2X1/8": 1.54, "HSS2X2X3/16": 2.27, "HSS2X2X1/4": 2.93,
	"HSS3X3X1/8": 2.39, "HSS3X3X3/16": 3.48, "HSS3X3X1/4": 4.51, "HSS3X3X5/16": 5.48, "HSS3X3X3/8": 6.39,
	"HSS3-1/2X3-1/2X3/16": 4.09, "HSS3-1/2X3-1/2X1/4": 5.34, "HSS3-1/2X3-1/2X5/16": 6.53, "HSS3-1/2X3-1/2X3/8": 7.66,
	"HSS4X4X1/8": 3.22, "HSS4X4X3/16": 4.75, "HSS4X4X1/4": 6.16, "HSS4X4X5/16": 7.51, "HSS4X4X3/8": 8.77, "HSS4X4X1/2": 11.1,
	"HSS5X5X3/16": 6.01, "HSS5X5X1/4": 7.81, "HSS5X5X5/16": 9.51, "HSS5X5X3/8": 11.1, "HSS5X5X1/2": 14.3,
	"HSS5-1/2X5-1/2X3/16": 6.64, "HSS5-1/2X5-1/2X1/4": 8.64, "HSS5-1/2X5-1/2X5/16": 10.6, "HSS5-1/2X5-1/2X3/8": 12.4,
	"HSS6X6X3/16": 7.27, "HSS6X6X1/4": 9.46, "HSS6X6X5/16": 11.5, "HSS6X6X3/8": 13.6, "HSS6X6X1/2": 17.3, "HSS6X6X5/8": 21.2,
	"HSS7X7X1/4": 11.8, "HSS7X7X5/16": 14.5, "HSS7X7X3/8": 17.1, "HSS7X7X1/2": 22.1,
	"HSS8X8X1/4": 12.7, "HSS8X8X5/16": 15.6, "HSS8X8X3/8": 18.4, "HSS8X8X1/2": 23.8, "HSS8X8X5/8": 29.4,
	"HSS9X9X1/4": 14.5, "HSS9X9X5/16": 17.8, "HSS9X9X3/8": 21.1, "HSS9X9X1/2": 27.2,
	"HSS10X10X1/4": 16.1, "HSS10X10X5/16": 19.8, "HSS10X10X3/8": 23.4, "HSS10X10X1/2": 30.5,
	"HSS12X12X5/16": 24.1, "HSS12X12X3/8": 28.6, "HSS12X12X1/2": 37.3,

	// Rectangular HSS
	"HSS6X4X1/4": 8.15, "HSS6X4X5/16": 9.95, "HSS6X4X3/8": 11.7, "HSS6X4X1/2": 14.9,
	"HSS7X5X5/16": 12.1, "HSS7X5X3/8": 14.4, "HSS7X5X1/2": 18.8,
	"HSS8X4X1/4": 10.0, "HSS8X4X3/8": 14.5, "HSS8X4X1/2": 18.5,
	"HSS8X6X1/4": 11.6, "HSS8X6X3/8": 17.1, "HSS8X6X1/2": 21.8,
	"HSS10X4X5/16": 13.3, "HSS10X4X3/8": 15.8, "HSS10X4X1/2": 20.5,
	"HSS10X6X5/16": 15.6, "HSS10X6X3/8": 18.7, "HSS10X6X1/2": 23.8,
	"HSS12X4X5/16": 15.6, "HSS12X4X3/8": 18.7, "HSS12X4X1/2": 24.1,
	"HSS14X4X3/8": 22.2, "HSS14X4X1/2": 28.6,

	// Round HSS
	"HSS2.5X.25": 2.27, "HSS3X.25": 2.76, "HSS3.5X.25": 3.26, "HSS4X.25": 3.75,
	"HSS4X.375": 5.42, "HSS5X.25": 4.74, "HSS5X.375": 6.95, "HSS6X.25": 5.72,
	"HSS6X.375": 8.44, "HSS8X.25": 7.69, "HSS8X.375": 11.4, "HSS8X.5": 14.7,

	// Pipe
	"PIPE1STD": 1.68, "PIPE1.25STD": 2.27, "PIPE1.5STD": 2.72, "PIPE2STD": 3.65,
	"PIPE2.5STD": 5.79, "PIPE3STD": 7.58, "PIPE3.5STD": 9.12, "PIPE4STD": 10.79,
	"PIPE5STD": 14.62, "PIPE6STD": 18.97, "PIPE8STD": 28.55,
	"PIPE1XH": 2.17, "PIPE2XH": 5.02, "PIPE3XH": 10.25, "PIPE3.5XH": 12.5,
	"PIPE4XH": 14.98, "PIPE6XH": 28.57,
}

func probe(key string) (float64, bool) {
	w, ok := weights[key]
	if !ok || w <= 0 {
		return 0, false
	}
	return w, true
}

// Sections returns the table keys in sorted order. An empty prefix returns all
// of them; otherwise only keys starting with the normalized prefix.
func Sections(prefix string) []string {
	p := Normalize(prefix)
	keys := make([]string, 0, len(weights))
	for k := range weights {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
