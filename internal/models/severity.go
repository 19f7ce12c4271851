package models

import "fmt"

// HurricaneCategory is a Saffir-Simpson classification, including the
// tropical depression and tropical storm bands below Category 1.
type HurricaneCategory string

const (
	CategoryTropicalDepression HurricaneCategory = "TD"
	CategoryTropicalStorm      HurricaneCategory = "TS"
	CategoryOne                HurricaneCategory = "1"
	CategoryTwo                HurricaneCategory = "2"
	CategoryThree              HurricaneCategory = "3"
	CategoryFour               HurricaneCategory = "4"
	CategoryFive               HurricaneCategory = "5"
)

// saffirSimpson is the canonical wind-speed table: a storm belongs to the
// first band whose upper bound exceeds its sustained wind.
var saffirSimpson = []struct {
	belowMph float64
	category HurricaneCategory
}{
	{39, CategoryTropicalDepression},
	{74, CategoryTropicalStorm},
	{96, CategoryOne},
	{111, CategoryTwo},
	{130, CategoryThree},
	{157, CategoryFour},
}

// CategoryFromWind classifies a storm by maximum sustained wind in mph.
func CategoryFromWind(windMph float64) HurricaneCategory {
	for _, band := range saffirSimpson {
		if windMph < band.belowMph {
			return band.category
		}
	}
	return CategoryFive
}

// CategoryFromSaffirSimpson classifies by the SSNUM advisory field, where
// -2 is a tropical depression and -1/0 a tropical storm. Values outside the
// table fall back to tropical storm, matching upstream advisory behavior.
func CategoryFromSaffirSimpson(ssnum int) HurricaneCategory {
	switch ssnum {
	case -2:
		return CategoryTropicalDepression
	case -1, 0:
		return CategoryTropicalStorm
	case 1:
		return CategoryOne
	case 2:
		return CategoryTwo
	case 3:
		return CategoryThree
	case 4:
		return CategoryFour
	case 5:
		return CategoryFive
	default:
		return CategoryTropicalStorm
	}
}

// Description returns the human-readable label for the category.
func (c HurricaneCategory) Description() string {
	switch c {
	case CategoryTropicalDepression:
		return "Tropical Depression"
	case CategoryTropicalStorm:
		return "Tropical Storm"
	case CategoryOne:
		return "Category 1 Hurricane"
	case CategoryTwo:
		return "Category 2 Hurricane"
	case CategoryThree:
		return "Category 3 Hurricane (Major)"
	case CategoryFour:
		return "Category 4 Hurricane (Major)"
	case CategoryFive:
		return "Category 5 Hurricane (Major)"
	default:
		return "Unknown"
	}
}

// EFScale is an Enhanced Fujita tornado intensity rating (EF0-EF5).
type EFScale int

// EFScaleFromNumber converts a surveyed EF number into a rating. ok is false
// outside the 0-5 range.
func EFScaleFromNumber(n int) (EFScale, bool) {
	if n < 0 || n > 5 {
		return 0, false
	}
	return EFScale(n), true
}

// String renders the rating the way the DAT feed labels it, e.g. "EF3".
func (s EFScale) String() string { return fmt.Sprintf("EF%d", int(s)) }

var efDescriptions = [...]string{
	"EF0 - Light Damage (65-85 mph)",
	"EF1 - Moderate Damage (86-110 mph)",
	"EF2 - Significant Damage (111-135 mph)",
	"EF3 - Severe Damage (136-165 mph)",
	"EF4 - Devastating Damage (166-200 mph)",
	"EF5 - Incredible Damage (200+ mph)",
}

// Description returns the damage description for the rating.
func (s EFScale) Description() string {
	if s < 0 || int(s) >= len(efDescriptions) {
		return "Unknown"
	}
	return efDescriptions[s]
}

// WildfireSize classifies a fire by burned acreage.
type WildfireSize string

const (
	SizeSmall  WildfireSize = "small"
	SizeMedium WildfireSize = "medium"
	SizeLarge  WildfireSize = "large"
	SizeMajor  WildfireSize = "major"
	SizeMega   WildfireSize = "mega"
)

// acreageBands is the canonical size table: a fire belongs to the first band
// whose upper bound exceeds its acreage.
var acreageBands = []struct {
	belowAcres float64
	size       WildfireSize
}{
	{100, SizeSmall},
	{1000, SizeMedium},
	{10000, SizeLarge},
	{100000, SizeMajor},
}

// SizeFromAcres classifies a fire by acreage.
func SizeFromAcres(acres float64) WildfireSize {
	for _, band := range acreageBands {
		if acres < band.belowAcres {
			return band.size
		}
	}
	return SizeMega
}

// Description returns the human-readable label for the size class.
func (s WildfireSize) Description() string {
	switch s {
	case SizeSmall:
		return "Small Fire (< 100 acres)"
	case SizeMedium:
		return "Medium Fire (100-1,000 acres)"
	case SizeLarge:
		return "Large Fire (1,000-10,000 acres)"
	case SizeMajor:
		return "Major Fire (10,000-100,000 acres)"
	case SizeMega:
		return "Megafire (100,000+ acres)"
	default:
		return "Unknown"
	}
}
