package services

import "github.com/witherow/biostack/internal/models"

// PKParams are the static absorption/elimination parameters for one
// compound. Lookup data, not behavior: the table is loaded once and treated
// as immutable configuration.
type PKParams struct {
	PeakMinutes            float64
	HalfLifeMinutes        float64
	BioavailabilityPercent float64
}

// Per-compound parameters keyed by supplement slug. Values are coarse
// literature figures for typical oral doses.
var pkParamsBySlug = map[string]PKParams{
	"zinc":        {PeakMinutes: 120, HalfLifeMinutes: 720, BioavailabilityPercent: 30},
	"copper":      {PeakMinutes: 90, HalfLifeMinutes: 720, BioavailabilityPercent: 35},
	"magnesium":   {PeakMinutes: 180, HalfLifeMinutes: 1080, BioavailabilityPercent: 40},
	"calcium":     {PeakMinutes: 180, HalfLifeMinutes: 600, BioavailabilityPercent: 30},
	"iron":        {PeakMinutes: 120, HalfLifeMinutes: 360, BioavailabilityPercent: 25},
	"vitamin-d3":  {PeakMinutes: 720, HalfLifeMinutes: 21600, BioavailabilityPercent: 60},
	"vitamin-k2":  {PeakMinutes: 240, HalfLifeMinutes: 4320, BioavailabilityPercent: 55},
	"vitamin-c":   {PeakMinutes: 120, HalfLifeMinutes: 150, BioavailabilityPercent: 85},
	"caffeine":    {PeakMinutes: 45, HalfLifeMinutes: 300, BioavailabilityPercent: 100},
	"l-theanine":  {PeakMinutes: 50, HalfLifeMinutes: 180, BioavailabilityPercent: 95},
	"l-tyrosine":  {PeakMinutes: 60, HalfLifeMinutes: 150, BioavailabilityPercent: 90},
	"5-htp":       {PeakMinutes: 90, HalfLifeMinutes: 250, BioavailabilityPercent: 70},
	"melatonin":   {PeakMinutes: 30, HalfLifeMinutes: 50, BioavailabilityPercent: 15},
	"ashwagandha": {PeakMinutes: 90, HalfLifeMinutes: 240, BioavailabilityPercent: 50},
}

// Fallbacks for compounds without a per-slug entry.
var pkParamsByCategory = map[string]PKParams{
	models.CategoryMineral:   {PeakMinutes: 120, HalfLifeMinutes: 720, BioavailabilityPercent: 30},
	models.CategoryVitamin:   {PeakMinutes: 240, HalfLifeMinutes: 1440, BioavailabilityPercent: 50},
	models.CategoryAminoAcid: {PeakMinutes: 60, HalfLifeMinutes: 180, BioavailabilityPercent: 85},
	models.CategoryHerb:      {PeakMinutes: 90, HalfLifeMinutes: 300, BioavailabilityPercent: 50},
	models.CategoryStimulant: {PeakMinutes: 45, HalfLifeMinutes: 300, BioavailabilityPercent: 90},
}

var pkParamsDefault = PKParams{PeakMinutes: 60, HalfLifeMinutes: 240, BioavailabilityPercent: 50}

// PKParamsFor resolves the parameters for a supplement: per-slug entry
// first, then its category, then a generic default.
func PKParamsFor(supplement models.Supplement) PKParams {
	if params, ok := pkParamsBySlug[supplement.Slug]; ok {
		return params
	}
	if params, ok := pkParamsByCategory[supplement.Category]; ok {
		return params
	}
	return pkParamsDefault
}
