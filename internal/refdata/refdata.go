// Package refdata holds the literature-sourced reference tables the funnel
// estimator chains onto measured prevalence: annual incidence per indication
// and molecular-testing rates per indication+gene. The compiled-in defaults
// reflect published US estimates (SEER/NCI and testing-rate literature); a
// deployment can override them from a YAML file.
package refdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTestingRate applies when no (indication, gene) entry exists.
const DefaultTestingRate = 0.5

type Tables struct {
	// Incidence is the approximate annual US incidence per indication.
	Incidence map[string]int `yaml:"incidence"`
	// TestingRates maps indication -> gene -> fraction of incident patients
	// receiving molecular testing for that gene.
	TestingRates map[string]map[string]float64 `yaml:"testing_rates"`
}

// Defaults returns the compiled-in reference tables.
func Defaults() *Tables {
	return &Tables{
		Incidence: map[string]int{
			"NSCLC":             228000,
			"Breast Cancer":     310000,
			"Colorectal Cancer": 153000,
			"Melanoma":          100000,
			"Gastric Cancer":    27000,
		},
		TestingRates: map[string]map[string]float64{
			"NSCLC": {
				"KRAS": 0.70, "EGFR": 0.75, "BRAF": 0.65, "ALK": 0.75, "ROS1": 0.60,
				"RET": 0.55, "MET": 0.55, "NTRK": 0.50, "ERBB2": 0.50,
			},
			"Breast Cancer":     {"ERBB2": 0.95, "PIK3CA": 0.60, "BRCA1": 0.40},
			"Colorectal Cancer": {"KRAS": 0.80, "BRAF": 0.70, "ERBB2": 0.30},
			"Melanoma":          {"BRAF": 0.85},
			"Gastric Cancer":    {"ERBB2": 0.70},
		},
	}
}

// Load reads a YAML override file and merges it over the defaults. Entries
// present in the file replace the default entry; everything else keeps its
// compiled-in value.
func Load(path string) (*Tables, error) {
	t := Defaults()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read refdata file: %w", err)
	}
	var override Tables
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("parse refdata file: %w", err)
	}
	for ind, n := range override.Incidence {
		t.Incidence[ind] = n
	}
	for ind, rates := range override.TestingRates {
		if t.TestingRates[ind] == nil {
			t.TestingRates[ind] = map[string]float64{}
		}
		for gene, rate := range rates {
			t.TestingRates[ind][gene] = rate
		}
	}
	return t, nil
}

// AnnualIncidence returns the incidence estimate for an indication, zero when
// the indication is not in the table.
func (t *Tables) AnnualIncidence(indication string) int {
	return t.Incidence[indication]
}

// TestingRate returns the molecular-testing rate for a gene within an
// indication, falling back to DefaultTestingRate.
func (t *Tables) TestingRate(indication, gene string) float64 {
	if rates, ok := t.TestingRates[indication]; ok {
		if r, ok := rates[gene]; ok {
			return r
		}
	}
	return DefaultTestingRate
}
