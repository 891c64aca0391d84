// Package genemap resolves biomarker display names to the gene identifiers
// that back them. A biomarker can cover several genes (NTRK spans NTRK1/2/3)
// or none at all (TMB, ctDNA, TILs have no single-gene basis); both are valid
// resolutions. Lookups are case-sensitive exact matches against a static
// table, never fuzzy.
package genemap

import "sort"

// Gene is one gene behind a biomarker: HGNC symbol plus stable Ensembl id.
type Gene struct {
	Symbol    string
	EnsemblID string
}

var biomarkerGenes = map[string][]Gene{
	"EGFR":    {{Symbol: "EGFR", EnsemblID: "ENSG00000146648"}},
	"KRAS":    {{Symbol: "KRAS", EnsemblID: "ENSG00000133703"}},
	"BRAF":    {{Symbol: "BRAF", EnsemblID: "ENSG00000157764"}},
	"ALK":     {{Symbol: "ALK", EnsemblID: "ENSG00000171094"}},
	"HER2":    {{Symbol: "ERBB2", EnsemblID: "ENSG00000141736"}},
	"PD-L1":   {{Symbol: "CD274", EnsemblID: "ENSG00000120217"}},
	"NTRK":    {{Symbol: "NTRK1", EnsemblID: "ENSG00000198400"}, {Symbol: "NTRK2", EnsemblID: "ENSG00000148053"}, {Symbol: "NTRK3", EnsemblID: "ENSG00000140538"}},
	"BRCA1/2": {{Symbol: "BRCA1", EnsemblID: "ENSG00000012048"}, {Symbol: "BRCA2", EnsemblID: "ENSG00000139618"}},
	"PIK3CA":  {{Symbol: "PIK3CA", EnsemblID: "ENSG00000121879"}},
	"ER":      {{Symbol: "ESR1", EnsemblID: "ENSG00000091831"}},
	"PR":      {{Symbol: "PGR", EnsemblID: "ENSG00000082175"}},
	"MSI":     {{Symbol: "MLH1", EnsemblID: "ENSG00000076242"}, {Symbol: "MSH2", EnsemblID: "ENSG00000095002"}, {Symbol: "MSH6", EnsemblID: "ENSG00000116062"}, {Symbol: "PMS2", EnsemblID: "ENSG00000122512"}},
	"Ki-67":   {{Symbol: "MKI67", EnsemblID: "ENSG00000148773"}},
	"MET":     {{Symbol: "MET", EnsemblID: "ENSG00000105976"}},
	"ROS1":    {{Symbol: "ROS1", EnsemblID: "ENSG00000047936"}},
	"RET":     {{Symbol: "RET", EnsemblID: "ENSG00000165731"}},
	"TMB":     {},
	"ctDNA":   {},
	"TILs":    {},
}

// geneToBiomarker is the reverse index. Built once at init; if a gene symbol
// ever appeared under two biomarkers the first registration wins.
var geneToBiomarker = func() map[string]string {
	rev := make(map[string]string, len(biomarkerGenes))
	for _, name := range Biomarkers() {
		for _, g := range biomarkerGenes[name] {
			if _, exists := rev[g.Symbol]; !exists {
				rev[g.Symbol] = name
			}
		}
	}
	return rev
}()

// Resolve returns the genes behind a biomarker display name. An empty slice
// means either an unknown biomarker or one with no genetic basis; callers
// treat both as "no gene data", never as an error.
func Resolve(biomarker string) []Gene {
	genes, ok := biomarkerGenes[biomarker]
	if !ok {
		return nil
	}
	out := make([]Gene, len(genes))
	copy(out, genes)
	return out
}

// Symbols returns just the gene symbols for a biomarker, in table order.
func Symbols(biomarker string) []string {
	genes := biomarkerGenes[biomarker]
	syms := make([]string, 0, len(genes))
	for _, g := range genes {
		syms = append(syms, g.Symbol)
	}
	return syms
}

// BiomarkerFor maps a gene symbol back to its owning biomarker.
func BiomarkerFor(symbol string) (string, bool) {
	bm, ok := geneToBiomarker[symbol]
	return bm, ok
}

// Biomarkers lists every known biomarker name in deterministic order.
func Biomarkers() []string {
	names := make([]string, 0, len(biomarkerGenes))
	for name := range biomarkerGenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
