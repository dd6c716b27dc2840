package models

// Region codes form a closed set. Cross-region enrollment is disallowed, so
// every tournament and every user carries exactly one of these.
const (
	RegionNA = "NA"
	RegionEU = "EU"
	RegionAS = "AS"
	RegionSA = "SA"
	RegionOC = "OC"
	RegionAF = "AF"
)

var validRegions = map[string]bool{
	RegionNA: true,
	RegionEU: true,
	RegionAS: true,
	RegionSA: true,
	RegionOC: true,
	RegionAF: true,
}

func IsValidRegion(code string) bool {
	return validRegions[code]
}

// Regions returns the closed set in a stable order (for dropdowns / validation messages).
func Regions() []string {
	return []string{RegionNA, RegionEU, RegionAS, RegionSA, RegionOC, RegionAF}
}
