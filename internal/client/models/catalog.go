package models

// Units is the closed catalog of organizational units records and users
// belong to.
var Units = []string{
	"TNK", "TTG", "TBT", "TAS", "HPTN", "HLAN", "HBHA", "MVL", "VP-PTC",
}

// SourceUnits is the catalog of places an adopted idea may have been
// learned from: every internal unit plus a few external sources.
var SourceUnits = append(append([]string{}, Units...), "HVN", "TMV", "OTHER")

// ValidUnit reports whether s is in the unit catalog.
func ValidUnit(s string) bool {
	for _, u := range Units {
		if s == u {
			return true
		}
	}
	return false
}

// ValidSourceUnit reports whether s is in the source-unit catalog.
func ValidSourceUnit(s string) bool {
	for _, u := range SourceUnits {
		if s == u {
			return true
		}
	}
	return false
}
