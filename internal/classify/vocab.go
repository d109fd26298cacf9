package classify

import "strings"

// Role is the heuristic meaning of a table column name. The same vocabulary
// drives both classification and the renderer's column choice, so the two
// can never disagree about what a column is.
type Role int

const (
	RoleNone Role = iota
	RoleTime
	RoleFlux
	RoleWavelength
)

var (
	timeNames = map[string]bool{
		"time": true, "mjd": true, "jd": true, "date": true,
		"epoch": true, "bjd": true, "day": true,
	}
	fluxNames = map[string]bool{
		"flux": true, "count": true, "rate": true, "counts": true,
		"mag": true, "magnitude": true, "fluxerr": true, "flux_err": true,
	}
	wavelengthNames = map[string]bool{
		"wavelength": true, "wave": true, "wl": true, "lam": true,
		"lambda": true, "energy": true, "freq": true, "frequency": true,
	}
)

// normalizeColumn strips underscores and whitespace and lowercases, so
// "Flux_Err", "fluxerr" and "FLUX ERR" all compare equal.
func normalizeColumn(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '_', ' ', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// RoleOf maps a column name to its heuristic role.
func RoleOf(name string) Role {
	n := normalizeColumn(name)
	switch {
	case timeNames[n]:
		return RoleTime
	case fluxNames[n] || strings.Contains(n, "flux") || strings.Contains(n, "count"):
		return RoleFlux
	case wavelengthNames[n] || strings.Contains(n, "wave") || strings.Contains(n, "lam"):
		return RoleWavelength
	default:
		return RoleNone
	}
}

// hasRole reports whether any column carries the given role.
func hasRole(cols []string, role Role) bool {
	for _, c := range cols {
		if RoleOf(c) == role {
			return true
		}
	}
	return false
}
