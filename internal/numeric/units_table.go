package numeric

// symbolTable is the fixed declared-unit vocabulary a numeric literal's
// suffix or a resource's "@<symbol>" tag resolves against (spec §3
// "Unit tag", §4.9 template unit conversion). Base dimensions follow
// dimNames' order: length, mass, time, current, temperature, amount, angle.
var symbolTable = map[string]UnitDim{
	"":     Dimensionless,
	"m":    {1, 0, 0, 0, 0, 0, 0},
	"km":   {1, 0, 0, 0, 0, 0, 0},
	"cm":   {1, 0, 0, 0, 0, 0, 0},
	"kg":   {0, 1, 0, 0, 0, 0, 0},
	"g":    {0, 1, 0, 0, 0, 0, 0},
	"s":    {0, 0, 1, 0, 0, 0, 0},
	"ms":   {0, 0, 1, 0, 0, 0, 0},
	"A":    {0, 0, 0, 1, 0, 0, 0},
	"K":    {0, 0, 0, 0, 1, 0, 0},
	"mol":  {0, 0, 0, 0, 0, 1, 0},
	"rad":  {0, 0, 0, 0, 0, 0, 1},
	"deg":  {0, 0, 0, 0, 0, 0, 1},
	"m/s":  {1, 0, -1, 0, 0, 0, 0},
	"m/s2": {1, 0, -2, 0, 0, 0, 0},
	"N":    {1, 1, -2, 0, 0, 0, 0},
	"J":    {2, 1, -2, 0, 0, 0, 0},
	"W":    {2, 1, -3, 0, 0, 0, 0},
	"Hz":   {0, 0, -1, 0, 0, 0, 0},
}

// LookupUnitSpec resolves a declared unit symbol to its UnitSpec, or
// ok=false when the symbol is not in the fixed vocabulary.
func LookupUnitSpec(symbol string) (UnitSpec, bool) {
	dim, ok := symbolTable[symbol]
	if !ok {
		return UnitSpec{}, false
	}
	return UnitSpec{Symbol: symbol, Dim: dim}, true
}
