package value

import "github.com/tongosu/ddonilang/internal/numeric"

// numLike is a normalized view of a Num or Unit value for the cross-type
// equality/comparison rule; Dim is nil for a bare Num.
type numLike struct {
	Value numeric.Fixed64
	Dim   *numeric.UnitDim
}

// rank implements the total order's type-rank table from spec §4.2:
// None < Bool < {Fixed64, Unit} < String < ResourceHandle < Formula <
// Template < Lambda < Pack < List < Set < Map.
func rank(v Value) int {
	switch v.(type) {
	case None:
		return 0
	case Bool:
		return 1
	case Num, Unit:
		return 2
	case Str:
		return 3
	case Handle:
		return 4
	case Formula:
		return 5
	case Template:
		return 6
	case Lambda:
		return 7
	case *Pack:
		return 8
	case List:
		return 9
	case Set:
		return 10
	case Map:
		return 11
	default:
		return 99
	}
}

// asUnit normalizes Num/Unit to a common representation for the
// cross-type equality and comparison rule (a dimensionless Unit
// interoperates with a bare Fixed64).
func asUnit(v Value) (numLike, bool) {
	switch t := v.(type) {
	case Num:
		return numLike{Value: t.V, Dim: nil}, true
	case Unit:
		d := t.V.Dim
		return numLike{Value: t.V.Value, Dim: &d}, true
	default:
		return numLike{}, false
	}
}

// Equal implements values_equal (spec §4.2): structural equality with
// the scalar rules — cross-type Fixed64<=>Unit equality holds iff the
// Unit is dimensionless and raw integers match.
func Equal(a, b Value) bool {
	au, aIsNum := asUnit(a)
	bu, bIsNum := asUnit(b)
	if aIsNum && bIsNum {
		aDimless := au.Dim == nil || au.Dim.IsDimensionless()
		bDimless := bu.Dim == nil || bu.Dim.IsDimensionless()
		if au.Dim != nil && bu.Dim != nil {
			return au.Dim.Equal(*bu.Dim) && au.Value.Equal(bu.Value)
		}
		if !aDimless || !bDimless {
			return false
		}
		return au.Value.Equal(bu.Value)
	}

	switch at := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case Bool:
		bt, ok := b.(Bool)
		return ok && at == bt
	case Str:
		bt, ok := b.(Str)
		return ok && at == bt
	case Handle:
		bt, ok := b.(Handle)
		return ok && at.Hex == bt.Hex
	case Lambda:
		bt, ok := b.(Lambda)
		return ok && at.ID == bt.ID
	case List:
		bt, ok := b.(List)
		if !ok || len(at.Items) != len(bt.Items) {
			return false
		}
		for i := range at.Items {
			if !Equal(at.Items[i], bt.Items[i]) {
				return false
			}
		}
		return true
	default:
		// Sets/Maps/Packs/Formula/Template: canonical-key structural
		// equality is sufficient and matches the container construction
		// rules in spec §3/§4.5.
		return Canon(a) == Canon(b)
	}
}

// Cmp implements value_cmp (spec §4.2): total order by type rank, then
// natural within-rank compare, falling back to canonical-string compare
// within a rank that has no natural order.
func Cmp(a, b Value) int {
	ra, rb := rank(a), rank(b)

	au, aIsNum := asUnit(a)
	bu, bIsNum := asUnit(b)
	if aIsNum && bIsNum {
		return au.Value.Cmp(bu.Value)
	}

	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch at := a.(type) {
	case None:
		return 0
	case Bool:
		bt := b.(Bool)
		if at == bt {
			return 0
		}
		if !bool(at) {
			return -1
		}
		return 1
	case Str:
		bt := b.(Str)
		return compareStrings(string(at), string(bt))
	default:
		return compareStrings(Canon(a), Canon(b))
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
