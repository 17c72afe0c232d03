package stdlib

import (
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

// registerArithmetic installs the built-ins a parser's operator alias
// table dispatches infix/prefix syntax onto (spec §4.3: "canonicalize
// the function name via a documented alias table"). Dimensioned
// operands follow the §4.1 add/sub/mul/div dimension algebra.
func registerArithmetic() {
	register("add", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("add", args, 2); err != nil {
			return nil, err
		}
		return dimBinOp("add", args[0], args[1], func(a, b numeric.Fixed64) (numeric.Fixed64, error) {
			return a.Add(b), nil
		}, func(d1, d2 numeric.UnitDim) (numeric.UnitDim, error) {
			if !d1.Equal(d2) {
				return numeric.UnitDim{}, &numeric.ErrUnitMismatch{Left: d1, Right: d2}
			}
			return d1, nil
		})
	})

	register("sub", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("sub", args, 2); err != nil {
			return nil, err
		}
		return dimBinOp("sub", args[0], args[1], func(a, b numeric.Fixed64) (numeric.Fixed64, error) {
			return a.Sub(b), nil
		}, func(d1, d2 numeric.UnitDim) (numeric.UnitDim, error) {
			if !d1.Equal(d2) {
				return numeric.UnitDim{}, &numeric.ErrUnitMismatch{Left: d1, Right: d2}
			}
			return d1, nil
		})
	})

	register("mul", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("mul", args, 2); err != nil {
			return nil, err
		}
		return dimBinOp("mul", args[0], args[1], func(a, b numeric.Fixed64) (numeric.Fixed64, error) {
			return a.Mul(b), nil
		}, func(d1, d2 numeric.UnitDim) (numeric.UnitDim, error) {
			return d1.Add(d2), nil
		})
	})

	register("div", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("div", args, 2); err != nil {
			return nil, err
		}
		return dimBinOp("div", args[0], args[1], func(a, b numeric.Fixed64) (numeric.Fixed64, error) {
			return a.Div(b)
		}, func(d1, d2 numeric.UnitDim) (numeric.UnitDim, error) {
			return d1.Sub(d2), nil
		})
	})

	register("mod", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("mod", args, 2); err != nil {
			return nil, err
		}
		return dimBinOp("mod", args[0], args[1], func(a, b numeric.Fixed64) (numeric.Fixed64, error) {
			return a.Mod(b)
		}, func(d1, d2 numeric.UnitDim) (numeric.UnitDim, error) {
			if !d1.Equal(d2) {
				return numeric.UnitDim{}, &numeric.ErrUnitMismatch{Left: d1, Right: d2}
			}
			return d1, nil
		})
	})

	register("neg", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("neg", args, 1); err != nil {
			return nil, err
		}
		f, dim, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("neg#1", "수", args[0].Kind().String())
		}
		return wrapScalar(f.Neg(), dim), nil
	})

	register("eq", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("eq", args, 2); err != nil {
			return nil, err
		}
		return value.Bool(value.Equal(args[0], args[1])), nil
	})

	register("neq", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("neq", args, 2); err != nil {
			return nil, err
		}
		return value.Bool(!value.Equal(args[0], args[1])), nil
	})

	register("lt", func(_ CallCtx, args []value.Value) (value.Value, error) { return cmpOp("lt", args, func(c int) bool { return c < 0 }) })
	register("lte", func(_ CallCtx, args []value.Value) (value.Value, error) {
		return cmpOp("lte", args, func(c int) bool { return c <= 0 })
	})
	register("gt", func(_ CallCtx, args []value.Value) (value.Value, error) { return cmpOp("gt", args, func(c int) bool { return c > 0 }) })
	register("gte", func(_ CallCtx, args []value.Value) (value.Value, error) {
		return cmpOp("gte", args, func(c int) bool { return c >= 0 })
	})
}

func cmpOp(name string, args []value.Value, ok func(int) bool) (value.Value, error) {
	if err := requireArity(name, args, 2); err != nil {
		return nil, err
	}
	fa, da, isScalarA := scalarOf(args[0])
	fb, db, isScalarB := scalarOf(args[1])
	if !isScalarA || !isScalarB {
		return value.Bool(ok(value.Cmp(args[0], args[1]))), nil
	}
	if !da.Equal(db) {
		return nil, &numeric.ErrUnitMismatch{Left: da, Right: db}
	}
	return value.Bool(ok(fa.Cmp(fb))), nil
}

// dimBinOp applies a scalar op to both operands' Fixed64 payloads after
// resolving their result dimension, rewrapping as Unit only when the
// result is dimensioned (spec §3: a dimensionless Unit interops with
// bare Fixed64).
func dimBinOp(name string, a, b value.Value, op func(x, y numeric.Fixed64) (numeric.Fixed64, error), dimOp func(d1, d2 numeric.UnitDim) (numeric.UnitDim, error)) (value.Value, error) {
	fa, da, ok := scalarOf(a)
	if !ok {
		return nil, typeMismatch(name+"#1", "수", a.Kind().String())
	}
	fb, db, ok := scalarOf(b)
	if !ok {
		return nil, typeMismatch(name+"#2", "수", b.Kind().String())
	}
	rd, err := dimOp(da, db)
	if err != nil {
		return nil, err
	}
	rf, err := op(fa, fb)
	if err != nil {
		return nil, err
	}
	return wrapScalar(rf, rd), nil
}
