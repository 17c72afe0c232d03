package stdlib

import (
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

// scalarOf normalizes Num/Unit into a raw Fixed64 plus its dimension,
// matching the cross-type interop rule used throughout the numeric
// built-ins.
func scalarOf(v value.Value) (numeric.Fixed64, numeric.UnitDim, bool) {
	switch t := v.(type) {
	case value.Num:
		return t.V, numeric.Dimensionless, true
	case value.Unit:
		return t.V.Value, t.V.Dim, true
	default:
		return numeric.Fixed64{}, numeric.UnitDim{}, false
	}
}

func wrapScalar(f numeric.Fixed64, dim numeric.UnitDim) value.Value {
	if dim.IsDimensionless() {
		return value.Num{V: f}
	}
	return value.Unit{V: numeric.NewUnitValue(f, dim)}
}

func registerNumeric() {
	register("abs", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("abs", args, 1); err != nil {
			return nil, err
		}
		f, dim, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("abs#1", "수", args[0].Kind().String())
		}
		return wrapScalar(f.Abs(), dim), nil
	})

	register("min", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("min", args, 2); err != nil {
			return nil, err
		}
		fa, da, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("min#1", "수", args[0].Kind().String())
		}
		fb, db, ok := scalarOf(args[1])
		if !ok {
			return nil, typeMismatch("min#2", "수", args[1].Kind().String())
		}
		if !da.Equal(db) {
			return nil, &numeric.ErrUnitMismatch{Left: da, Right: db}
		}
		if fa.Less(fb) {
			return wrapScalar(fa, da), nil
		}
		return wrapScalar(fb, db), nil
	})

	register("max", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("max", args, 2); err != nil {
			return nil, err
		}
		fa, da, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("max#1", "수", args[0].Kind().String())
		}
		fb, db, ok := scalarOf(args[1])
		if !ok {
			return nil, typeMismatch("max#2", "수", args[1].Kind().String())
		}
		if !da.Equal(db) {
			return nil, &numeric.ErrUnitMismatch{Left: da, Right: db}
		}
		if fa.Less(fb) {
			return wrapScalar(fb, db), nil
		}
		return wrapScalar(fa, da), nil
	})

	register("clamp", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("clamp", args, 3); err != nil {
			return nil, err
		}
		fv, dv, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("clamp#1", "수", args[0].Kind().String())
		}
		flo, dlo, ok := scalarOf(args[1])
		if !ok {
			return nil, typeMismatch("clamp#2", "수", args[1].Kind().String())
		}
		fhi, dhi, ok := scalarOf(args[2])
		if !ok {
			return nil, typeMismatch("clamp#3", "수", args[2].Kind().String())
		}
		if !dv.Equal(dlo) {
			return nil, &numeric.ErrUnitMismatch{Left: dv, Right: dlo}
		}
		if !dv.Equal(dhi) {
			return nil, &numeric.ErrUnitMismatch{Left: dv, Right: dhi}
		}
		if fv.Less(flo) {
			return wrapScalar(flo, dv), nil
		}
		if fhi.Less(fv) {
			return wrapScalar(fhi, dv), nil
		}
		return wrapScalar(fv, dv), nil
	})

	register("sqrt", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("sqrt", args, 1); err != nil {
			return nil, err
		}
		f, dim, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("sqrt#1", "수", args[0].Kind().String())
		}
		root, err := f.Sqrt()
		if err != nil {
			return nil, err
		}
		rd, okDim := dim.Sqrt()
		if !okDim {
			return nil, errMsg("sqrt: 차원의 모든 지수가 짝수여야 합니다")
		}
		return wrapScalar(root, rd), nil
	})

	register("powi", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("powi", args, 2); err != nil {
			return nil, err
		}
		f, dim, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("powi#1", "수", args[0].Kind().String())
		}
		n, ok := args[1].(value.Num)
		if !ok {
			return nil, typeMismatch("powi#2", "수", args[1].Kind().String())
		}
		exp := n.V.IntPart()
		result, err := f.Powi(exp)
		if err != nil {
			return nil, err
		}
		return wrapScalar(result, dim.Scale(int32(exp))), nil
	})
}
