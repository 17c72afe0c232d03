package stdlib

import (
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

func registerRanges() {
	register("range", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArityRange("range", args, 2, 3); err != nil {
			return nil, err
		}
		startF, dim, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("range#1", "수", args[0].Kind().String())
		}
		endF, endDim, ok := scalarOf(args[1])
		if !ok {
			return nil, typeMismatch("range#2", "수", args[1].Kind().String())
		}
		if !dim.Equal(endDim) {
			return nil, errMsg("range: 시작과 끝의 단위가 일치해야 합니다")
		}
		stepF := numeric.One
		if len(args) == 3 {
			f, sdim, ok := scalarOf(args[2])
			if !ok {
				return nil, typeMismatch("range#3", "수", args[2].Kind().String())
			}
			if !sdim.Equal(dim) {
				return nil, errMsg("range: step의 단위가 일치해야 합니다")
			}
			stepF = f
		}
		if stepF.IsZero() {
			return nil, errMsg("range: step은 0일 수 없습니다")
		}
		ascending := !stepF.Less(numeric.Zero)
		var out []value.Value
		cur := startF
		for {
			if ascending {
				if !cur.Less(endF) {
					break
				}
			} else {
				if !endF.Less(cur) {
					break
				}
			}
			out = append(out, wrapScalar(cur, dim))
			cur = cur.Add(stepF)
		}
		return value.List{Items: out}, nil
	})

	register("stdrange", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("stdrange", args, 3); err != nil {
			return nil, err
		}
		startF, dim, ok := scalarOf(args[0])
		if !ok {
			return nil, typeMismatch("stdrange#1", "수", args[0].Kind().String())
		}
		endF, endDim, ok := scalarOf(args[1])
		if !ok {
			return nil, typeMismatch("stdrange#2", "수", args[1].Kind().String())
		}
		if !dim.Equal(endDim) {
			return nil, errMsg("stdrange: 시작과 끝의 단위가 일치해야 합니다")
		}
		incN, ok := args[2].(value.Num)
		if !ok {
			return nil, typeMismatch("stdrange#3", "수", args[2].Kind().String())
		}
		includeEnd := incN.V.IntPart() != 0
		var out []value.Value
		cur := startF
		for cur.Less(endF) {
			out = append(out, wrapScalar(cur, dim))
			cur = cur.Add(numeric.One)
		}
		if includeEnd && cur.Equal(endF) {
			out = append(out, wrapScalar(cur, dim))
		}
		return value.List{Items: out}, nil
	})
}
