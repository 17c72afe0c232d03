package stdlib

import (
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

func registerRandom() {
	register("random", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("random", args, 0); err != nil {
			return nil, err
		}
		return value.Num{V: numeric.FromRawI64(ctx.RandomFixed64Raw())}, nil
	})

	register("random_int", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("random_int", args, 2); err != nil {
			return nil, err
		}
		lo, ok := args[0].(value.Num)
		if !ok {
			return nil, typeMismatch("random_int#1", "수", args[0].Kind().String())
		}
		hi, ok := args[1].(value.Num)
		if !ok {
			return nil, typeMismatch("random_int#2", "수", args[1].Kind().String())
		}
		n := ctx.RandomIntRange(lo.V.IntPart(), hi.V.IntPart())
		return value.Num{V: numeric.FromI64(n)}, nil
	})

	register("random_choice", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("random_choice", args, 1); err != nil {
			return nil, err
		}
		l, err := asList("random_choice#1", args[0])
		if err != nil {
			return nil, err
		}
		if len(l.Items) == 0 {
			return nil, errMsg("random_choice: 빈 목록에서 선택할 수 없습니다")
		}
		return l.Items[ctx.RandomIndex(len(l.Items))], nil
	})
}
