package stdlib

import (
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

func registerAggregation() {
	register("sum", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("sum", args, 1); err != nil {
			return nil, err
		}
		l, err := asList("sum#1", args[0])
		if err != nil {
			return nil, err
		}
		if len(l.Items) == 0 {
			return value.Num{}, nil
		}
		acc, dim, ok := scalarOf(l.Items[0])
		if !ok {
			return nil, typeMismatch("sum#1[0]", "수", l.Items[0].Kind().String())
		}
		for i := 1; i < len(l.Items); i++ {
			f, d, ok := scalarOf(l.Items[i])
			if !ok {
				return nil, typeMismatch("sum#1[]", "수", l.Items[i].Kind().String())
			}
			if !d.Equal(dim) {
				return nil, errMsg("sum: 목록의 단위가 일치해야 합니다")
			}
			acc = acc.Add(f)
		}
		return wrapScalar(acc, dim), nil
	})

	register("mean", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("mean", args, 1); err != nil {
			return nil, err
		}
		l, err := asList("mean#1", args[0])
		if err != nil {
			return nil, err
		}
		if len(l.Items) == 0 {
			return nil, errMsg("mean: 빈 목록의 평균을 계산할 수 없습니다")
		}
		acc, dim, ok := scalarOf(l.Items[0])
		if !ok {
			return nil, typeMismatch("mean#1[0]", "수", l.Items[0].Kind().String())
		}
		for i := 1; i < len(l.Items); i++ {
			f, d, ok := scalarOf(l.Items[i])
			if !ok {
				return nil, typeMismatch("mean#1[]", "수", l.Items[i].Kind().String())
			}
			if !d.Equal(dim) {
				return nil, errMsg("mean: 목록의 단위가 일치해야 합니다")
			}
			acc = acc.Add(f)
		}
		count := numeric.FromI64(int64(len(l.Items)))
		result, derr := acc.Div(count)
		if derr != nil {
			return nil, derr
		}
		return wrapScalar(result, dim), nil
	})
}
