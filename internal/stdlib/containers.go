package stdlib

import "github.com/tongosu/ddonilang/internal/value"

func registerContainers() {
	register("list", func(_ CallCtx, args []value.Value) (value.Value, error) {
		items := make([]value.Value, len(args))
		copy(items, args)
		return value.List{Items: items}, nil
	})
	register("set", func(_ CallCtx, args []value.Value) (value.Value, error) {
		return value.NewSet(args), nil
	})
	register("map", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if len(args)%2 != 0 {
			return nil, errMsg("map: 짝수 개의 키/값 인자가 필요합니다")
		}
		return value.NewMap(args), nil
	})

	register("list_get", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("list_get", args, 2); err != nil {
			return nil, err
		}
		l, ok := args[0].(value.List)
		if !ok {
			return nil, typeMismatch("list_get#1", "목록", args[0].Kind().String())
		}
		idx, ok := args[1].(value.Num)
		if !ok {
			return nil, typeMismatch("list_get#2", "수", args[1].Kind().String())
		}
		i := idx.V.IntPart()
		if i < 0 || i >= int64(len(l.Items)) {
			return nil, errMsg("list_get: 색인 범위를 벗어났습니다")
		}
		return l.Items[i], nil
	})

	register("list_set", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("list_set", args, 3); err != nil {
			return nil, err
		}
		l, ok := args[0].(value.List)
		if !ok {
			return nil, typeMismatch("list_set#1", "목록", args[0].Kind().String())
		}
		idx, ok := args[1].(value.Num)
		if !ok {
			return nil, typeMismatch("list_set#2", "수", args[1].Kind().String())
		}
		i := idx.V.IntPart()
		if i < 0 || i >= int64(len(l.Items)) {
			return nil, errMsg("list_set: 색인 범위를 벗어났습니다")
		}
		out := make([]value.Value, len(l.Items))
		copy(out, l.Items)
		out[i] = args[2]
		return value.List{Items: out}, nil
	})

	register("map_get", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("map_get", args, 2); err != nil {
			return nil, err
		}
		m, ok := args[0].(value.Map)
		if !ok {
			return nil, typeMismatch("map_get#1", "맵", args[0].Kind().String())
		}
		v, ok := m.Get(args[1])
		if !ok {
			return nil, errMsg("MAP_KEY_MISSING:%s", value.Canon(args[1]))
		}
		return v, nil
	})

	register("map_set", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("map_set", args, 3); err != nil {
			return nil, err
		}
		m, ok := args[0].(value.Map)
		if !ok {
			return nil, typeMismatch("map_set#1", "맵", args[0].Kind().String())
		}
		m.Set(args[1], args[2])
		return m, nil
	})

	register("pack_keys", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("pack_keys", args, 1); err != nil {
			return nil, err
		}
		p, ok := args[0].(*value.Pack)
		if !ok {
			return nil, typeMismatch("pack_keys#1", "차림", args[0].Kind().String())
		}
		names := p.FieldNames()
		items := make([]value.Value, len(names))
		for i, n := range names {
			items[i] = value.Str(n)
		}
		return value.List{Items: items}, nil
	})

	register("pack_values", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("pack_values", args, 1); err != nil {
			return nil, err
		}
		p, ok := args[0].(*value.Pack)
		if !ok {
			return nil, typeMismatch("pack_values#1", "차림", args[0].Kind().String())
		}
		names := p.FieldNames()
		items := make([]value.Value, len(names))
		for i, n := range names {
			fv, _ := p.Get(n)
			items[i] = fv
		}
		return value.List{Items: items}, nil
	})

	register("pack_pairs", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("pack_pairs", args, 1); err != nil {
			return nil, err
		}
		p, ok := args[0].(*value.Pack)
		if !ok {
			return nil, typeMismatch("pack_pairs#1", "차림", args[0].Kind().String())
		}
		names := p.FieldNames()
		items := make([]value.Value, len(names))
		for i, n := range names {
			fv, _ := p.Get(n)
			items[i] = value.List{Items: []value.Value{value.Str(n), fv}}
		}
		return value.List{Items: items}, nil
	})
}
