package stdlib

import "github.com/tongosu/ddonilang/internal/value"

func registerInput() {
	register("is_pressed", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("is_pressed", args, 1); err != nil {
			return nil, err
		}
		key, err := asStr("is_pressed#1", args[0])
		if err != nil {
			return nil, err
		}
		return value.Bool(ctx.IsPressed(key)), nil
	})

	register("just_pressed", func(ctx CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("just_pressed", args, 1); err != nil {
			return nil, err
		}
		key, err := asStr("just_pressed#1", args[0])
		if err != nil {
			return nil, err
		}
		return value.Bool(ctx.JustPressed(key)), nil
	})
}
