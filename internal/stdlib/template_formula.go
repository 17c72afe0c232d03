package stdlib

import (
	"github.com/tongosu/ddonilang/internal/formula"
	"github.com/tongosu/ddonilang/internal/template"
	"github.com/tongosu/ddonilang/internal/value"
)

func asPack(pin string, v value.Value) (*value.Pack, error) {
	p, ok := v.(*value.Pack)
	if !ok {
		return nil, typeMismatch(pin, "차림", v.Kind().String())
	}
	return p, nil
}

func registerTemplateFormula() {
	register("render", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("render", args, 2); err != nil {
			return nil, err
		}
		tpl, ok := args[0].(value.Template)
		if !ok {
			return nil, typeMismatch("render#1", "틀", args[0].Kind().String())
		}
		pack, err := asPack("render#2", args[1])
		if err != nil {
			return nil, err
		}
		s, err := template.Render(tpl, pack)
		if err != nil {
			return nil, err
		}
		return value.Str(s), nil
	})

	register("eval_formula", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArity("eval_formula", args, 2); err != nil {
			return nil, err
		}
		f, ok := args[0].(value.Formula)
		if !ok {
			return nil, typeMismatch("eval_formula#1", "수식", args[0].Kind().String())
		}
		pack, err := asPack("eval_formula#2", args[1])
		if err != nil {
			return nil, err
		}
		return formula.Evaluate(f, pack)
	})

	register("differentiate", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArityRange("differentiate", args, 1, 2); err != nil {
			return nil, err
		}
		f, ok := args[0].(value.Formula)
		if !ok {
			return nil, typeMismatch("differentiate#1", "수식", args[0].Kind().String())
		}
		varName := ""
		if len(args) == 2 {
			s, ok := args[1].(value.Str)
			if !ok {
				return nil, typeMismatch("differentiate#2", "글", args[1].Kind().String())
			}
			varName = string(s)
		}
		out, err := formula.Differentiate(f, varName, 1)
		if err != nil {
			return nil, err
		}
		return out, nil
	})

	register("integrate", func(_ CallCtx, args []value.Value) (value.Value, error) {
		if err := requireArityRange("integrate", args, 1, 3); err != nil {
			return nil, err
		}
		f, ok := args[0].(value.Formula)
		if !ok {
			return nil, typeMismatch("integrate#1", "수식", args[0].Kind().String())
		}
		varName := ""
		if len(args) >= 2 {
			s, ok := args[1].(value.Str)
			if !ok {
				return nil, typeMismatch("integrate#2", "글", args[1].Kind().String())
			}
			varName = string(s)
		}
		includeConst := false
		if len(args) == 3 {
			b, ok := args[2].(value.Bool)
			if !ok {
				return nil, typeMismatch("integrate#3", "참거짓", args[2].Kind().String())
			}
			includeConst = bool(b)
		}
		out, err := formula.Integrate(f, varName, includeConst)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}
