// Package functions implements the built-in registry that is the second
// of the two callable sources the evaluator consults (§4.5): a read-only,
// lowercased/dash-insensitive map from name to a callable operating
// directly on value.Value, grounded on the teacher's functions/registry.go
// (which built the same kind of name->closure map, but over strings) and
// expression/color.go (HSL math for lighten/darken/saturate/spin),
// reworked to operate on exact-rational value.Color/value.Number so the
// required scenario-table functions (mix, rgb/rgba, invert) produce
// bit-exact results instead of float-rounded ones.
package functions

import (
	"fmt"
	"math"
	"math/big"

	"github.com/titpetric/sassgo/format"
	"github.com/titpetric/sassgo/value"
)

// Builtin is the registry's callable contract from §4.5: call(scope, args)
// -> Result<Value, Error>. Scope-reading built-ins are not needed by this
// registry, but the free function signature keeps call sites uniform with
// the scope-defined function path in package eval.
type Builtin func(args []value.Arg) (value.Value, error)

// CallError is the §7 `BadCall{name, cause}` error kind.
type CallError struct {
	Name  string
	Cause error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("error in function %s: %v", e.Name, e.Cause)
}

func (e *CallError) Unwrap() error { return e.Cause }

var registry map[string]*builtinDef

type builtinDef struct {
	params []string
	fn     Builtin
}

func init() {
	registry = map[string]*builtinDef{
		"rgb":        {params: []string{"red", "green", "blue", "alpha"}, fn: biRGB},
		"rgba":       {params: []string{"red", "green", "blue", "alpha"}, fn: biRGB},
		"red":        {params: []string{"color"}, fn: biChannel(0)},
		"green":      {params: []string{"color"}, fn: biChannel(1)},
		"blue":       {params: []string{"color"}, fn: biChannel(2)},
		"alpha":      {params: []string{"color"}, fn: biAlpha},
		"opacity":    {params: []string{"color"}, fn: biAlpha},
		"mix":        {params: []string{"color1", "color2", "weight"}, fn: biMix},
		"invert":     {params: []string{"color", "weight"}, fn: biInvert},
		"quote":      {params: []string{"string"}, fn: biQuote},
		"unquote":    {params: []string{"string"}, fn: biUnquote},
		"if":         {params: []string{"condition", "if-true", "if-false"}, fn: biIf},
		"unit":       {params: []string{"number"}, fn: biUnit},
		"unitless":   {params: []string{"number"}, fn: biUnitless},
		"type-of":    {params: []string{"value"}, fn: biTypeOf},
		"lighten":    {params: []string{"color", "amount"}, fn: biLighten},
		"darken":     {params: []string{"color", "amount"}, fn: biDarken},
		"saturate":   {params: []string{"color", "amount"}, fn: biSaturate},
		"desaturate": {params: []string{"color", "amount"}, fn: biDesaturate},
		"spin":       {params: []string{"color", "degrees"}, fn: biSpin},
		"grayscale":  {params: []string{"color"}, fn: biGrayscale},
		"greyscale":  {params: []string{"color"}, fn: biGrayscale},
	}
}

// Lookup returns the built-in registered under name, consulted only after
// the evaluator has checked the scope's user-defined functions (§4.5);
// name matching is lowercased and dash-insensitive via value.NormalizeName.
func Lookup(name string) (params []string, fn Builtin, ok bool) {
	def, ok := registry[value.NormalizeName(lower(name))]
	if !ok {
		return nil, nil, false
	}
	return def.params, def.fn, true
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Bind resolves a call's (possibly named) arguments against a builtin's
// declared parameter names, implementing the named-argument contract
// added in §10.3 of the expanded specification: named arguments bind
// first, then remaining positional arguments fill the unbound parameters
// in order.
func Bind(params []string, args []value.Arg) (map[string]value.Value, error) {
	bound := make(map[string]value.Value, len(params))
	used := make(map[string]bool, len(params))
	for _, a := range args {
		if a.Name == "" {
			continue
		}
		name := value.NormalizeName(a.Name)
		bound[name] = a.Value
		used[name] = true
	}
	pos := 0
	for _, a := range args {
		if a.Name != "" {
			continue
		}
		for pos < len(params) && used[params[pos]] {
			pos++
		}
		if pos >= len(params) {
			return nil, fmt.Errorf("too many positional arguments")
		}
		bound[params[pos]] = a.Value
		used[params[pos]] = true
		pos++
	}
	return bound, nil
}

func asNumber(v value.Value) (*value.Number, bool) {
	n, ok := v.(*value.Number)
	return n, ok
}

func asColor(v value.Value) (*value.Color, bool) {
	c, ok := v.(*value.Color)
	return c, ok
}

func biRGB(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"red", "green", "blue", "alpha"}, args)
	if err != nil {
		return nil, err
	}
	r, ok := asNumber(bound["red"])
	if !ok {
		return nil, &value.BadValueError{Expected: "number", Got: bound["red"]}
	}
	g, ok := asNumber(bound["green"])
	if !ok {
		return nil, &value.BadValueError{Expected: "number", Got: bound["green"]}
	}
	b, ok := asNumber(bound["blue"])
	if !ok {
		return nil, &value.BadValueError{Expected: "number", Got: bound["blue"]}
	}
	a := big.NewRat(1, 1)
	if av, ok := bound["alpha"]; ok {
		an, ok := asNumber(av)
		if !ok {
			return nil, &value.BadValueError{Expected: "number", Got: av}
		}
		a = an.Q
	}
	return value.RGBA(r.Q, g.Q, b.Q, a), nil
}

func biChannel(idx int) Builtin {
	return func(args []value.Arg) (value.Value, error) {
		bound, err := Bind([]string{"color"}, args)
		if err != nil {
			return nil, err
		}
		c, ok := asColor(bound["color"])
		if !ok {
			return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
		}
		var channel *big.Rat
		switch idx {
		case 0:
			channel = c.R
		case 1:
			channel = c.G
		default:
			channel = c.B
		}
		return value.ScalarRat(new(big.Rat).Set(channel)), nil
	}
}

func biAlpha(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color"}, args)
	if err != nil {
		return nil, err
	}
	c, ok := asColor(bound["color"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
	}
	return value.ScalarRat(new(big.Rat).Set(c.A)), nil
}

// biMix implements the Sass mix() algorithm (weighted channel and alpha
// blend) entirely in exact rational arithmetic, grounded on the formula
// the teacher's functions/registry.go mix() delegates to expression/
// color.go, but reworked off float64 so scenario G (§8) reproduces
// rgba(64, 0, 191, 0.75) exactly rather than approximately.
func biMix(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color1", "color2", "weight"}, args)
	if err != nil {
		return nil, err
	}
	c1, ok := asColor(bound["color1"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color1"]}
	}
	c2, ok := asColor(bound["color2"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color2"]}
	}
	weight := big.NewRat(50, 1)
	if wv, ok := bound["weight"]; ok {
		wn, ok := asNumber(wv)
		if !ok {
			return nil, &value.BadValueError{Expected: "number", Got: wv}
		}
		weight = wn.Q
	}
	one := big.NewRat(1, 1)
	two := big.NewRat(2, 1)
	hundred := big.NewRat(100, 1)

	p := new(big.Rat).Quo(weight, hundred)              // weight / 100
	w := new(big.Rat).Sub(new(big.Rat).Mul(p, two), one) // p*2 - 1
	a := new(big.Rat).Sub(c1.A, c2.A)                    // alpha1 - alpha2

	wa := new(big.Rat).Mul(w, a)
	var w1 *big.Rat
	if wa.Cmp(big.NewRat(-1, 1)) == 0 {
		w1 = new(big.Rat).Set(w)
	} else {
		w1 = new(big.Rat).Quo(new(big.Rat).Add(w, a), new(big.Rat).Add(one, wa))
	}
	w1 = new(big.Rat).Quo(new(big.Rat).Add(w1, one), two)
	w2 := new(big.Rat).Sub(one, w1)

	blend := func(x, y *big.Rat) *big.Rat {
		return new(big.Rat).Add(new(big.Rat).Mul(x, w1), new(big.Rat).Mul(y, w2))
	}
	r := blend(c1.R, c2.R)
	g := blend(c1.G, c2.G)
	b := blend(c1.B, c2.B)
	alpha := new(big.Rat).Add(
		new(big.Rat).Mul(c1.A, p),
		new(big.Rat).Mul(c2.A, new(big.Rat).Sub(one, p)),
	)
	return value.RGBA(r, g, b, alpha), nil
}

func biInvert(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color", "weight"}, args)
	if err != nil {
		return nil, err
	}
	c, ok := asColor(bound["color"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
	}
	full255 := big.NewRat(255, 1)
	inverted := value.RGBA(
		new(big.Rat).Sub(full255, c.R),
		new(big.Rat).Sub(full255, c.G),
		new(big.Rat).Sub(full255, c.B),
		c.A,
	)
	if wv, ok := bound["weight"]; ok {
		wn, ok := asNumber(wv)
		if !ok {
			return nil, &value.BadValueError{Expected: "number", Got: wv}
		}
		return biMix([]value.Arg{
			{Name: "color1", Value: inverted},
			{Name: "color2", Value: c},
			{Name: "weight", Value: wn},
		})
	}
	return inverted, nil
}

func biQuote(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"string"}, args)
	if err != nil {
		return nil, err
	}
	text := format.String(bound["string"], format.Expanded)
	return value.NewLiteral(text, value.QuoteDouble), nil
}

func biUnquote(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"string"}, args)
	if err != nil {
		return nil, err
	}
	return value.Unquote(bound["string"]), nil
}

func biIf(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"condition", "if-true", "if-false"}, args)
	if err != nil {
		return nil, err
	}
	if value.IsTrue(bound["condition"]) {
		return bound["if-true"], nil
	}
	return bound["if-false"], nil
}

func biUnit(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"number"}, args)
	if err != nil {
		return nil, err
	}
	n, ok := asNumber(bound["number"])
	if !ok {
		return nil, &value.BadValueError{Expected: "number", Got: bound["number"]}
	}
	return value.NewLiteral(string(n.Unit), value.QuoteSingle), nil
}

func biUnitless(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"number"}, args)
	if err != nil {
		return nil, err
	}
	n, ok := asNumber(bound["number"])
	if !ok {
		return nil, &value.BadValueError{Expected: "number", Got: bound["number"]}
	}
	return value.Bool(n.Unit == value.UnitNone), nil
}

func biTypeOf(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"value"}, args)
	if err != nil {
		return nil, err
	}
	return value.NewLiteral(value.TypeOf(bound["value"]), value.QuoteNone), nil
}

// --- HSL-based enrichment built-ins, grounded on the teacher's
// expression/color.go Lighten/Darken/Saturate/Desaturate/Spin, reworked
// to read/write value.Color's rational channels at the float64 boundary
// (HSL adjustment has no natural exact-rational form, unlike mix/invert,
// so this is the one place in the registry that goes through a float
// intermediate; see DESIGN.md).

func colorToFloatRGB(c *value.Color) (r, g, b, a float64) {
	rf, _ := new(big.Float).SetRat(c.R).Float64()
	gf, _ := new(big.Float).SetRat(c.G).Float64()
	bf, _ := new(big.Float).SetRat(c.B).Float64()
	af, _ := new(big.Float).SetRat(c.A).Float64()
	return rf, gf, bf, af
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	r, g, b = r/255, g/255, b/255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	return h, s, l
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l * 255, l * 255, l * 255
	}
	h = h / 360
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRGB(p, q, h+1.0/3) * 255
	g = hueToRGB(p, q, h) * 255
	b = hueToRGB(p, q, h-1.0/3) * 255
	return r, g, b
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func floatColor(r, g, b, a float64) *value.Color {
	return value.RGBA(
		new(big.Rat).SetFloat64(r),
		new(big.Rat).SetFloat64(g),
		new(big.Rat).SetFloat64(b),
		new(big.Rat).SetFloat64(a),
	)
}

func hslAdjust(c *value.Color, adjust func(h, s, l float64) (float64, float64, float64)) *value.Color {
	r, g, b, a := colorToFloatRGB(c)
	h, s, l := rgbToHSL(r, g, b)
	h, s, l = adjust(h, s, l)
	s = clamp01(s)
	l = clamp01(l)
	nr, ng, nb := hslToRGB(h, s, l)
	return floatColor(nr, ng, nb, a)
}

func percentArg(bound map[string]value.Value, key string) (float64, error) {
	n, ok := asNumber(bound[key])
	if !ok {
		return 0, &value.BadValueError{Expected: "number", Got: bound[key]}
	}
	f, _ := new(big.Float).SetRat(n.Q).Float64()
	return f / 100, nil
}

func biLighten(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color", "amount"}, args)
	if err != nil {
		return nil, err
	}
	c, ok := asColor(bound["color"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
	}
	amount, err := percentArg(bound, "amount")
	if err != nil {
		return nil, err
	}
	return hslAdjust(c, func(h, s, l float64) (float64, float64, float64) {
		return h, s, l + amount
	}), nil
}

func biDarken(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color", "amount"}, args)
	if err != nil {
		return nil, err
	}
	c, ok := asColor(bound["color"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
	}
	amount, err := percentArg(bound, "amount")
	if err != nil {
		return nil, err
	}
	return hslAdjust(c, func(h, s, l float64) (float64, float64, float64) {
		return h, s, l - amount
	}), nil
}

func biSaturate(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color", "amount"}, args)
	if err != nil {
		return nil, err
	}
	c, ok := asColor(bound["color"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
	}
	amount, err := percentArg(bound, "amount")
	if err != nil {
		return nil, err
	}
	return hslAdjust(c, func(h, s, l float64) (float64, float64, float64) {
		return h, s + amount, l
	}), nil
}

func biDesaturate(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color", "amount"}, args)
	if err != nil {
		return nil, err
	}
	c, ok := asColor(bound["color"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
	}
	amount, err := percentArg(bound, "amount")
	if err != nil {
		return nil, err
	}
	return hslAdjust(c, func(h, s, l float64) (float64, float64, float64) {
		return h, s - amount, l
	}), nil
}

func biSpin(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color", "degrees"}, args)
	if err != nil {
		return nil, err
	}
	c, ok := asColor(bound["color"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
	}
	n, ok := asNumber(bound["degrees"])
	if !ok {
		return nil, &value.BadValueError{Expected: "number", Got: bound["degrees"]}
	}
	deg, _ := new(big.Float).SetRat(n.Q).Float64()
	return hslAdjust(c, func(h, s, l float64) (float64, float64, float64) {
		h = math.Mod(h+deg, 360)
		if h < 0 {
			h += 360
		}
		return h, s, l
	}), nil
}

func biGrayscale(args []value.Arg) (value.Value, error) {
	bound, err := Bind([]string{"color"}, args)
	if err != nil {
		return nil, err
	}
	c, ok := asColor(bound["color"])
	if !ok {
		return nil, &value.BadValueError{Expected: "color", Got: bound["color"]}
	}
	return hslAdjust(c, func(h, s, l float64) (float64, float64, float64) {
		return h, 0, l
	}), nil
}
