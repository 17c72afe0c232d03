package eval

// keyRegistry is the fixed ordered list of up to 64 key names the
// keys_pressed bitmask is indexed against (spec §4.6: "the registry is
// a deterministic ordered list"; the exact table is an Open Question
// this expansion resolves — see DESIGN.md). Index 0 is bit 0 of the
// bitmask, and so on.
var keyRegistry = []string{
	"위", "아래", "왼쪽", "오른쪽",
	"확인", "취소", "시작", "선택",
	"공격", "방어", "점프", "상호작용",
	"단축1", "단축2", "단축3", "단축4",
}

var keyIndex = func() map[string]int {
	m := make(map[string]int, len(keyRegistry))
	for i, k := range keyRegistry {
		m[k] = i
	}
	return m
}()

// keyBit returns the bitmask position for a key name, or -1 if the
// name is not in the registry.
func keyBit(name string) int {
	i, ok := keyIndex[name]
	if !ok {
		return -1
	}
	return i
}

// IsPressed reports whether key is set in the current bitmask.
func (c *Context) IsPressed(key string) bool {
	b := keyBit(key)
	if b < 0 {
		return false
	}
	return c.Input.Current&(uint64(1)<<uint(b)) != 0
}

// JustPressed reports current-bit-set-and-previous-bit-clear.
func (c *Context) JustPressed(key string) bool {
	b := keyBit(key)
	if b < 0 {
		return false
	}
	bit := uint64(1) << uint(b)
	return c.Input.Current&bit != 0 && c.Input.Previous&bit == 0
}
