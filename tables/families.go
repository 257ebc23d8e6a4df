package tables

// CharaFamilies are the families whose indices attach to one character.
// CFLAG is also on the global list; the game keeps a per-character and a
// global flag table under the same name.
var CharaFamilies = map[string]bool{
	"ABL":      true,
	"BASE":     true,
	"CFLAG":    true,
	"EX":       true,
	"EXP":      true,
	"JUEL":     true,
	"MARK":     true,
	"SOURCE":   true,
	"STAIN":    true,
	"TALENT":   true,
	"CSTR":     true,
	"EQUIP":    true,
	"PALAM":    true,
	"UP":       true,
	"DOWN":     true,
	"UPBASE":   true,
	"DOWNBASE": true,
	"NOWEX":    true,
	"TCVAR":    true,
}

// GlobalFamilies are the families scoped to the whole run state rather
// than one character.
var GlobalFamilies = map[string]bool{
	"STR":    true,
	"FLAG":   true,
	"CFLAG":  true,
	"TFLAG":  true,
	"TEQUIP": true,
}

// IsChara reports whether name is a per-character family.
func IsChara(name string) bool { return CharaFamilies[name] }

// IsGlobal reports whether name is a global-state family.
func IsGlobal(name string) bool { return GlobalFamilies[name] }
