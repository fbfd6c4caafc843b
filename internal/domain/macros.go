package domain

// MacroVocabulary is the immutable set of macro-nutrient keys a macro map may contain.
// Pass it to whatever needs to validate macro maps instead of consulting a global.
type MacroVocabulary struct {
	keys map[string]struct{}
}

// NewMacroVocabulary builds a vocabulary from the given keys.
func NewMacroVocabulary(keys ...string) MacroVocabulary {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return MacroVocabulary{keys: set}
}

// DefaultMacroVocabulary is the vocabulary used by the catalog and logging paths.
func DefaultMacroVocabulary() MacroVocabulary {
	return NewMacroVocabulary(
		MacroCarbohydrates,
		MacroProtein,
		MacroFat,
		"saturated_fat_g",
		"sugar_g",
		"fiber_g",
		"sodium_mg",
		"cholesterol_mg",
		"potassium_mg",
	)
}

// Allows reports whether key belongs to the vocabulary.
func (v MacroVocabulary) Allows(key string) bool {
	_, ok := v.keys[key]
	return ok
}

// Validate reports whether macros is a mapping holding only vocabulary keys with numeric
// values >= 0. Anything that is not a mapping is invalid.
func (v MacroVocabulary) Validate(macros interface{}) bool {
	m, ok := MacroMap(macros)
	if !ok {
		return false
	}
	for k, val := range m {
		if !v.Allows(k) || val < 0 {
			return false
		}
	}
	return true
}
