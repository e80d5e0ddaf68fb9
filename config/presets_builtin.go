package config

// BuiltinPresets returns the small set of presets shipped with Sparv
// itself (spec.md section 4.2's "SWE_DEFAULT.saldo" example).
// pipeline.Load and `sparv presets` expand against this set alone:
// preset files under sparvdir.PresetsDir are not read by any caller.
func BuiltinPresets() PresetSet {
	return PresetSet{
		"SWE_DEFAULT.saldo": {
			Entries: []string{
				"<token>:saldo.baseform",
				"<token>:saldo.lemgram",
				"<token>:saldo.compwf",
				"<token>:saldo.sense",
			},
			ClassBindings: map[string]string{
				"token": "segment.token",
			},
		},
		"SWE_DEFAULT.sentence": {
			Entries: []string{
				"<sentence>",
			},
			ClassBindings: map[string]string{
				"sentence": "segment.sentence",
			},
		},
	}
}
