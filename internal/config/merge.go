package config

// DeepMerge merges override into base and returns a new map. When a key
// holds a map in both inputs the maps merge recursively; every other
// value, slices included, is replaced wholesale by the override. Neither
// input is modified.
func DeepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		if baseMap, ok := out[key].(map[string]any); ok {
			if overrideMap, ok := value.(map[string]any); ok {
				out[key] = DeepMerge(baseMap, overrideMap)
				continue
			}
		}
		out[key] = value
	}
	return out
}
