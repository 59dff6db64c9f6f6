package models

// ModelID identifies an entry of the model registry.
type ModelID string

const Gemini ModelID = "gemini"

// ModelInfo describes a selectable model.
type ModelInfo struct {
	ID       ModelID
	Name     string
	APIModel string // provider-side model name
}

// DefaultGeminiModel is used when the config does not name one.
const DefaultGeminiModel = "gemini-2.5-flash"

// Registry is the static list of selectable models.
var Registry = []ModelInfo{
	{ID: Gemini, Name: "Gemini", APIModel: DefaultGeminiModel},
}

// LookupModel returns the registry entry for id.
func LookupModel(id ModelID) (ModelInfo, bool) {
	for _, m := range Registry {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// ModelNames returns the display names in registry order.
func ModelNames() []string {
	names := make([]string, len(Registry))
	for i, m := range Registry {
		names[i] = m.Name
	}
	return names
}
