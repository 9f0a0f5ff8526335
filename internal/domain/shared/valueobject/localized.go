package valueobject

import "strings"

// LocalizedText is a label carried in English and Arabic
type LocalizedText struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// NewLocalizedText trims both variants
func NewLocalizedText(en, ar string) LocalizedText {
	return LocalizedText{En: strings.TrimSpace(en), Ar: strings.TrimSpace(ar)}
}

// IsComplete reports whether both languages are present
func (t LocalizedText) IsComplete() bool {
	return strings.TrimSpace(t.En) != "" && strings.TrimSpace(t.Ar) != ""
}

// IsEmpty reports whether neither language is present
func (t LocalizedText) IsEmpty() bool {
	return strings.TrimSpace(t.En) == "" && strings.TrimSpace(t.Ar) == ""
}
