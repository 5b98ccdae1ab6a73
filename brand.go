package gate

// DefaultLoadingText is used when a brand does not set its own
const DefaultLoadingText = "Loading..."

// Brand is static product metadata shown around the admin area
type Brand struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	LoadingText string `json:"loading_text"`
}

// DefaultBrand returns the brand used when none is configured
func DefaultBrand() Brand {
	return Brand{
		Name:        "Admin",
		Tagline:     "Administration console",
		LoadingText: DefaultLoadingText,
	}
}

// Placeholder builds the loading placeholder for this brand
func (b Brand) Placeholder() Placeholder {
	text := b.LoadingText
	if text == "" {
		text = DefaultLoadingText
	}
	return Placeholder{
		Brand:   b,
		Text:    text,
		Spinner: true,
	}
}

// Title is the document title for gate pages
func (b Brand) Title() string {
	if b.Name == "" {
		return DefaultBrand().Name
	}
	if b.Tagline == "" {
		return b.Name
	}
	return b.Name + " | " + b.Tagline
}
