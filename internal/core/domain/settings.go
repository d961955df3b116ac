package domain

// Branding holds the storefront's presentation settings.
type Branding struct {
	LogoURL        string `json:"logoUrl"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
	CustomHTML     string `json:"customHtml"`
}

// DefaultBranding is used until an admin saves settings.
func DefaultBranding() Branding {
	return Branding{
		PrimaryColor:   "#FF5733",
		SecondaryColor: "#00AACC",
		FontFamily:     "Roboto",
	}
}

// Merge overwrites fields that are non-empty in patch.
func (b Branding) Merge(patch Branding) Branding {
	if patch.LogoURL != "" {
		b.LogoURL = patch.LogoURL
	}
	if patch.PrimaryColor != "" {
		b.PrimaryColor = patch.PrimaryColor
	}
	if patch.SecondaryColor != "" {
		b.SecondaryColor = patch.SecondaryColor
	}
	if patch.FontFamily != "" {
		b.FontFamily = patch.FontFamily
	}
	if patch.CustomHTML != "" {
		b.CustomHTML = patch.CustomHTML
	}
	return b
}

// DashboardStats is the admin console summary.
type DashboardStats struct {
	TotalProducts  int64                 `json:"totalProducts"`
	TotalCustomers int64                 `json:"totalCustomers"`
	OrdersByStatus map[OrderStatus]int64 `json:"ordersByStatus"`
}
