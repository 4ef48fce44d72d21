package domain

type ContactInfo struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Settings is the singleton shop configuration row.
type Settings struct {
	ContactInfo  ContactInfo       `json:"contact_info"`
	OpeningHours map[string]string `json:"opening_hours"`
}
