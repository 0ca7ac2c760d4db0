package contactcsv

// Profile describes the column layout of a contacts export.
// Adding a new source is just adding a new Profile to the profiles slice.
type Profile struct {
	Name         string
	FirstNameCol string
	LastNameCol  string
	EmailCol     string
	PhoneCol     string
	AddressCol   string
	NotesCol     string
	// Optional columns only our own export carries.
	RoleCol      string
	BuyerTypeCol string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.FirstNameCol, p.LastNameCol, p.EmailCol}
	if p.RoleCol != "" {
		cols = append(cols, p.RoleCol)
	}

	return cols
}

// profiles is tried in order during auto-detection. More specific profiles come first.
var profiles = []Profile{
	{
		Name:         "dealdesk",
		FirstNameCol: "First Name",
		LastNameCol:  "Last Name",
		EmailCol:     "Email",
		PhoneCol:     "Phone",
		AddressCol:   "Address",
		NotesCol:     "Notes",
		RoleCol:      "Role",
		BuyerTypeCol: "Buyer Type",
	},
	{
		Name:         "google",
		FirstNameCol: "Given Name",
		LastNameCol:  "Family Name",
		EmailCol:     "E-mail 1 - Value",
		PhoneCol:     "Phone 1 - Value",
		AddressCol:   "Address 1 - Formatted",
		NotesCol:     "Notes",
	},
	{
		Name:         "outlook",
		FirstNameCol: "First Name",
		LastNameCol:  "Last Name",
		EmailCol:     "E-mail Address",
		PhoneCol:     "Mobile Phone",
		AddressCol:   "Home Street",
		NotesCol:     "Notes",
	},
}
