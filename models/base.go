package models

// StatusType is the shared enabled/disabled flag stored as a single char.
type StatusType string

const (
	StatusEnable  StatusType = "1"
	StatusDisable StatusType = "2"
)

// Enabled reports whether the status allows the record to be used.
func (s StatusType) Enabled() bool { return s == StatusEnable }

// GenderType of a user profile.
type GenderType string

const (
	GenderMale    GenderType = "1"
	GenderFemale  GenderType = "2"
	GenderUnknown GenderType = "3"
)

// MenuType distinguishes catalogs (grouping nodes) from routable menus.
type MenuType string

const (
	MenuCatalog MenuType = "1"
	MenuMenu    MenuType = "2"
)

// IconType of a menu icon reference.
type IconType string

const (
	IconIconify IconType = "1"
	IconLocal   IconType = "2"
)
