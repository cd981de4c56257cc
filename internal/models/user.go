package models

// UserView is the identity panel projection. It only lives in the view and
// is recomputed on every refresh.
type UserView struct {
	SignedIn    bool
	UserID      *string
	DisplayName *string
}

// UserIDText returns the user id or "null".
func (u UserView) UserIDText() string {
	if u.UserID == nil || *u.UserID == "" {
		return "null"
	}
	return *u.UserID
}

// DisplayNameText returns the display name or "null".
func (u UserView) DisplayNameText() string {
	if u.DisplayName == nil || *u.DisplayName == "" {
		return "null"
	}
	return *u.DisplayName
}

// SignedInText returns "yes" or "no".
func (u UserView) SignedInText() string {
	if u.SignedIn {
		return "yes"
	}
	return "no"
}

// Indicator is the state of the connectivity dot.
type Indicator int

// Indicator states.
const (
	IndicatorPending Indicator = iota
	IndicatorOK
	IndicatorError
)

// Status is the connectivity indicator plus its caption.
type Status struct {
	Indicator Indicator
	Text      string
}
