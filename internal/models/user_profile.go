package models

// UserProfile is a row of user_profiles. CurrencyPreference is NULL until the user
// (or an administrator) picks one.
type UserProfile struct {
	UserID             string  `json:"userId" db:"user_id"`
	CurrencyPreference *string `json:"currencyPreference" db:"currency_preference"`
	ChangeFields
}

// CurrencyPreferenceChanged is the payload published on the preference channel.
type CurrencyPreferenceChanged struct {
	UserID             string `json:"userId"`
	CurrencyPreference string `json:"currencyPreference"`
	ChangeFields
}
