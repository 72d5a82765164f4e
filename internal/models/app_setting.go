package models

import "encoding/json"

// SupportedCurrenciesSettingKey is the app_settings row holding the supported-currency list.
const SupportedCurrenciesSettingKey = "supported_currencies"

// AppSetting is a row of app_settings. Value is stored as jsonb.
type AppSetting struct {
	Key   string          `json:"settingKey" db:"setting_key"`
	Value json.RawMessage `json:"settingValue" db:"setting_value"`
	ChangeFields
}

// SupportedCurrenciesChanged is the payload published on the supported-currency channel.
type SupportedCurrenciesChanged struct {
	SettingValue []string `json:"settingValue"`
	ChangeFields
}
