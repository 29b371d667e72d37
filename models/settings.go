package models

// SettingsID is the fixed _id of the singleton configuration document in
// the "bot_config" collection.
const SettingsID = "bot_config"

type ShortenerConfig struct {
	Enabled bool   `bson:"enabled"`
	APIKey  string `bson:"api_key"`
	APIURL  string `bson:"api_url"`
}

// Settings is the persisted bot configuration. Loaded once at startup;
// every set writes the single changed field back.
type Settings struct {
	ID             string          `bson:"_id"`
	AutoDeleteTime int             `bson:"auto_delete_time"`
	PrefixName     string          `bson:"prefix_name"`
	SudoUsers      []int64         `bson:"sudo_users"`
	RemoveNames    []string        `bson:"remove_names"`
	LinkEnabled    bool            `bson:"link_enabled"`
	Shortener      ShortenerConfig `bson:"shortener"`
}
