package domain

// SettingActiveProvider holds the id of the provider used for generation.
const SettingActiveProvider = "active_provider_id"
