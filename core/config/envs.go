package config

const (
	DefaultAPIBaseURL = "https://api.cdp.coinbase.com/platform"
	DefaultNetwork    = "base"
)
