package filteroptions

// Config is empty for now; the capability profiles carry all filter policy.
type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}
