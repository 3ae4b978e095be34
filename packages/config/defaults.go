package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Output:     "console",
		OutputFile: "",
		SpecPath:   "",
		Database:   "",
		NoColor:    boolPtr(false),
		Verbose:    boolPtr(false),
		Bail:       boolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.SpecPath == defaults.SpecPath &&
		c.Database == defaults.Database &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetBail() == defaults.GetBail()
}
