package lint

// Config holds per-invocation overrides applied on top of a RuleSet.
type Config struct {
	// DisabledRules contains rule keys to skip
	DisabledRules map[string]bool

	// OnlyRules, when non-empty, disables every rule not listed
	OnlyRules map[string]bool

	// SeverityOverrides changes the configured severity of rules
	SeverityOverrides map[string]Severity
}

// NewConfig creates an empty configuration that changes nothing.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		OnlyRules:         make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(key string) bool {
	if c == nil {
		return false
	}
	if len(c.OnlyRules) > 0 && !c.OnlyRules[key] {
		return true
	}
	return c.DisabledRules[key]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(key string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[key]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Disable disables a rule by key.
func (c *Config) Disable(key string) *Config {
	c.DisabledRules[key] = true
	return c
}

// Only restricts the run to the given rule key; call repeatedly to add more.
func (c *Config) Only(key string) *Config {
	c.OnlyRules[key] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(key string, severity Severity) *Config {
	c.SeverityOverrides[key] = severity
	return c
}

// Apply returns a copy of rules with the overrides applied. rules is not modified.
func (c *Config) Apply(rules RuleSet) RuleSet {
	out := make(RuleSet, len(rules))
	copy(out, rules)
	if c == nil {
		return out
	}
	for i := range out {
		if c.IsDisabled(out[i].key) {
			out[i].enabled = false
		}
		out[i].severity = c.GetSeverity(out[i].key, out[i].severity)
	}
	return out
}
