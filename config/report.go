package config

// ReportConfig selects where and in which formats the run log is written
// after an offline simulation.
type ReportConfig struct {
	Dir   string `json:"dir"`
	CSV   bool   `json:"csv"`
	JSON  bool   `json:"json"`
	Chart bool   `json:"chart"`
}

// SetDefaults applies sane defaults.
func (c *ReportConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "reports"
	}
	if !c.CSV && !c.JSON && !c.Chart {
		c.CSV = true
	}
}
