package zabbix

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is a named connection target. Profiles name the server; the
// credentials stay per-request inputs.
type Profile struct {
	URL                string        `yaml:"url"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Timeout            time.Duration `yaml:"timeout"`
}

// Profiles maps profile names to connection targets.
type Profiles map[string]Profile

type profilesFile struct {
	Profiles Profiles `yaml:"profiles"`
}

// LoadProfiles reads connection profiles from a yaml file. An empty path
// yields an empty profile set. ZABBIX_DEFAULT_URL seeds a "default" profile
// when the file does not define one.
func LoadProfiles(path string) (Profiles, error) {
	var file profilesFile
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("zabbix: profiles %s: %w", path, err)
		}
	}
	if file.Profiles == nil {
		file.Profiles = Profiles{}
	}
	if url := os.Getenv("ZABBIX_DEFAULT_URL"); url != "" {
		if _, ok := file.Profiles["default"]; !ok {
			file.Profiles["default"] = Profile{URL: url}
		}
	}
	for name, profile := range file.Profiles {
		if profile.URL == "" {
			return nil, fmt.Errorf("zabbix: profile %q: url is required", name)
		}
	}
	return file.Profiles, nil
}

// Names lists profile names in stable order.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewClient builds a client from the profile's settings.
func (p Profile) NewClient(opts ...Option) (*Client, error) {
	base := []Option{
		WithTimeout(p.Timeout),
		WithInsecureSkipVerify(p.InsecureSkipVerify),
	}
	return NewClient(p.URL, append(base, opts...)...)
}
