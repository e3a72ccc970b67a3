// Package policy handles veneer.toml render policy configuration.
package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/veneer/vm"
)

// Policy represents a veneer.toml render policy.
type Policy struct {
	URL      URL      `toml:"url"`
	Features Features `toml:"features"`

	// Dir is the directory containing the veneer.toml file (set at load time).
	Dir string `toml:"-"`
}

// URL configures protocol screening for URL-bearing attributes.
type URL struct {
	// AllowedProtocols lists the protocols (with trailing colon) that pass
	// screening; anything else is rewritten with an "unsafe:" prefix.
	// Protocol-relative values always pass.
	AllowedProtocols []string `toml:"allowed-protocols"`
}

// Features switches optional template surfaces on and off.
type Features struct {
	EvalScope bool `toml:"eval-scope"`
	Partials  bool `toml:"partials"`
}

// Default returns the policy used when no veneer.toml is present: common
// web protocols allowed, dynamic surfaces off.
func Default() *Policy {
	return &Policy{
		URL: URL{
			AllowedProtocols: []string{"http:", "https:", "mailto:", "tel:", "data:"},
		},
	}
}

// Load parses a veneer.toml file from the given directory.
func Load(dir string) (*Policy, error) {
	path := filepath.Join(dir, "veneer.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var p Policy
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	p.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if len(p.URL.AllowedProtocols) == 0 {
		p.URL.AllowedProtocols = Default().URL.AllowedProtocols
	}
	for i, proto := range p.URL.AllowedProtocols {
		p.URL.AllowedProtocols[i] = normalizeProtocol(proto)
	}

	return &p, nil
}

// FindAndLoad walks up from startDir to find a veneer.toml file, then loads
// and returns the policy. Returns the default policy if none is found.
func FindAndLoad(startDir string) (*Policy, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "veneer.toml")); err == nil {
			return Load(dir)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot stat %s: %w", filepath.Join(dir, "veneer.toml"), err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Allows reports whether the policy admits a protocol (with or without the
// trailing colon).
func (p *Policy) Allows(protocol string) bool {
	protocol = normalizeProtocol(protocol)
	for _, allowed := range p.URL.AllowedProtocols {
		if allowed == protocol {
			return true
		}
	}
	return false
}

func normalizeProtocol(protocol string) string {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	if protocol != "" && !strings.HasSuffix(protocol, ":") {
		protocol += ":"
	}
	return protocol
}

// ---------------------------------------------------------------------------
// Environment delegate
// ---------------------------------------------------------------------------

// Delegate is a vm.EnvironmentDelegate enforcing a loaded Policy: stock
// iteration and scheme parsing, with protocol admissibility decided by the
// allowlist instead of the VM's built-in deny list.
type Delegate struct {
	vm.DefaultDelegate
	Policy *Policy
}

// NewDelegate creates a delegate enforcing p (the default policy when nil).
func NewDelegate(p *Policy) *Delegate {
	if p == nil {
		p = Default()
	}
	return &Delegate{Policy: p}
}

// AllowsProtocol implements vm.ProtocolPolicy.
func (d *Delegate) AllowsProtocol(protocol string) bool {
	return d.Policy.Allows(protocol)
}
