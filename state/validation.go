package state

import (
	"fmt"
	"regexp"
	"slices"
)

var namePattern, _ = regexp.Compile("^[0-9a-z._-]+$")

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func PrefixValidator(r RouterCfg) error {
	for _, pfx := range r.Prefixes {
		if !pfx.IsValid() {
			return fmt.Errorf("router %s: invalid prefix %s", r.Id, pfx)
		}
		if pfx.Bits() != PrefixLen {
			return fmt.Errorf("router %s: prefix %s: only /%d prefixes are supported", r.Id, pfx, PrefixLen)
		}
		if pfx.Masked() != pfx {
			return fmt.Errorf("router %s: prefix %s has host bits set", r.Id, pfx)
		}
	}
	return nil
}

func SimConfigValidator(cfg *SimCfg) error {
	if len(cfg.Routers) == 0 {
		return fmt.Errorf("config declares no routers")
	}
	seen := make([]RouterId, 0, len(cfg.Routers))
	for _, r := range cfg.Routers {
		err := NameValidator(string(r.Id))
		if err != nil {
			return err
		}
		if slices.Contains(seen, r.Id) {
			return fmt.Errorf("duplicate router id: %s", r.Id)
		}
		seen = append(seen, r.Id)
		err = PrefixValidator(r)
		if err != nil {
			return err
		}
	}

	ids := make([]string, 0, len(seen))
	for _, id := range seen {
		ids = append(ids, string(id))
	}
	_, err := ParseGraph(cfg.Graph, ids)
	if err != nil {
		return err
	}

	for _, id := range cfg.Advertise {
		if cfg.GetRouter(id) == nil {
			return fmt.Errorf("advertise schedule names unknown router %s", id)
		}
	}
	if cfg.Passes < 0 {
		return fmt.Errorf("passes must not be negative")
	}

	for _, p := range cfg.Packets {
		if !p.Source.IsValid() {
			return fmt.Errorf("packet has invalid source address")
		}
		if !p.Dest.IsValid() {
			return fmt.Errorf("packet has invalid destination address")
		}
		if cfg.GetRouter(p.Inject) == nil {
			return fmt.Errorf("packet injected at unknown router %s", p.Inject)
		}
	}
	return nil
}
