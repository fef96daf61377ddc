package config

import (
	"fmt"
	"sort"
)

// DiffConversion describes the changes between two configurations that affect
// conversion or take effect on reload. Settings bound at start-up (host, port,
// log destination) are reported as requiring a restart.
func DiffConversion(oldCfg, newCfg *Config) []string {
	if oldCfg == nil || newCfg == nil {
		return nil
	}
	var changes []string
	if oldCfg.Conversion.DefaultMaxTokens != newCfg.Conversion.DefaultMaxTokens {
		changes = append(changes, fmt.Sprintf("conversion.default-max-tokens: %d -> %d", oldCfg.Conversion.DefaultMaxTokens, newCfg.Conversion.DefaultMaxTokens))
	}

	keys := make(map[string]struct{})
	for k := range oldCfg.Conversion.DefaultModels {
		keys[k] = struct{}{}
	}
	for k := range newCfg.Conversion.DefaultModels {
		keys[k] = struct{}{}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		before, after := oldCfg.Conversion.DefaultModels[name], newCfg.Conversion.DefaultModels[name]
		if before != after {
			changes = append(changes, fmt.Sprintf("conversion.default-models.%s: %q -> %q", name, before, after))
		}
	}

	if oldCfg.Debug != newCfg.Debug {
		changes = append(changes, fmt.Sprintf("debug: %t -> %t", oldCfg.Debug, newCfg.Debug))
	}
	if oldCfg.RequestLog != newCfg.RequestLog {
		changes = append(changes, fmt.Sprintf("request-log: %t -> %t", oldCfg.RequestLog, newCfg.RequestLog))
	}
	if oldCfg.RequestLogMaxFiles != newCfg.RequestLogMaxFiles {
		changes = append(changes, fmt.Sprintf("request-log-max-files: %d -> %d", oldCfg.RequestLogMaxFiles, newCfg.RequestLogMaxFiles))
	}
	if oldCfg.Host != newCfg.Host || oldCfg.Port != newCfg.Port {
		changes = append(changes, fmt.Sprintf("listen address: %s:%d -> %s:%d (restart required)", oldCfg.Host, oldCfg.Port, newCfg.Host, newCfg.Port))
	}
	return changes
}
