package model

import (
	"fmt"
	"sort"
)

// Target config files are edited by humans and by other tools, so nothing
// about their shape can be trusted at read time. The decoders here walk raw
// unmarshaled JSON and report every shape violation as a field-level
// problem string instead of failing on the first, which is what the
// validation surface of the engine reports to users.

// DecodeDefinition converts one raw entry value into a ServerDefinition.
// Fields with the wrong type are dropped and reported; decoding is
// best-effort, so the returned definition is usable whenever the command
// field is a non-empty string.
func DecodeDefinition(name string, raw any) (ServerDefinition, []string) {
	var def ServerDefinition
	var problems []string

	obj, ok := raw.(map[string]any)
	if !ok {
		return def, []string{fmt.Sprintf("entry %q: expected an object, got %T", name, raw)}
	}

	if rawCmd, present := obj["command"]; present {
		if cmd, ok := rawCmd.(string); ok && cmd != "" {
			def.Command = cmd
		} else {
			problems = append(problems, fmt.Sprintf("entry %q: command must be a non-empty string", name))
		}
	} else {
		problems = append(problems, fmt.Sprintf("entry %q: command is required", name))
	}

	if rawArgs, present := obj["args"]; present {
		list, ok := rawArgs.([]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("entry %q: args must be an array of strings", name))
		} else {
			args := make([]string, 0, len(list))
			for i, item := range list {
				s, ok := item.(string)
				if !ok {
					problems = append(problems, fmt.Sprintf("entry %q: args[%d] must be a string", name, i))
					continue
				}
				args = append(args, s)
			}
			if len(args) > 0 {
				def.Args = args
			}
		}
	}

	if rawEnv, present := obj["env"]; present {
		envObj, ok := rawEnv.(map[string]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("entry %q: env must be an object with string values", name))
		} else {
			env := make(map[string]string, len(envObj))
			keys := make([]string, 0, len(envObj))
			for k := range envObj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				s, ok := envObj[k].(string)
				if !ok {
					problems = append(problems, fmt.Sprintf("entry %q: env[%q] must be a string", name, k))
					continue
				}
				env[k] = s
			}
			if len(env) > 0 {
				def.Env = env
			}
		}
	}

	if rawCwd, present := obj["cwd"]; present {
		if cwd, ok := rawCwd.(string); ok {
			def.Cwd = cwd
		} else {
			problems = append(problems, fmt.Sprintf("entry %q: cwd must be a string", name))
		}
	}

	if rawEnabled, present := obj["enabled"]; present {
		if enabled, ok := rawEnabled.(bool); ok {
			def.Enabled = &enabled
		} else {
			problems = append(problems, fmt.Sprintf("entry %q: enabled must be a boolean", name))
		}
	}

	return def, problems
}

// DecodeTargetConfig extracts the entry mapping stored under field from a
// raw document. A document without the field decodes to an empty config.
// All entry problems are collected; the caller decides whether they are
// fatal (strict adapter reads) or recoverable (merge-read salvage).
func DecodeTargetConfig(doc map[string]any, field string) (TargetConfig, []string) {
	cfg := make(TargetConfig)

	rawField, present := doc[field]
	if !present || rawField == nil {
		return cfg, nil
	}

	mapping, ok := rawField.(map[string]any)
	if !ok {
		return cfg, []string{fmt.Sprintf("field %q: expected an object mapping entry names to definitions, got %T", field, rawField)}
	}

	var problems []string
	for _, name := range sortedKeys(mapping) {
		def, entryProblems := DecodeDefinition(name, mapping[name])
		problems = append(problems, entryProblems...)
		cfg[name] = def
	}
	return cfg, problems
}

// SalvageTargetConfig recovers whatever usable entries a damaged document
// still holds: entries whose command is a non-empty string are kept with
// best-effort field coercion, everything else is dropped. The second return
// lists the dropped entry names in order.
func SalvageTargetConfig(doc map[string]any, field string) (TargetConfig, []string) {
	cfg := make(TargetConfig)

	mapping, ok := doc[field].(map[string]any)
	if !ok {
		return cfg, nil
	}

	var dropped []string
	for _, name := range sortedKeys(mapping) {
		def, _ := DecodeDefinition(name, mapping[name])
		if def.Command == "" {
			dropped = append(dropped, name)
			continue
		}
		cfg[name] = def
	}
	return cfg, dropped
}

// ValidateConfig re-checks a typed config the same way raw decoding does.
// Source files are externally editable, so every read path revalidates even
// shapes that were valid when last written.
func ValidateConfig(cfg TargetConfig) []string {
	var problems []string
	for _, name := range cfg.Names() {
		if name == "" {
			problems = append(problems, "entry names must be non-empty strings")
			continue
		}
		if cfg[name].Command == "" {
			problems = append(problems, fmt.Sprintf("entry %q: command must be a non-empty string", name))
		}
	}
	return problems
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
