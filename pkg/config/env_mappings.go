package config

import (
	"reflect"
	"sync"
	"time"
)

// EnvMapping ties an environment variable to the config key it sets.
type EnvMapping struct {
	EnvVar     string
	ConfigPath string
	Kind       string
	Sensitive  bool
}

var (
	envMappings     []EnvMapping
	envMappingsOnce sync.Once
)

// GenerateEnvMappings walks the koanf and env tags of Config. The result is
// computed once and shared; callers must not modify it.
func GenerateEnvMappings() []EnvMapping {
	envMappingsOnce.Do(func() {
		envMappings = walkEnvTags(reflect.TypeFor[Config](), "")
	})
	return envMappings
}

var durationType = reflect.TypeFor[time.Duration]()

func walkEnvTags(t reflect.Type, prefix string) []EnvMapping {
	var out []EnvMapping
	for field := range fieldsOf(t) {
		key := field.Tag.Get("koanf")
		if key == "" || key == "-" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if field.Type.Kind() == reflect.Struct {
			out = append(out, walkEnvTags(field.Type, key)...)
			continue
		}
		env := field.Tag.Get("env")
		if env == "" || env == "-" {
			continue
		}
		out = append(out, EnvMapping{
			EnvVar:     env,
			ConfigPath: key,
			Kind:       kindOf(field.Type),
			Sensitive:  field.Type == reflect.TypeFor[SensitiveString]() || field.Tag.Get("sensitive") == "true",
		})
	}
	return out
}

func fieldsOf(t reflect.Type) func(yield func(reflect.StructField) bool) {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() && !yield(f) {
				return
			}
		}
	}
}

func kindOf(t reflect.Type) string {
	if t == durationType {
		return "duration"
	}
	return t.Kind().String()
}

// GenerateEnvToConfigMap maps each environment variable to its config key.
func GenerateEnvToConfigMap() map[string]string {
	mappings := GenerateEnvMappings()
	out := make(map[string]string, len(mappings))
	for _, m := range mappings {
		out[m.EnvVar] = m.ConfigPath
	}
	return out
}

func lookupEnvMapping(configPath string) (EnvMapping, bool) {
	for _, m := range GenerateEnvMappings() {
		if m.ConfigPath == configPath {
			return m, true
		}
	}
	return EnvMapping{}, false
}

// GetEnvVarForConfigPath returns "" for keys without an environment variable.
func GetEnvVarForConfigPath(configPath string) string {
	m, _ := lookupEnvMapping(configPath)
	return m.EnvVar
}

func IsSensitiveConfigPath(configPath string) bool {
	m, _ := lookupEnvMapping(configPath)
	return m.Sensitive
}
