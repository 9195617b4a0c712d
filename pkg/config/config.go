// Package config loads the crawler's configuration the way the teacher's
// daemon does: a package-level viper instance, a config file plus
// environment-variable overrides (FSCRAWLER_SECTION_KEY maps onto
// section.key), and typed decoding per component via mapstructure.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper

func init() {
	v = viper.New()
	v.SetEnvPrefix("fscrawler")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// SetFile points the loader at a config file (toml, yaml or json, by extension).
func SetFile(fn string) {
	v.SetConfigFile(fn)
}

// Read loads the configured file into the package's viper instance.
func Read() error {
	return v.ReadInConfig()
}

// reGet recursively re-applies viper's Get so that environment overrides of
// nested keys are honored even though GetStringMap does not itself recurse
// through the env layer.
func reGet(prefix string, kv map[string]interface{}) {
	for k, val := range kv {
		if nested, ok := val.(map[string]interface{}); ok {
			reGet(prefix+"."+k, nested)
		} else {
			kv[k] = v.Get(prefix + "." + k)
		}
	}
}

// Get returns the raw section (e.g. "crawler") as a map suitable for
// mapstructure.Decode into a typed Options struct.
func Get(section string) map[string]interface{} {
	kv := v.GetStringMap(section)
	reGet(section, kv)
	return kv
}

// Dump returns every setting the loader currently knows about.
func Dump() map[string]interface{} {
	return v.AllSettings()
}
