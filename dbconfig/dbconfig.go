// Package dbconfig generates the CouchDB server configuration the firmware
// registry expects.
package dbconfig

import (
	"fmt"
	"maps"
	"slices"
)

// AppPath is where the registry web app is served from on the database host.
const AppPath = "/var/www/html"

// Config is a CouchDB configuration: section name -> key -> value.
// Values are strings because CouchDB's _config API only accepts strings.
type Config map[string]map[string]string

// Generate returns the server configuration. When apiURL is non-empty, the
// database additionally proxies /_openag to apiURL and serves the web app
// under /_app.
func Generate(apiURL string) Config {
	cfg := Config{
		"httpd": {
			"port":         "5984",
			"bind_address": "0.0.0.0",
			"enable_cors":  "true",
		},
		"cors": {
			"origins":     "*",
			"credentials": "true",
		},
		"query_server_config": {
			"reduce_limit": "false",
		},
	}
	if apiURL != "" {
		cfg["httpd_global_handlers"] = map[string]string{
			"_openag": fmt.Sprintf("{couch_httpd_proxy, handle_proxy_req, <<\"%s\">>}", apiURL),
			"_app":    fmt.Sprintf("{couch_httpd_misc_handlers, handle_utils_dir_req, \"%s\"}", AppPath),
		}
	}
	return cfg
}

// Settings flattens cfg into (section, key, value) triples in a stable order,
// the shape needed to PUT each value to /_config/{section}/{key}.
func (cfg Config) Settings() []Setting {
	var out []Setting
	for _, section := range slices.Sorted(maps.Keys(cfg)) {
		for _, key := range slices.Sorted(maps.Keys(cfg[section])) {
			out = append(out, Setting{Section: section, Key: key, Value: cfg[section][key]})
		}
	}
	return out
}

// Setting is one configuration value.
type Setting struct {
	Section string
	Key     string
	Value   string
}
