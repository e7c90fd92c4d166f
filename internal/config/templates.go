package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `# worker goroutines used for multi-line input
workers = 4
# operator nesting limit, 0 disables the check
max_depth = 1024
# reject set bits after the outermost packet
strict_padding = false
# text | json | yaml
output = "text"
log_level = "info"

[server]
id = "pktdecode"
addr = ":9200"
cors_origins = ["http://localhost:3000"]
max_batch = 1024
`
