package configs

import _ "embed"

// ApplicationYAML is the bundled copy of application.yml, used when no properties file is found on disk.
//
//go:embed application.yml
var ApplicationYAML []byte

// MessagesYAML is the bundled copy of messages.yml.
//
//go:embed messages.yml
var MessagesYAML []byte
