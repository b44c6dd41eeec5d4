package configuration

import (
	_ "embed"
)

const DefaultSource = "embedded truffle-config.json"

// defaultDeclaration is the toolchain's development declaration: a local
// Ganache node on 127.0.0.1:7545 accepting any network id, and solc 0.8.0.
//
//go:embed truffle-config.json
var defaultDeclaration []byte
