// pkg-builder builds Debian and Ubuntu packages from a declarative
// pkg-builder.toml configuration using debcrafter and sbuild.
package main

import (
	"github.com/bitswalk/pkg-builder/src/pkgbuilder/core"
)

func main() {
	core.Execute()
}
