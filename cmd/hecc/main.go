// This binary shreds payloads with the hiding erasure code, drops shards and
// recovers them again, to exercise parameter choices end to end.
package main

import (
	"context"
	"flag"
	"os"

	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

// The current version, displayed via the `version` subcommand.
const heccVersion = "0.1.0"

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&roundtripCmd{}, "")
	subcommands.Register(&paramsCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	status := subcommands.Execute(ctx)
	glog.Flush()
	os.Exit(int(status))
}
