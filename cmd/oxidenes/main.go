// Command oxidenes runs the NES emulator.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fittysix/oxidenes/internal/app"
	"github.com/fittysix/oxidenes/internal/version"
)

// defaultROM keeps the bare `oxidenes` invocation useful during
// development.
const defaultROM = "smb.nes"

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file")
		backend     = flag.String("backend", "", "video backend override (ebitengine, terminal, headless)")
		trace       = flag.Bool("trace", false, "log every executed instruction")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	romPath := flag.Arg(0)
	if romPath == "" {
		romPath = defaultROM
	}

	path := *configPath
	if path == "" {
		path = app.DefaultConfigPath()
	}

	application, err := app.New(path)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	if *backend != "" {
		application.Config().Video.Backend = *backend
	}
	if *trace {
		application.EnableTrace()
	}

	if err := application.LoadROM(romPath); err != nil {
		log.Fatalf("cannot load %s: %v", romPath, err)
	}

	runErr := application.Run()
	if err := application.Cleanup(); err != nil {
		log.Printf("cleanup: %v", err)
	}
	if runErr != nil {
		log.Fatalf("emulation stopped: %v", runErr)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] [rom]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Runs the NES ROM at the given path (default %q).\n\nFlags:\n", defaultROM)
	flag.PrintDefaults()
}
