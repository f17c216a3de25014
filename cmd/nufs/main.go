// Command nufs mounts a disk-image-backed filesystem at a mountpoint,
// the host process spec.md §6 describes. The first positional argument
// is the mountpoint and the final one is the image path
// (original_source/nufs.c's `argv[argc-1]` convention). Any positional
// arguments between them are accepted but not used; they are not
// passed on to the FUSE bridge.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/gonufs/nufs/fuseglue"
	"github.com/gonufs/nufs/nufs"
	"github.com/gonufs/nufs/util"
)

func main() {
	dumpStats := flag.Bool("stats", false, "dump operation stats to stderr on unmount")
	flag.Uint64Var(&util.Debug, "debug", 0, "debug level (higher is more verbose)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 || len(args) > 4 {
		fmt.Fprintf(os.Stderr, "usage: nufs [-stats] [-debug N] mountpoint [fuse-options...] image\n")
		os.Exit(1)
	}
	imagePath := args[len(args)-1]
	mountpoint := args[0]

	backend, err := nufs.Mount(imagePath)
	if err != nil {
		log.Fatalf("nufs: mount %s: %v", imagePath, err)
	}

	root := fuseglue.New(backend)
	server, err := fs.Mount(mountpoint, root, &fs.Options{
		MountOptions: fuse.MountOptions{FsName: "nufs"},
	})
	if err != nil {
		log.Fatalf("nufs: fuse mount %s: %v", mountpoint, err)
	}

	interruptSig := make(chan os.Signal, 1)
	signal.Notify(interruptSig, os.Interrupt)
	go func() {
		<-interruptSig
		server.Unmount()
	}()

	server.Wait()

	if *dumpStats {
		backend.Stats.WriteTable(os.Stderr)
	}
	if err := backend.Close(); err != nil {
		log.Fatalf("nufs: close %s: %v", imagePath, err)
	}
}
