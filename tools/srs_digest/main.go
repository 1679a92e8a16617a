package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rift-labs-inc/vkey"
)

// digests prints the sha256 of the Lagrange SRS for every domain up to 2^maxlog.
func digests(w io.Writer, cache *vkey.SRSCache, maxlog int) error {
	for i := 1; i <= maxlog; i++ {
		_, lk, err := cache.Read((1<<i)+3, 1<<i)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(vkey.MarshalProvingKey(lk.G1))
		fmt.Fprintln(w, "sha256", "(", "SRS.LK", "[", i, "]", ")", "=", hex.EncodeToString(sum[:]))
	}
	return nil
}

func main() {
	maxlog := flag.Int("max-log", 16, "largest log2 domain size")
	dir := flag.String("cache-dir", "", "SRS cache directory")
	flag.Parse()
	if *maxlog < 1 || *maxlog > vkey.SRS_MAX_LOG {
		log.Fatalln("max-log must be in [1,", vkey.SRS_MAX_LOG, "]")
	}
	if err := vkey.SetupLogger(os.Stderr, os.Getenv(vkey.LOG_ENV)); err != nil {
		log.Fatalln(err)
	}
	if err := digests(os.Stdout, &vkey.SRSCache{Dir: *dir, Progress: os.Stderr}, *maxlog); err != nil {
		log.Fatalln(err)
	}
}
