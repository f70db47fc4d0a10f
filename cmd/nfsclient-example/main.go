package main

import (
	"flag"
	"fmt"
	"os"

	nfs4 "github.com/nfsclient/nfs4"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetLevel(logrus.DebugLevel)

	addr := flag.String("addr", "localhost:2049", "NFSv4.1 server address")
	path := flag.String("path", "", "file path, relative to the export root, to read and print")

	flag.Parse()

	c, err := nfs4.Dial(*addr)
	if err != nil {
		logrus.Fatal(err)
	}

	defer c.Close() //nolint:errcheck

	root := c.RootHandle()

	if *path == "" {
		entries, err := c.ReadDir(root)
		if err != nil {
			logrus.Fatal(err)
		}

		for _, e := range entries {
			fmt.Println(e.Name)
		}

		return
	}

	fh, _, err := c.LookUp(root, *path)
	if err != nil {
		logrus.Fatal(err)
	}

	data, err := c.ReadAll(fh)
	if err != nil {
		logrus.Fatal(err)
	}

	os.Stdout.Write(data) //nolint:errcheck
}
