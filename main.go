package main

import (
	"os"

	"github.com/ktr0731/protoorder/app"
	"github.com/ktr0731/protoorder/cui"
)

func main() {
	os.Exit(app.New(cui.New()).Run(os.Args[1:]))
}
