package main

import (
	"os"

	"github.com/protoshake/protoshake/app"
	"github.com/protoshake/protoshake/cui"
)

func main() {
	os.Exit(app.New(cui.New()).Run(os.Args[1:]))
}
