package main

import (
	"plystream/cli"
)

func main() {
	cli.Start()
}
