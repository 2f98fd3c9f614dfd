package main

import "github.com/vietddude/blockphantom/internal/cli"

func main() {
	cli.Execute()
}
