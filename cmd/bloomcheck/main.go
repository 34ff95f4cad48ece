package main

import "github.com/vietddude/bloomcheck/internal/cli"

func main() {
	cli.Execute()
}
