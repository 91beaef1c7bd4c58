package main

import "github.com/LeJamon/goIAZO/internal/cli"

func main() {
	cli.Execute()
}
