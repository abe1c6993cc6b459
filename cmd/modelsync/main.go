package main

import "github.com/leapstack-labs/modelsync/internal/cli"

func main() {
	cli.Execute()
}
