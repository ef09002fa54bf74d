package main

import "github.com/iamasit07/connect-four/internal/cli"

func main() {
	cli.Execute()
}
