package main

import "github.com/dukerupert/basket/internal/cli"

func main() {
	cli.Execute()
}
