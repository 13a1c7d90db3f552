package main

import "github.com/rjmcf/dungeonchat-go/internal/cli"

func main() {
	cli.Execute()
}
